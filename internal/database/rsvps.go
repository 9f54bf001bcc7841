package database

import (
	"database/sql"
	"fmt"
	"strings"
)

const rsvpColumns = "id, guest_name, party, status, notes, created_at, updated_at"

// GetRSVP retrieves the RSVP for a guest and party, or nil if none exists.
func (db *DB) GetRSVP(guestName, party string) (*RSVP, error) {
	row := db.queryRow(
		`SELECT `+rsvpColumns+` FROM rsvps WHERE guest_name = $1 AND party = $2`,
		guestName, party,
	)

	rsvp, err := scanRSVP(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}

	return rsvp, nil
}

// UpsertRSVP creates or overwrites the RSVP for (guestName, party) in a
// single statement. Concurrent submissions for the same pair serialize on
// the database's conflict resolution, so the natural key can never gain a
// second row or lose an update. created_at is preserved across overwrites,
// updated_at advances.
func (db *DB) UpsertRSVP(guestName, party, status, notes string) (*RSVP, error) {
	row := db.queryRow(
		`INSERT INTO rsvps (guest_name, party, status, notes)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (guest_name, party)
		 DO UPDATE SET
		   status = EXCLUDED.status,
		   notes = EXCLUDED.notes,
		   updated_at = NOW()
		 RETURNING `+rsvpColumns,
		guestName, party, status, nullable(notes),
	)

	rsvp, err := scanRSVP(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert rsvp: %w", err)
	}

	return rsvp, nil
}

// ListRSVPs returns RSVPs matching all set filters, newest first.
func (db *DB) ListRSVPs(filters RSVPFilters) ([]*RSVP, error) {
	var conditions []string
	var args []any

	if filters.Party != "" {
		args = append(args, filters.Party)
		conditions = append(conditions, fmt.Sprintf("party = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		conditions = append(conditions, fmt.Sprintf("guest_name ILIKE $%d", len(args)))
	}

	query := `SELECT ` + rsvpColumns + ` FROM rsvps`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []*RSVP
	for rows.Next() {
		rsvp, err := scanRSVP(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, rsvp)
	}

	return rsvps, rows.Err()
}

// DeleteRSVP removes an RSVP by id, reporting whether a row was removed.
func (db *DB) DeleteRSVP(id int64) (bool, error) {
	result, err := db.exec(`DELETE FROM rsvps WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete rsvp: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// RSVPStats aggregates counts by status and party in one read, so the
// numbers come from a single snapshot.
func (db *DB) RSVPStats() (*RSVPStats, error) {
	stats := &RSVPStats{}
	err := db.queryRow(
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'yes'),
			COUNT(*) FILTER (WHERE status = 'no'),
			COUNT(*) FILTER (WHERE status = 'maybe'),
			COUNT(*) FILTER (WHERE party = '1'),
			COUNT(*) FILTER (WHERE party = '2')
		 FROM rsvps`,
	).Scan(&stats.Total, &stats.Yes, &stats.No, &stats.Maybe, &stats.Party1, &stats.Party2)

	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp stats: %w", err)
	}

	return stats, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRSVP(s scanner) (*RSVP, error) {
	rsvp := &RSVP{}
	err := s.Scan(&rsvp.ID, &rsvp.GuestName, &rsvp.Party, &rsvp.Status,
		&rsvp.Notes, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rsvp, nil
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
