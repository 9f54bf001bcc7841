package database

import (
	"database/sql"
	"fmt"
)

const guestLinkColumns = "id, guest_name, party, link, sent, created_at, updated_at"

// UpsertGuestLink records the invitation link generated for (guestName,
// party). Regenerating a link replaces the URL and advances updated_at but
// leaves sent and created_at alone: a regenerate is a link replacement,
// not a reset.
func (db *DB) UpsertGuestLink(guestName, party, link string) (*GuestLink, error) {
	row := db.queryRow(
		`INSERT INTO guest_links (guest_name, party, link)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (guest_name, party)
		 DO UPDATE SET
		   link = EXCLUDED.link,
		   updated_at = NOW()
		 RETURNING `+guestLinkColumns,
		guestName, party, link,
	)

	gl, err := scanGuestLink(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert guest link: %w", err)
	}

	return gl, nil
}

// ListGuestLinks returns all tracked links, newest first.
func (db *DB) ListGuestLinks() ([]*GuestLink, error) {
	rows, err := db.query(
		`SELECT ` + guestLinkColumns + ` FROM guest_links ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list guest links: %w", err)
	}
	defer rows.Close()

	var links []*GuestLink
	for rows.Next() {
		gl, err := scanGuestLink(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guest link: %w", err)
		}
		links = append(links, gl)
	}

	return links, rows.Err()
}

// SetGuestLinkSent toggles the sent flag, returning the updated link or
// nil if the id does not exist.
func (db *DB) SetGuestLinkSent(id int64, sent bool) (*GuestLink, error) {
	row := db.queryRow(
		`UPDATE guest_links SET sent = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+guestLinkColumns,
		sent, id,
	)

	gl, err := scanGuestLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update guest link: %w", err)
	}

	return gl, nil
}

// DeleteGuestLink removes a link by id, reporting whether a row was
// removed.
func (db *DB) DeleteGuestLink(id int64) (bool, error) {
	result, err := db.exec(`DELETE FROM guest_links WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete guest link: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}

// GuestLinkStats counts links by sent status in one read.
func (db *DB) GuestLinkStats() (*GuestLinkStats, error) {
	stats := &GuestLinkStats{}
	err := db.queryRow(
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE sent),
			COUNT(*) FILTER (WHERE NOT sent)
		 FROM guest_links`,
	).Scan(&stats.Total, &stats.Sent, &stats.Pending)

	if err != nil {
		return nil, fmt.Errorf("failed to get guest link stats: %w", err)
	}

	return stats, nil
}

func scanGuestLink(s scanner) (*GuestLink, error) {
	gl := &GuestLink{}
	err := s.Scan(&gl.ID, &gl.GuestName, &gl.Party, &gl.Link, &gl.Sent,
		&gl.CreatedAt, &gl.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return gl, nil
}
