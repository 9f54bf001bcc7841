package database

import "fmt"

// AuthorizeGuest adds (guestName, party) to the RSVP allow-list. The call
// is idempotent: re-authorizing an existing pair returns the original row.
// The no-op DO UPDATE lets RETURNING yield the existing row with its
// original created_at intact.
func (db *DB) AuthorizeGuest(guestName, party string) (*AuthorizedGuest, error) {
	guest := &AuthorizedGuest{}
	err := db.queryRow(
		`INSERT INTO authorized_guests (guest_name, party)
		 VALUES ($1, $2)
		 ON CONFLICT (guest_name, party)
		 DO UPDATE SET guest_name = EXCLUDED.guest_name
		 RETURNING id, guest_name, party, created_at`,
		guestName, party,
	).Scan(&guest.ID, &guest.GuestName, &guest.Party, &guest.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to authorize guest: %w", err)
	}

	return guest, nil
}

// IsGuestAuthorized reports allow-list membership. This is the only check
// gating public RSVP writes.
func (db *DB) IsGuestAuthorized(guestName, party string) (bool, error) {
	var authorized bool
	err := db.queryRow(
		`SELECT EXISTS(SELECT 1 FROM authorized_guests WHERE guest_name = $1 AND party = $2)`,
		guestName, party,
	).Scan(&authorized)

	if err != nil {
		return false, fmt.Errorf("failed to check guest authorization: %w", err)
	}

	return authorized, nil
}

// ListAuthorizedGuests returns the full allow-list, newest first.
func (db *DB) ListAuthorizedGuests() ([]*AuthorizedGuest, error) {
	rows, err := db.query(
		`SELECT id, guest_name, party, created_at
		 FROM authorized_guests ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list authorized guests: %w", err)
	}
	defer rows.Close()

	var guests []*AuthorizedGuest
	for rows.Next() {
		guest := &AuthorizedGuest{}
		if err := rows.Scan(&guest.ID, &guest.GuestName, &guest.Party, &guest.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan authorized guest: %w", err)
		}
		guests = append(guests, guest)
	}

	return guests, rows.Err()
}

// RevokeGuest removes (guestName, party) from the allow-list, reporting
// whether a row was removed. An existing RSVP is left in place.
func (db *DB) RevokeGuest(guestName, party string) (bool, error) {
	result, err := db.exec(
		`DELETE FROM authorized_guests WHERE guest_name = $1 AND party = $2`,
		guestName, party,
	)
	if err != nil {
		return false, fmt.Errorf("failed to revoke guest: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return affected > 0, nil
}
