package database

import (
	"database/sql"
	"time"
)

// RSVP is a guest's response for one party. (guest_name, party) is a
// natural key: at most one row exists for a pair at any time.
type RSVP struct {
	ID        int64
	GuestName string
	Party     string
	Status    string
	Notes     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorizedGuest is an allow-list entry granting a (name, party) pair
// write access to its RSVP.
type AuthorizedGuest struct {
	ID        int64
	GuestName string
	Party     string
	CreatedAt time.Time
}

// GuestLink tracks the invitation link generated for a guest and whether
// it has been sent, independent of any RSVP.
type GuestLink struct {
	ID        int64
	GuestName string
	Party     string
	Link      string
	Sent      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AdminUser struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// RSVPFilters narrow an RSVP listing. Zero values match everything; set
// filters combine with AND.
type RSVPFilters struct {
	Party  string
	Status string
	Search string
}

type RSVPStats struct {
	Total  int
	Yes    int
	No     int
	Maybe  int
	Party1 int
	Party2 int
}

type GuestLinkStats struct {
	Total   int
	Sent    int
	Pending int
}
