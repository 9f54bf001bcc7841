// Package handlers implements the JSON and CSV endpoints of the RSVP
// subsystem. Handlers are constructed against the Server interface so
// tests can run them over in-memory stores.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/khoaluu/wedding-rsvp/internal/database"
)

// Store is the storage surface handlers depend on. *database.DB
// implements it.
type Store interface {
	GetRSVP(guestName, party string) (*database.RSVP, error)
	UpsertRSVP(guestName, party, status, notes string) (*database.RSVP, error)
	ListRSVPs(filters database.RSVPFilters) ([]*database.RSVP, error)
	DeleteRSVP(id int64) (bool, error)
	RSVPStats() (*database.RSVPStats, error)

	AuthorizeGuest(guestName, party string) (*database.AuthorizedGuest, error)
	IsGuestAuthorized(guestName, party string) (bool, error)
	ListAuthorizedGuests() ([]*database.AuthorizedGuest, error)
	RevokeGuest(guestName, party string) (bool, error)

	UpsertGuestLink(guestName, party, link string) (*database.GuestLink, error)
	ListGuestLinks() ([]*database.GuestLink, error)
	SetGuestLinkSent(id int64, sent bool) (*database.GuestLink, error)
	DeleteGuestLink(id int64) (bool, error)
	GuestLinkStats() (*database.GuestLinkStats, error)

	GetAdminByUsername(username string) (*database.AdminUser, error)
}

// Server interface defines the methods needed by handlers
type Server interface {
	GetStore() Store
	GetSessions() *auth.Sessions
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorJSON struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// WriteError emits the uniform failure envelope.
func WriteError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorJSON{Success: false, Error: msg})
}

// rsvpJSON is the wire form of an RSVP: camelCase, RFC3339 timestamps,
// null for absent notes.
type rsvpJSON struct {
	ID        int64   `json:"id"`
	GuestName string  `json:"guestName"`
	Party     string  `json:"party"`
	Status    string  `json:"status"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func formatRSVP(r *database.RSVP) rsvpJSON {
	out := rsvpJSON{
		ID:        r.ID,
		GuestName: r.GuestName,
		Party:     r.Party,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if r.Notes.Valid {
		notes := r.Notes.String
		out.Notes = &notes
	}
	return out
}

type guestLinkJSON struct {
	ID        int64  `json:"id"`
	GuestName string `json:"guestName"`
	Party     string `json:"party"`
	Link      string `json:"link"`
	Sent      bool   `json:"sent"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func formatGuestLink(gl *database.GuestLink) guestLinkJSON {
	return guestLinkJSON{
		ID:        gl.ID,
		GuestName: gl.GuestName,
		Party:     gl.Party,
		Link:      gl.Link,
		Sent:      gl.Sent,
		CreatedAt: gl.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: gl.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

type authorizedGuestJSON struct {
	ID        int64  `json:"id"`
	GuestName string `json:"guestName"`
	Party     string `json:"party"`
	CreatedAt string `json:"createdAt"`
}

func formatAuthorizedGuest(g *database.AuthorizedGuest) authorizedGuestJSON {
	return authorizedGuestJSON{
		ID:        g.ID,
		GuestName: g.GuestName,
		Party:     g.Party,
		CreatedAt: g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type statsJSON struct {
	Total  int `json:"total"`
	Yes    int `json:"yes"`
	No     int `json:"no"`
	Maybe  int `json:"maybe"`
	Party1 int `json:"party1"`
	Party2 int `json:"party2"`
}

func formatStats(s *database.RSVPStats) statsJSON {
	return statsJSON{
		Total:  s.Total,
		Yes:    s.Yes,
		No:     s.No,
		Maybe:  s.Maybe,
		Party1: s.Party1,
		Party2: s.Party2,
	}
}
