package handlers

import (
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/khoaluu/wedding-rsvp/internal/database"
)

// memStore implements Store with the same observable semantics as the
// Postgres layer: natural-key upserts that preserve created_at, AND-ed
// list filters, newest-first ordering.
type memStore struct {
	nextID     int64
	rsvps      []*database.RSVP
	authorized []*database.AuthorizedGuest
	links      []*database.GuestLink
	admins     map[string]*database.AdminUser
}

func newMemStore() *memStore {
	return &memStore{admins: make(map[string]*database.AdminUser)}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) GetRSVP(guestName, party string) (*database.RSVP, error) {
	for _, r := range m.rsvps {
		if r.GuestName == guestName && r.Party == party {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memStore) UpsertRSVP(guestName, party, status, notes string) (*database.RSVP, error) {
	now := time.Now()
	notesVal := sql.NullString{String: notes, Valid: notes != ""}

	for _, r := range m.rsvps {
		if r.GuestName == guestName && r.Party == party {
			r.Status = status
			r.Notes = notesVal
			r.UpdatedAt = now
			return r, nil
		}
	}

	r := &database.RSVP{
		ID:        m.id(),
		GuestName: guestName,
		Party:     party,
		Status:    status,
		Notes:     notesVal,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.rsvps = append(m.rsvps, r)
	return r, nil
}

func (m *memStore) ListRSVPs(filters database.RSVPFilters) ([]*database.RSVP, error) {
	var out []*database.RSVP
	for _, r := range m.rsvps {
		if filters.Party != "" && r.Party != filters.Party {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.Search != "" &&
			!strings.Contains(strings.ToLower(r.GuestName), strings.ToLower(filters.Search)) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) DeleteRSVP(id int64) (bool, error) {
	for i, r := range m.rsvps {
		if r.ID == id {
			m.rsvps = append(m.rsvps[:i], m.rsvps[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) RSVPStats() (*database.RSVPStats, error) {
	stats := &database.RSVPStats{Total: len(m.rsvps)}
	for _, r := range m.rsvps {
		switch r.Status {
		case "yes":
			stats.Yes++
		case "no":
			stats.No++
		case "maybe":
			stats.Maybe++
		}
		if r.Party == "1" {
			stats.Party1++
		} else {
			stats.Party2++
		}
	}
	return stats, nil
}

func (m *memStore) AuthorizeGuest(guestName, party string) (*database.AuthorizedGuest, error) {
	for _, g := range m.authorized {
		if g.GuestName == guestName && g.Party == party {
			return g, nil
		}
	}
	g := &database.AuthorizedGuest{
		ID:        m.id(),
		GuestName: guestName,
		Party:     party,
		CreatedAt: time.Now(),
	}
	m.authorized = append(m.authorized, g)
	return g, nil
}

func (m *memStore) IsGuestAuthorized(guestName, party string) (bool, error) {
	for _, g := range m.authorized {
		if g.GuestName == guestName && g.Party == party {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ListAuthorizedGuests() ([]*database.AuthorizedGuest, error) {
	out := make([]*database.AuthorizedGuest, len(m.authorized))
	copy(out, m.authorized)
	return out, nil
}

func (m *memStore) RevokeGuest(guestName, party string) (bool, error) {
	for i, g := range m.authorized {
		if g.GuestName == guestName && g.Party == party {
			m.authorized = append(m.authorized[:i], m.authorized[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) UpsertGuestLink(guestName, party, link string) (*database.GuestLink, error) {
	now := time.Now()
	for _, gl := range m.links {
		if gl.GuestName == guestName && gl.Party == party {
			gl.Link = link
			gl.UpdatedAt = now
			return gl, nil
		}
	}
	gl := &database.GuestLink{
		ID:        m.id(),
		GuestName: guestName,
		Party:     party,
		Link:      link,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.links = append(m.links, gl)
	return gl, nil
}

func (m *memStore) ListGuestLinks() ([]*database.GuestLink, error) {
	out := make([]*database.GuestLink, len(m.links))
	copy(out, m.links)
	return out, nil
}

func (m *memStore) SetGuestLinkSent(id int64, sent bool) (*database.GuestLink, error) {
	for _, gl := range m.links {
		if gl.ID == id {
			gl.Sent = sent
			gl.UpdatedAt = time.Now()
			return gl, nil
		}
	}
	return nil, nil
}

func (m *memStore) DeleteGuestLink(id int64) (bool, error) {
	for i, gl := range m.links {
		if gl.ID == id {
			m.links = append(m.links[:i], m.links[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) GuestLinkStats() (*database.GuestLinkStats, error) {
	stats := &database.GuestLinkStats{Total: len(m.links)}
	for _, gl := range m.links {
		if gl.Sent {
			stats.Sent++
		} else {
			stats.Pending++
		}
	}
	return stats, nil
}

func (m *memStore) GetAdminByUsername(username string) (*database.AdminUser, error) {
	return m.admins[username], nil
}

// memSessions backs auth.Sessions in tests, honoring the contract that
// validity requires expiry in the future.
type memSessions struct {
	sessions map[string]time.Time
}

func newMemSessions() *memSessions {
	return &memSessions{sessions: make(map[string]time.Time)}
}

func (m *memSessions) CreateSession(token string, expiresAt time.Time) error {
	m.sessions[token] = expiresAt
	return nil
}

func (m *memSessions) HasValidSession(token string) (bool, error) {
	expiresAt, ok := m.sessions[token]
	return ok && expiresAt.After(time.Now()), nil
}

func (m *memSessions) DeleteSession(token string) (bool, error) {
	_, ok := m.sessions[token]
	delete(m.sessions, token)
	return ok, nil
}

// testServer implements the Server interface over in-memory fakes.
type testServer struct {
	store    *memStore
	sessions *auth.Sessions
}

func newTestServer() *testServer {
	return &testServer{
		store:    newMemStore(),
		sessions: auth.NewSessions(newMemSessions(), time.Hour, false),
	}
}

func (s *testServer) GetStore() Store             { return s.store }
func (s *testServer) GetSessions() *auth.Sessions { return s.sessions }
