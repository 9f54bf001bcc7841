package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/khoaluu/wedding-rsvp/internal/database"
	"github.com/khoaluu/wedding-rsvp/internal/validation"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// parseID parses a route id and returns an error if invalid. The whole
// string must be numeric: a trailing typo must not silently target a row.
func parseID(idStr string) (int64, error) {
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid ID format: %w", err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid ID: must be positive")
	}
	return id, nil
}

type guestPairRequest struct {
	GuestName string `json:"guestName"`
	Party     string `json:"party"`
}

// validateGuestPair checks the (guestName, party) fields shared by the
// authorize and revoke bodies, writing a 400 on failure.
func validateGuestPair(req guestPairRequest, w http.ResponseWriter) (name string, ok bool) {
	if res := validation.GuestName(req.GuestName); !res.Valid {
		WriteError(w, http.StatusBadRequest, res.Error)
		return "", false
	}
	if res := validation.Party(req.Party); !res.Valid {
		WriteError(w, http.StatusBadRequest, res.Error)
		return "", false
	}
	return strings.TrimSpace(req.GuestName), true
}

// HandleAuthorizeGuest puts a (name, party) pair on the RSVP allow-list.
// Re-authorizing an existing pair is a no-op that returns the original
// entry.
func HandleAuthorizeGuest(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestPairRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		name, ok := validateGuestPair(req, w)
		if !ok {
			return
		}

		guest, err := s.GetStore().AuthorizeGuest(name, req.Party)
		if err != nil {
			log.Error().Err(err).Str("party", req.Party).Msg("failed to authorize guest")
			WriteError(w, http.StatusInternalServerError, "Failed to authorize guest")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":         true,
			"authorizedGuest": formatAuthorizedGuest(guest),
		})
	}
}

// HandleListAuthorizedGuests returns the full allow-list.
func HandleListAuthorizedGuests(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guests, err := s.GetStore().ListAuthorizedGuests()
		if err != nil {
			log.Error().Err(err).Msg("failed to list authorized guests")
			WriteError(w, http.StatusInternalServerError, "Failed to fetch authorized guests")
			return
		}

		out := make([]authorizedGuestJSON, 0, len(guests))
		for _, g := range guests {
			out = append(out, formatAuthorizedGuest(g))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":          true,
			"authorizedGuests": out,
		})
	}
}

// HandleRevokeGuest removes a (name, party) pair from the allow-list by
// its natural key.
func HandleRevokeGuest(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guestPairRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		name, ok := validateGuestPair(req, w)
		if !ok {
			return
		}

		removed, err := s.GetStore().RevokeGuest(name, req.Party)
		if err != nil {
			log.Error().Err(err).Str("party", req.Party).Msg("failed to revoke guest")
			WriteError(w, http.StatusInternalServerError, "Failed to revoke guest")
			return
		}
		if !removed {
			WriteError(w, http.StatusNotFound, "Authorized guest not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Guest authorization revoked",
		})
	}
}

// HandleListRSVPs returns the filtered RSVP list together with aggregate
// stats. The two reads are independent, so they run concurrently.
func HandleListRSVPs(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filters := database.RSVPFilters{}
		if party := q.Get("party"); validation.Party(party).Valid {
			filters.Party = party
		}
		if status := q.Get("status"); validation.Status(status).Valid {
			filters.Status = status
		}
		if search := strings.TrimSpace(q.Get("search")); search != "" {
			filters.Search = search
		}

		var (
			rsvps []*database.RSVP
			stats *database.RSVPStats
		)

		var g errgroup.Group
		g.Go(func() error {
			var err error
			rsvps, err = s.GetStore().ListRSVPs(filters)
			return err
		})
		g.Go(func() error {
			var err error
			stats, err = s.GetStore().RSVPStats()
			return err
		})

		if err := g.Wait(); err != nil {
			log.Error().Err(err).Msg("failed to fetch rsvps")
			WriteError(w, http.StatusInternalServerError, "Failed to fetch RSVPs")
			return
		}

		out := make([]rsvpJSON, 0, len(rsvps))
		for _, rsvp := range rsvps {
			out = append(out, formatRSVP(rsvp))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"rsvps":   out,
			"stats":   formatStats(stats),
		})
	}
}

// HandleDeleteRSVP removes an RSVP by numeric id.
func HandleDeleteRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r.PathValue("id"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid RSVP ID")
			return
		}

		deleted, err := s.GetStore().DeleteRSVP(id)
		if err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to delete rsvp")
			WriteError(w, http.StatusInternalServerError, "Failed to delete RSVP")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "RSVP not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "RSVP deleted successfully",
		})
	}
}
