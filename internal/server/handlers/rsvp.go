package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/khoaluu/wedding-rsvp/internal/guestname"
	"github.com/khoaluu/wedding-rsvp/internal/validation"
	"github.com/rs/zerolog/log"
)

// guestFromQuery decodes the guest token and party from the query string.
// Writes a 400 and returns false when either is unusable; an undecodable
// token is reported as a missing guest, never as a parse error.
func guestFromQuery(r *http.Request, w http.ResponseWriter) (name, party string, ok bool) {
	q := r.URL.Query()

	name, decoded := guestname.Decode(q.Get("guest"))
	if !decoded {
		WriteError(w, http.StatusBadRequest, "Guest name is required")
		return "", "", false
	}

	party = q.Get("party")
	if res := validation.Party(party); !res.Valid {
		WriteError(w, http.StatusBadRequest, "Valid party parameter (1 or 2) is required")
		return "", "", false
	}

	return name, party, true
}

// HandleGetRSVP returns the guest's existing RSVP, or null when they have
// not responded yet.
func HandleGetRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, party, ok := guestFromQuery(r, w)
		if !ok {
			return
		}

		rsvp, err := s.GetStore().GetRSVP(name, party)
		if err != nil {
			log.Error().Err(err).Str("party", party).Msg("failed to get rsvp")
			WriteError(w, http.StatusInternalServerError, "Failed to retrieve RSVP")
			return
		}

		payload := map[string]any{"success": true, "rsvp": nil}
		if rsvp != nil {
			payload["rsvp"] = formatRSVP(rsvp)
		}
		writeJSON(w, http.StatusOK, payload)
	}
}

type rsvpSubmission struct {
	GuestName string `json:"guestName"`
	Party     string `json:"party"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
}

// HandleSubmitRSVP creates or overwrites a guest's RSVP. The submission
// must pass validation and the (name, party) pair must be on the
// allow-list; repeated submissions converge on a single row.
func HandleSubmitRSVP(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req rsvpSubmission
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if res := validation.Submission(req.GuestName, req.Party, req.Status, req.Notes); !res.Valid {
			WriteError(w, http.StatusBadRequest, res.Error)
			return
		}

		name := strings.TrimSpace(req.GuestName)

		authorized, err := s.GetStore().IsGuestAuthorized(name, req.Party)
		if err != nil {
			log.Error().Err(err).Str("party", req.Party).Msg("failed to check authorization")
			WriteError(w, http.StatusInternalServerError, "Failed to save RSVP")
			return
		}
		if !authorized {
			WriteError(w, http.StatusForbidden, "Not authorized")
			return
		}

		rsvp, err := s.GetStore().UpsertRSVP(name, req.Party, req.Status, req.Notes)
		if err != nil {
			log.Error().Err(err).Str("party", req.Party).Msg("failed to upsert rsvp")
			WriteError(w, http.StatusInternalServerError, "Failed to save RSVP")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"rsvp":    formatRSVP(rsvp),
		})
	}
}

// HandleCheckAuthorization tells the invitation page whether to show the
// RSVP form for this guest.
func HandleCheckAuthorization(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, party, ok := guestFromQuery(r, w)
		if !ok {
			return
		}

		authorized, err := s.GetStore().IsGuestAuthorized(name, party)
		if err != nil {
			log.Error().Err(err).Str("party", party).Msg("failed to check authorization")
			WriteError(w, http.StatusInternalServerError, "Failed to check authorization")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"authorized": authorized,
			"guestName":  name,
			"party":      party,
		})
	}
}
