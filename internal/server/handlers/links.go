package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/khoaluu/wedding-rsvp/internal/validation"
	"github.com/rs/zerolog/log"
)

// HandleListGuestLinks returns all tracked invitation links plus their
// sent/pending totals.
func HandleListGuestLinks(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		links, err := s.GetStore().ListGuestLinks()
		if err != nil {
			log.Error().Err(err).Msg("failed to list guest links")
			WriteError(w, http.StatusInternalServerError, "Failed to fetch guest links")
			return
		}

		stats, err := s.GetStore().GuestLinkStats()
		if err != nil {
			log.Error().Err(err).Msg("failed to get guest link stats")
			WriteError(w, http.StatusInternalServerError, "Failed to fetch guest links")
			return
		}

		out := make([]guestLinkJSON, 0, len(links))
		for _, gl := range links {
			out = append(out, formatGuestLink(gl))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":    true,
			"guestLinks": out,
			"stats": map[string]int{
				"total":   stats.Total,
				"sent":    stats.Sent,
				"pending": stats.Pending,
			},
		})
	}
}

type createLinkRequest struct {
	GuestName string `json:"guestName"`
	Party     string `json:"party"`
	Link      string `json:"link"`
}

// HandleCreateGuestLink records a generated invitation link and puts the
// guest on the RSVP allow-list in the same request. The two writes are
// separate idempotent upserts, not a transaction: if the second fails the
// guest has a link without authorization until the admin regenerates it.
func HandleCreateGuestLink(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if res := validation.GuestName(req.GuestName); !res.Valid {
			WriteError(w, http.StatusBadRequest, "Guest name is required")
			return
		}
		if res := validation.Party(req.Party); !res.Valid {
			WriteError(w, http.StatusBadRequest, "Valid party (1 or 2) is required")
			return
		}
		if strings.TrimSpace(req.Link) == "" {
			WriteError(w, http.StatusBadRequest, "Link is required")
			return
		}

		name := strings.TrimSpace(req.GuestName)

		guestLink, err := s.GetStore().UpsertGuestLink(name, req.Party, req.Link)
		if err != nil {
			log.Error().Err(err).Str("party", req.Party).Msg("failed to create guest link")
			WriteError(w, http.StatusInternalServerError, "Failed to create guest link")
			return
		}

		// Also authorize the guest for RSVP access
		if _, err := s.GetStore().AuthorizeGuest(name, req.Party); err != nil {
			log.Error().Err(err).Str("party", req.Party).Msg("failed to authorize guest for link")
			WriteError(w, http.StatusInternalServerError, "Failed to create guest link")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"guestLink": formatGuestLink(guestLink),
		})
	}
}

type updateLinkRequest struct {
	Sent *bool `json:"sent"`
}

// HandleUpdateGuestLink toggles a link's sent flag.
func HandleUpdateGuestLink(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r.PathValue("id"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid link ID")
			return
		}

		var req updateLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Sent == nil {
			WriteError(w, http.StatusBadRequest, "Sent status must be a boolean")
			return
		}

		updated, err := s.GetStore().SetGuestLinkSent(id, *req.Sent)
		if err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to update guest link")
			WriteError(w, http.StatusInternalServerError, "Failed to update guest link")
			return
		}
		if updated == nil {
			WriteError(w, http.StatusNotFound, "Guest link not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":   true,
			"guestLink": formatGuestLink(updated),
		})
	}
}

// HandleDeleteGuestLink removes a link by id.
func HandleDeleteGuestLink(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r.PathValue("id"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid link ID")
			return
		}

		deleted, err := s.GetStore().DeleteGuestLink(id)
		if err != nil {
			log.Error().Err(err).Int64("id", id).Msg("failed to delete guest link")
			WriteError(w, http.StatusInternalServerError, "Failed to delete guest link")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "Guest link not found")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Guest link deleted successfully",
		})
	}
}
