package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/khoaluu/wedding-rsvp/internal/database"
	"github.com/rs/zerolog/log"
)

// escapeCSVField quotes a value when it contains a comma, quote, or
// newline, doubling any internal quotes.
func escapeCSVField(field string) string {
	if strings.ContainsAny(field, ",\"\n") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

func partyLabel(party string) string {
	if party == "1" {
		return "Party 1 (Bride)"
	}
	return "Party 2 (Groom)"
}

func statusLabel(status string) string {
	switch status {
	case "yes":
		return "Yes"
	case "no":
		return "No"
	default:
		return "Maybe"
	}
}

// buildCSVRow formats one RSVP as a CSV line.
func buildCSVRow(rsvp *database.RSVP) string {
	notes := ""
	if rsvp.Notes.Valid {
		notes = rsvp.Notes.String
	}

	fields := []string{
		fmt.Sprintf("%d", rsvp.ID),
		escapeCSVField(rsvp.GuestName),
		escapeCSVField(partyLabel(rsvp.Party)),
		escapeCSVField(statusLabel(rsvp.Status)),
		escapeCSVField(notes),
		rsvp.CreatedAt.UTC().Format(time.RFC3339),
		rsvp.UpdatedAt.UTC().Format(time.RFC3339),
	}
	return strings.Join(fields, ",") + "\n"
}

// HandleExportRSVPs streams all RSVPs as a CSV attachment.
func HandleExportRSVPs(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rsvps, err := s.GetStore().ListRSVPs(database.RSVPFilters{})
		if err != nil {
			log.Error().Err(err).Msg("failed to export rsvps")
			WriteError(w, http.StatusInternalServerError, "Failed to export RSVPs")
			return
		}

		filename := fmt.Sprintf("wedding-rsvps-%s.csv", time.Now().UTC().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename="+filename)

		// UTF-8 BOM so Excel renders Vietnamese names correctly
		w.Write([]byte{0xEF, 0xBB, 0xBF})
		w.Write([]byte("ID,Guest Name,Party,Status,Notes,Created At,Updated At\n"))

		for _, rsvp := range rsvps {
			w.Write([]byte(buildCSVRow(rsvp)))
		}
	}
}
