// Package validation checks RSVP submissions before they reach the store.
package validation

import "strings"

const (
	MaxGuestNameLength = 255
	MaxNotesLength     = 1000
)

// Result is a tagged validation outcome. Error is only meaningful when
// Valid is false.
type Result struct {
	Valid bool
	Error string
}

func ok() Result {
	return Result{Valid: true}
}

func fail(msg string) Result {
	return Result{Valid: false, Error: msg}
}

// GuestName requires a non-blank name of at most 255 characters after
// trimming.
func GuestName(name string) Result {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return fail("Guest name is required")
	}
	if len([]rune(trimmed)) > MaxGuestNameLength {
		return fail("Guest name is too long (max 255 characters)")
	}

	return ok()
}

// Party accepts exactly the two celebration identifiers.
func Party(party string) Result {
	if party != "1" && party != "2" {
		return fail(`Party must be "1" or "2"`)
	}
	return ok()
}

// Status accepts the three response states.
func Status(status string) Result {
	if status != "yes" && status != "no" && status != "maybe" {
		return fail(`Status must be "yes", "no", or "maybe"`)
	}
	return ok()
}

// Notes are optional free text, capped at 1000 characters.
func Notes(notes string) Result {
	if len([]rune(notes)) > MaxNotesLength {
		return fail("Notes are too long (max 1000 characters)")
	}
	return ok()
}

// Submission validates a complete RSVP submission, reporting the first
// failing field.
func Submission(guestName, party, status, notes string) Result {
	if res := GuestName(guestName); !res.Valid {
		return res
	}
	if res := Party(party); !res.Valid {
		return res
	}
	if res := Status(status); !res.Valid {
		return res
	}
	return Notes(notes)
}
