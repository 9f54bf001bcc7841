package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEscapeCSVField(t *testing.T) {
	tests := []struct {
		name  string
		field string
		want  string
	}{
		{"plain", "Alice", "Alice"},
		{"unicode", "Nguyễn Văn An", "Nguyễn Văn An"},
		{"comma", "late, sorry", `"late, sorry"`},
		{"quotes", `Hello, "friend"`, `"Hello, ""friend"""`},
		{"newline", "line one\nline two", "\"line one\nline two\""},
		{"only quotes", `"quoted"`, `"""quoted"""`},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeCSVField(tt.field); got != tt.want {
				t.Errorf("escapeCSVField(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestExportRSVPs(t *testing.T) {
	s := newTestServer()
	if _, err := s.store.UpsertRSVP("Alice", "1", "yes", `Hello, "friend"`); err != nil {
		t.Fatal(err)
	}
	if _, err := s.store.UpsertRSVP("Bob", "2", "maybe", ""); err != nil {
		t.Fatal(err)
	}

	r := httptest.NewRequest(http.MethodGet, "/api/admin/rsvps/export", nil)
	rec := httptest.NewRecorder()
	HandleExportRSVPs(s)(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.HasPrefix(cd, "attachment; filename=wedding-rsvps-") || !strings.HasSuffix(cd, ".csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}

	body := rec.Body.Bytes()
	if !bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("export missing UTF-8 BOM")
	}

	lines := strings.Split(strings.TrimRight(string(body[3:]), "\n"), "\n")
	if lines[0] != "ID,Guest Name,Party,Status,Notes,Created At,Updated At" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 3 {
		t.Fatalf("export has %d data rows, want 2", len(lines)-1)
	}

	var aliceRow string
	for _, line := range lines[1:] {
		if strings.Contains(line, "Alice") {
			aliceRow = line
		}
	}
	if aliceRow == "" {
		t.Fatal("Alice row missing from export")
	}
	if !strings.Contains(aliceRow, `"Hello, ""friend"""`) {
		t.Errorf("notes not escaped: %q", aliceRow)
	}
	if !strings.Contains(aliceRow, "Party 1 (Bride)") || !strings.Contains(aliceRow, ",Yes,") {
		t.Errorf("labels missing: %q", aliceRow)
	}
}
