package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/khoaluu/wedding-rsvp/internal/database"
)

func seedAdmin(t *testing.T, s *testServer, username, password string) {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	s.store.admins[username] = &database.AdminUser{
		ID:           s.store.id(),
		Username:     username,
		PasswordHash: hash,
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, r)
	return rec
}

func TestLoginFailureIsGeneric(t *testing.T) {
	s := newTestServer()
	seedAdmin(t, s, "admin", "hunter2")
	handler := HandleLogin(s)

	unknownUser := postJSON(t, handler, "/api/admin/login",
		`{"username":"nobody","password":"hunter2"}`)
	wrongPassword := postJSON(t, handler, "/api/admin/login",
		`{"username":"admin","password":"wrong"}`)

	if unknownUser.Code != http.StatusUnauthorized {
		t.Errorf("unknown user status = %d, want 401", unknownUser.Code)
	}
	if wrongPassword.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", wrongPassword.Code)
	}

	// Identical payloads: the response must not reveal which check failed.
	if unknownUser.Body.String() != wrongPassword.Body.String() {
		t.Errorf("login failures differ:\n%s\n%s", unknownUser.Body.String(), wrongPassword.Body.String())
	}
	if !strings.Contains(unknownUser.Body.String(), "Invalid credentials") {
		t.Errorf("unexpected failure body: %s", unknownUser.Body.String())
	}

	for _, rec := range []*httptest.ResponseRecorder{unknownUser, wrongPassword} {
		if len(rec.Result().Cookies()) != 0 {
			t.Error("failed login set a cookie")
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	s := newTestServer()
	seedAdmin(t, s, "admin", "hunter2")

	rec := postJSON(t, HandleLogin(s), "/api/admin/login",
		`{"username":"admin","password":"hunter2"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != auth.CookieName {
		t.Fatalf("expected one session cookie, got %v", cookies)
	}

	valid, err := s.sessions.Validate(cookies[0].Value)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !valid {
		t.Error("issued cookie token does not validate")
	}
}

func TestLoginMissingFields(t *testing.T) {
	s := newTestServer()
	handler := HandleLogin(s)

	for _, body := range []string{
		`{"username":"admin"}`,
		`{"password":"hunter2"}`,
		`{}`,
		`not json`,
	} {
		if rec := postJSON(t, handler, "/api/admin/login", body); rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestVerify(t *testing.T) {
	s := newTestServer()
	handler := HandleVerify(s)

	// No cookie
	r := httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	rec := httptest.NewRecorder()
	handler(rec, r)
	if !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Errorf("cookieless verify body: %s", rec.Body.String())
	}

	// Live session
	token, err := s.sessions.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	r = httptest.NewRequest(http.MethodGet, "/api/admin/verify", nil)
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec = httptest.NewRecorder()
	handler(rec, r)
	if !strings.Contains(rec.Body.String(), `"authenticated":true`) {
		t.Errorf("authenticated verify body: %s", rec.Body.String())
	}
}

func TestLogout(t *testing.T) {
	s := newTestServer()

	token, err := s.sessions.Create()
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	r.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	rec := httptest.NewRecorder()
	HandleLogout(s)(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	valid, err := s.sessions.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if valid {
		t.Error("session survives logout")
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 || cookies[0].Value != "" {
		t.Errorf("logout did not clear cookie: %v", cookies)
	}
}

func TestLogoutWithoutCookie(t *testing.T) {
	s := newTestServer()

	r := httptest.NewRequest(http.MethodPost, "/api/admin/logout", nil)
	rec := httptest.NewRecorder()
	HandleLogout(s)(rec, r)

	if rec.Code != http.StatusOK {
		body, _ := io.ReadAll(rec.Body)
		t.Errorf("cookieless logout status = %d, want 200: %s", rec.Code, body)
	}
}
