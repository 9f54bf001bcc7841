package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/khoaluu/wedding-rsvp/internal/auth"
	"github.com/rs/zerolog/log"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin authenticates the administrator and issues a session cookie.
// Unknown usernames and wrong passwords produce the exact same response,
// so the endpoint cannot be used to enumerate accounts.
func HandleLogin(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if req.Username == "" || req.Password == "" {
			WriteError(w, http.StatusBadRequest, "Username and password are required")
			return
		}

		admin, err := s.GetStore().GetAdminByUsername(req.Username)
		if err != nil {
			log.Error().Err(err).Msg("login: failed to look up admin user")
			WriteError(w, http.StatusInternalServerError, "Login failed")
			return
		}

		if admin == nil || !auth.VerifyPassword(req.Password, admin.PasswordHash) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}

		token, err := s.GetSessions().Create()
		if err != nil {
			log.Error().Err(err).Msg("login: failed to create session")
			WriteError(w, http.StatusInternalServerError, "Login failed")
			return
		}

		s.GetSessions().SetCookie(w, token)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Login successful",
		})
	}
}

// HandleLogout deletes the session server-side and clears the cookie. A
// missing or unknown cookie still succeeds.
func HandleLogout(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := s.GetSessions()

		if token := sessions.TokenFromRequest(r); token != "" {
			if err := sessions.Delete(token); err != nil {
				log.Error().Err(err).Msg("logout: failed to delete session")
				WriteError(w, http.StatusInternalServerError, "Logout failed")
				return
			}
		}

		sessions.ClearCookie(w)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Logout successful",
		})
	}
}

// HandleVerify reports whether the inbound cookie names a live session.
func HandleVerify(s Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions := s.GetSessions()

		valid, err := sessions.Validate(sessions.TokenFromRequest(r))
		if err != nil {
			log.Error().Err(err).Msg("verify: failed to validate session")
			WriteError(w, http.StatusInternalServerError, "Verification failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":       true,
			"authenticated": valid,
		})
	}
}
