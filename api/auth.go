package api

import (
	"net/http"

	"github.com/iganosaigo/saigo.info-backend/apierror"
	"github.com/iganosaigo/saigo.info-backend/database"
	"github.com/iganosaigo/saigo.info-backend/schema"
	"github.com/iganosaigo/saigo.info-backend/security"
)

// handleLogin takes form-encoded username (the email) and password,
// returning a bearer token. Disabled accounts cannot log in even with the
// right password.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.writeError(w, apierror.Validation("invalid form body"))
		return
	}

	email := schema.NormalizeEmail(r.FormValue("username"))
	password := r.FormValue("password")

	user, err := s.store.GetUser(database.ByEmail(email))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if user == nil || !security.VerifyPassword(password, user.HashedPassword) {
		s.writeError(w, apierror.ErrInvalidEmailOrPassword)
		return
	}
	if user.Disabled {
		s.writeError(w, apierror.ErrDisabledUser)
		return
	}

	token, err := s.tokens.Issue(user.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, schema.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
