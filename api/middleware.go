package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/iganosaigo/saigo.info-backend/apierror"
	"github.com/iganosaigo/saigo.info-backend/constants"
	"github.com/iganosaigo/saigo.info-backend/database"
	"github.com/iganosaigo/saigo.info-backend/security"
)

type contextKey string

const currentUserKey = contextKey("current_user")

func currentUser(r *http.Request) *database.User {
	user, _ := r.Context().Value(currentUserKey).(*database.User)
	return user
}

// withUser resolves the bearer token to a fresh account record and attaches
// it to the request context. Tokens for accounts that no longer exist are
// rejected the same way as invalid ones.
func (s *Server) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.writeError(w, apierror.ErrInvalidCredentials)
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		claims, err := s.tokens.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, security.ErrTokenExpired) {
				s.writeError(w, apierror.ErrTokenExpired)
			} else {
				s.writeError(w, apierror.ErrInvalidCredentials)
			}
			return
		}

		user, err := s.store.GetUser(database.ByEmail(claims.Subject))
		if err != nil {
			s.writeError(w, err)
			return
		}
		if user == nil {
			s.writeError(w, apierror.ErrInvalidCredentials)
			return
		}

		ctx := context.WithValue(r.Context(), currentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// guard applies the two independent authorization checks on an
// already-resolved identity: role and disabled status.
func (s *Server) guard(requireAdmin, checkDisabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := currentUser(r)
			if user == nil {
				s.writeError(w, apierror.ErrInvalidCredentials)
				return
			}
			if requireAdmin && user.RoleName != constants.ADMIN_ROLE_NAME {
				s.writeError(w, apierror.ErrPrivileges)
				return
			}
			if checkDisabled && user.Disabled {
				s.writeError(w, apierror.ErrDisabledUser)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
