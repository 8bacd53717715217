package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iganosaigo/saigo.info-backend/apierror"
	"github.com/iganosaigo/saigo.info-backend/database"
	"github.com/iganosaigo/saigo.info-backend/schema"
	"github.com/iganosaigo/saigo.info-backend/security"
)

// parseUserRef resolves the {userRef} path segment into the id/email
// variant: all-digits means numeric id, anything else is treated as an
// email.
func parseUserRef(raw string) database.UserRef {
	if id, err := strconv.ParseUint(raw, 10, 64); err == nil {
		return database.ByID(uint(id))
	}
	return database.ByEmail(schema.NormalizeEmail(raw))
}

func (s *Server) targetUser(r *http.Request) (*database.User, error) {
	ref := parseUserRef(chi.URLParam(r, "userRef"))
	user, err := s.store.GetUser(ref)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apierror.ErrNotFound
	}
	return user, nil
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers()
	if err != nil {
		s.writeError(w, err)
		return
	}

	responses := make([]schema.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userResponse(user))
	}
	writeJSON(w, http.StatusOK, responses)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var body schema.CreateUserRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	email := schema.NormalizeEmail(body.Email)

	exists, err := s.store.EmailExists(email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if exists {
		s.writeError(w, apierror.ErrEmailExists)
		return
	}

	roleID, err := s.store.RoleIDByName(body.RoleName)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if roleID == 0 {
		s.writeError(w, apierror.ErrRoleInvalid)
		return
	}

	user, err := s.store.CreateUser(database.CreateUserParams{
		Email:    email,
		FullName: body.FullName,
		Disabled: body.Disabled,
		RoleID:   roleID,
		Password: body.Password,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(*user))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userResponse(*currentUser(r)))
}

func (s *Server) handleChangeMyPassword(w http.ResponseWriter, r *http.Request) {
	var body schema.ChangeMyPasswordRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	user := currentUser(r)
	if !security.VerifyPassword(body.OldPassword, user.HashedPassword) {
		s.writeError(w, apierror.ErrInvalidCredentials)
		return
	}

	hash, err := security.HashPassword(body.NewPassword)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.ChangePassword(user.ID, hash); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.targetUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userResponse(*user))
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.targetUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body schema.UpdateUserRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}
	email := schema.NormalizeEmail(body.Email)

	if email != user.Email {
		exists, err := s.store.EmailExists(email)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if exists {
			s.writeError(w, apierror.ErrEmailExists)
			return
		}
	}

	roleID := user.RoleID
	if body.RoleName != user.RoleName {
		roleID, err = s.store.RoleIDByName(body.RoleName)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if roleID == 0 {
			s.writeError(w, apierror.ErrRoleInvalid)
			return
		}
	}

	updated, err := s.store.UpdateUser(user.ID, database.UpdateUserParams{
		Email:    email,
		FullName: body.FullName,
		Disabled: body.Disabled,
		RoleID:   roleID,
		Password: body.Password,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, userResponse(*updated))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.targetUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.DeleteUser(user.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDisableUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.targetUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body schema.DisableUserRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.SetDisabled(user.ID, *body.Disabled); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleChangeUserPassword(w http.ResponseWriter, r *http.Request) {
	user, err := s.targetUser(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var body schema.ChangePasswordRequest
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, err)
		return
	}

	// Admin-forced reset, no old-password check.
	hash, err := security.HashPassword(body.NewPassword)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.ChangePassword(user.ID, hash); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func userResponse(user database.User) schema.UserResponse {
	return schema.UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Disabled: user.Disabled,
		RoleName: user.RoleName,
	}
}
