// Package apierror defines the errors the API surfaces to clients. Every
// value maps to an HTTP status and a JSON body of the form
// {"detail": "<message>"}.
package apierror

import "net/http"

type Error struct {
	Status int
	Detail string

	// Authenticate marks 401 responses that must carry a
	// WWW-Authenticate: Bearer realm="..." header.
	Authenticate bool
}

func (e *Error) Error() string {
	return e.Detail
}

var (
	ErrInvalidEmailOrPassword = &Error{Status: http.StatusUnauthorized, Detail: "Incorrect email or password", Authenticate: true}
	ErrTokenExpired           = &Error{Status: http.StatusUnauthorized, Detail: "Token expired", Authenticate: true}
	ErrInvalidCredentials     = &Error{Status: http.StatusUnauthorized, Detail: "Error validating credentials", Authenticate: true}

	ErrPrivileges   = &Error{Status: http.StatusForbidden, Detail: "Not enough privileges"}
	ErrDisabledUser = &Error{Status: http.StatusForbidden, Detail: "Account disabled"}

	ErrNotFound = &Error{Status: http.StatusNotFound, Detail: "Not Found"}

	ErrEmailExists    = &Error{Status: http.StatusBadRequest, Detail: "Email already exists"}
	ErrRoleInvalid    = &Error{Status: http.StatusBadRequest, Detail: "Role Not Found"}
	ErrPageBadRequest = &Error{Status: http.StatusBadRequest, Detail: "Page outside of interval"}
)

// Validation wraps a request validation failure. These fire before any
// business logic runs.
func Validation(detail string) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Detail: detail}
}
