package api

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/pkg/errors"

	"github.com/iganosaigo/saigo.info-backend/apierror"
	"github.com/iganosaigo/saigo.info-backend/schema"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// writeError renders an apierror as its status plus {"detail": ...}; 401s
// additionally advertise the bearer realm. Anything else is a plain 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		if apiErr.Authenticate {
			w.Header().Set(
				"WWW-Authenticate",
				fmt.Sprintf("Bearer realm=%q", s.cfg.Realm),
			)
		}
		writeJSON(w, apiErr.Status, errorBody{Detail: apiErr.Detail})
		return
	}

	log.Printf("Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{Detail: "Internal Server Error"})
}

// decodeBody parses and validates a JSON request body. Failures surface as
// 422 before any business logic runs.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apierror.Validation("invalid request body")
	}
	if err := schema.Validate(v); err != nil {
		return apierror.Validation(err.Error())
	}
	return nil
}
