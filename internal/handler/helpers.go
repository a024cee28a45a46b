package handler

import (
	"errors"
	"net/http"

	"cadence/internal/domain"
	"cadence/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var conflictErr *domain.ConflictError

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondErrorWithExtras(w, http.StatusConflict, conflictErr.Error(), conflictExtras(conflictErr))
	case errors.Is(err, domain.ErrConflict):
		// repository-level uniqueness/FK races surface as the bare sentinel
		httputil.RespondError(w, http.StatusConflict, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// conflictExtras builds the machine-readable members of a 409 body so
// clients can tell a uniqueness clash from a blocked delete.
func conflictExtras(err *domain.ConflictError) map[string]interface{} {
	extras := map[string]interface{}{}
	if err.ResourceType != "" {
		extras["resource_type"] = err.ResourceType
	}
	if err.ResourceID != "" {
		extras["resource_id"] = err.ResourceID
	}
	if err.Field != "" {
		extras["field"] = err.Field
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}

// HandleCreateConflict handles conflicts during creation by returning the existing resource with 409
// If the error is a ConflictError, it calls fetchFn to retrieve the existing resource
func HandleCreateConflict[T any](w http.ResponseWriter, err error, fetchFn func() (*T, error)) {
	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		existing, fetchErr := fetchFn()
		if fetchErr != nil {
			handleError(w, fetchErr)
			return
		}

		httputil.RespondJSON(w, http.StatusConflict, existing)
		return
	}

	handleError(w, err)
}

// requireID extracts a non-empty path value, responding 400 when absent
func requireID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id := r.PathValue(name)
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return id, true
}
