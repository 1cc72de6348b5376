package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
	Method  string
	Path    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Status)
}

// UserMessage is the backend's own explanation, if it gave one.
func (e *APIError) UserMessage() string { return e.Message }

// Unwrap maps the status to the matching domain sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case e.Status == http.StatusForbidden:
		return domain.ErrForbidden
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return domain.ErrValidation
	case e.Status >= http.StatusInternalServerError:
		return domain.ErrBackendUnavailable
	}
	return nil
}

// errorMessage extracts {"error": ...} or {"message": ...} from a body.
func errorMessage(raw []byte) string {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if len(body.Error) > 0 {
		var s string
		if err := json.Unmarshal(body.Error, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(body.Message)
}
