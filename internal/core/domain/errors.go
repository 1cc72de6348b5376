package domain

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("email atau password salah")
	ErrPasswordRequired   = errors.New("Password tidak boleh kosong")
	ErrValidation         = errors.New("validation failed")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrBusy               = errors.New("another request is in flight")
	ErrAlreadyCheckedIn   = errors.New("Anda sudah terdaftar pada kegiatan ini")
	ErrActivityFull       = errors.New("Kuota peserta sudah penuh")
)

// ValidationError carries per-field messages from a form check.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return e.Fields[keys[0]]
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// UserMessager is implemented by errors that carry text fit for display.
type UserMessager interface {
	UserMessage() string
}

// UserMessage returns the text to show for err: the message carried by the
// error itself when it has one, fallback otherwise.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var um UserMessager
	if errors.As(err, &um) {
		if m := strings.TrimSpace(um.UserMessage()); m != "" {
			return m
		}
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	for _, local := range displayable {
		if errors.Is(err, local) {
			return local.Error()
		}
	}
	return fallback
}

// displayable sentinels are raised before any network call and carry
// Indonesian text meant for the user.
var displayable = []error{ErrPasswordRequired, ErrAlreadyCheckedIn, ErrActivityFull}
