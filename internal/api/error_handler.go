package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/api/view"
	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": "<message>"} under /api and an HTML page elsewhere.
//   - Sends signed-out browsers back to the shell instead of an error page.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		if wantsJSON(c) {
			resp := errorResponse{Error: msg}
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				resp.Fields = ve.Fields
			}
			_ = c.JSON(code, resp)
			return
		}

		if errors.Is(err, domain.ErrUnauthenticated) {
			_ = c.Redirect(http.StatusSeeOther, "/")
			return
		}
		page := view.Page{Title: http.StatusText(code), Data: view.ErrorData{Status: code, Message: msg}}
		if rerr := c.Render(code, "error", page); rerr != nil {
			_ = c.String(code, msg)
		}
	}
}

func wantsJSON(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/api" || strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, CSRF, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusUnprocessableEntity, domain.UserMessage(err, "validation failed")
	case errors.Is(err, domain.ErrPasswordRequired):
		return http.StatusBadRequest, domain.ErrPasswordRequired.Error()
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Email atau password salah"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Silakan login terlebih dahulu"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Anda tidak memiliki akses ke halaman ini"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, domain.UserMessage(err, "Data tidak ditemukan")
	case errors.Is(err, domain.ErrBusy):
		return http.StatusConflict, "Permintaan sebelumnya masih diproses"
	case errors.Is(err, domain.ErrAlreadyCheckedIn), errors.Is(err, domain.ErrActivityFull):
		return http.StatusConflict, domain.UserMessage(err, "")
	case errors.Is(err, domain.ErrBackendUnavailable):
		return http.StatusBadGateway, "Terjadi kesalahan jaringan"
	}

	// The backend explained a rejection we have no sentinel for.
	if msg := domain.UserMessage(err, ""); msg != "" {
		return http.StatusBadRequest, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
