package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// AuthHandler serves the login, register and logout forms. Outcomes are
// reported through the workspace's notifications, then the browser is sent
// back to the shell.
type AuthHandler struct {
	log zerolog.Logger
}

func NewAuthHandler(log zerolog.Logger) *AuthHandler {
	return &AuthHandler{log: log.With().Str("component", "auth_handler").Logger()}
}

// Login handles POST /login.
func (h *AuthHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := bindForm(c, ws, &req); err != nil {
		return seeOther(c, "/")
	}
	if _, err := ws.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		h.log.Debug().Err(err).Str("client_id", ws.ID).Msg("sign in rejected")
	}
	return seeOther(c, "/")
}

// Register handles POST /register.
func (h *AuthHandler) Register(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := bindForm(c, ws, &req); err != nil {
		return seeOther(c, "/")
	}
	if err := ws.SignUp(c.Request().Context(), req.registration()); err != nil {
		h.log.Debug().Err(err).Str("client_id", ws.ID).Msg("sign up rejected")
	}
	return seeOther(c, "/")
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.SignOut(c.Request().Context()); err != nil {
		h.log.Warn().Err(err).Str("client_id", ws.ID).Msg("sign out incomplete")
	}
	return seeOther(c, "/")
}
