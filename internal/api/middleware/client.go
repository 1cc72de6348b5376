package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ulbi/ukm-portal/internal/core/service"
)

const (
	workspaceKey = "workspace"
	clientIDKey  = "client_id"

	clientCookieMaxAge = 365 * 24 * time.Hour
)

// WorkspaceSource hands out the workspace owned by a client id.
type WorkspaceSource interface {
	Get(ctx context.Context, clientID string) *service.Workspace
}

// ClientConfig configures the Client middleware.
type ClientConfig struct {
	CookieName string
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

// Client identifies the browser by a random id kept in a cookie and injects
// its workspace into the context. A missing or malformed cookie starts a new
// client.
func Client(workspaces WorkspaceSource, cfg ClientConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cfg.CookieName,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientCookieMaxAge / time.Second),
					HttpOnly: true,
					Secure:   cfg.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ws := workspaces.Get(c.Request().Context(), id)
			c.Set(workspaceKey, ws)
			c.Set(clientIDKey, id)
			return next(c)
		}
	}
}

// WorkspaceFrom returns the workspace injected by Client.
func WorkspaceFrom(c echo.Context) (*service.Workspace, bool) {
	ws, ok := c.Get(workspaceKey).(*service.Workspace)
	return ws, ok && ws != nil
}

// ClientID returns the id injected by Client.
func ClientID(c echo.Context) string {
	id, _ := c.Get(clientIDKey).(string)
	return id
}
