package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/ulbi/ukm-portal/internal/api/middleware"
	"github.com/ulbi/ukm-portal/internal/api/view"
	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/service"
)

const msgInvalidForm = "Data formulir tidak valid"

// ctxWorkspace extracts the workspace injected by the Client middleware.
// Without it the request cannot be served at all.
func ctxWorkspace(c echo.Context) (*service.Workspace, error) {
	ws, ok := middleware.WorkspaceFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "client workspace missing")
	}
	return ws, nil
}

func csrfToken(c echo.Context) string {
	tok, _ := c.Get(echomiddleware.DefaultCSRFConfig.ContextKey).(string)
	return tok
}

// newPage assembles the layout data. Call it after the screen has loaded so
// notifications raised while loading are included.
func newPage(c echo.Context, ws *service.Workspace, title string, data any) view.Page {
	ident, signedIn := ws.Session.Identity()
	return view.Page{
		Title:         title,
		CSRF:          csrfToken(c),
		Identity:      ident,
		SignedIn:      signedIn,
		Nav:           ws.Router.Navigation(),
		Notifications: ws.Notifications.List(),
		Data:          data,
	}
}

// seeOther finishes a form post with a redirect.
func seeOther(c echo.Context, to string) error {
	return c.Redirect(http.StatusSeeOther, to)
}

// bindForm binds and validates req. Failures are posted as an error
// notification and returned.
func bindForm(c echo.Context, ws *service.Workspace, req any) error {
	if err := c.Bind(req); err != nil {
		ws.Notifications.Error(msgInvalidForm)
		return err
	}
	if err := c.Validate(req); err != nil {
		ws.Notifications.Error(domain.UserMessage(err, msgInvalidForm))
		return err
	}
	return nil
}

// isAuthError reports errors the error handler must turn into a redirect or
// a denial page rather than a notification.
func isAuthError(err error) bool {
	return errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrForbidden)
}
