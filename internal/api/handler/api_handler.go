package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/service"
)

// APIHandler exposes the client core as JSON for scripted clients. It drives
// the same workspace as the HTML shell.
type APIHandler struct{}

func NewAPIHandler() *APIHandler {
	return &APIHandler{}
}

type sessionResponse struct {
	State         string           `json:"state"`
	Authenticated bool             `json:"authenticated"`
	Loading       bool             `json:"loading"`
	Mode          string           `json:"mode,omitempty"`
	View          string           `json:"view,omitempty"`
	Surface       string           `json:"surface"`
	User          *domain.Identity `json:"user,omitempty"`
}

type notificationResponse struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	DurationMs int64     `json:"durationMs"`
	CreatedAt  time.Time `json:"createdAt"`
}

type viewResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	AdminOnly   bool   `json:"adminOnly"`
	Active      bool   `json:"active"`
}

type viewsResponse struct {
	Active  string         `json:"active"`
	Surface string         `json:"surface"`
	Items   []viewResponse `json:"items"`
}

func newSessionResponse(ws *service.Workspace) sessionResponse {
	res := ws.Router.Current()
	out := sessionResponse{
		State:   string(res.State),
		Loading: ws.Session.IsLoading(),
		Surface: string(res.Surface),
	}
	if ident, ok := ws.Session.Identity(); ok {
		out.Authenticated = true
		out.User = &ident
		out.View = string(res.View.ID)
	} else {
		out.Mode = string(res.Mode)
	}
	return out
}

func newViewsResponse(ws *service.Workspace, res service.Resolution) viewsResponse {
	out := viewsResponse{Active: string(res.View.ID), Surface: string(res.Surface), Items: []viewResponse{}}
	for _, item := range ws.Router.Navigation() {
		out.Items = append(out.Items, viewResponse{
			ID:          string(item.View.ID),
			Label:       item.View.Label,
			Description: item.View.Description,
			AdminOnly:   item.View.AdminOnly(),
			Active:      item.Active,
		})
	}
	return out
}

// GetSession returns the current session.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /api/session [get]
func (h *APIHandler) GetSession(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(ws))
}

// Login signs the client in.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/session [post]
func (h *APIHandler) Login(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if _, err := ws.SignIn(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newSessionResponse(ws))
}

// Logout ends the session.
//
// @Summary      Logout
// @Tags         session
// @Success      204
// @Failure      500  {object}  errorResponse
// @Router       /api/session [delete]
func (h *APIHandler) Logout(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := ws.SignOut(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Register creates a member account.
//
// @Summary      Register
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /api/register [post]
func (h *APIHandler) Register(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := ws.SignUp(c.Request().Context(), req.registration()); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]string{"status": "registered"})
}

// Notifications lists the queued notifications, oldest first.
//
// @Summary      Queued notifications
// @Tags         notifications
// @Produce      json
// @Success      200  {array}  notificationResponse
// @Router       /api/notifications [get]
func (h *APIHandler) Notifications(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	list := ws.Notifications.List()
	out := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, notificationResponse{
			ID:         n.ID,
			Type:       string(n.Severity),
			Message:    n.Text,
			DurationMs: n.DurationMillis(),
			CreatedAt:  n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// DismissNotification removes one notification.
//
// @Summary      Dismiss notification
// @Tags         notifications
// @Param        id   path  string  true  "Notification id"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /api/notifications/{id} [delete]
func (h *APIHandler) DismissNotification(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if !ws.Notifications.Dismiss(c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// Views lists the views the signed-in identity may open.
//
// @Summary      Navigation
// @Tags         views
// @Produce      json
// @Success      200  {object}  viewsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/views [get]
func (h *APIHandler) Views(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newViewsResponse(ws, ws.Router.Current()))
}

// SelectView makes a view active. A view the identity may not open is still
// selected and reported with surface "denied".
//
// @Summary      Select view
// @Tags         views
// @Produce      json
// @Param        id   path      string  true  "View id"
// @Success      200  {object}  viewsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/views/{id} [put]
func (h *APIHandler) SelectView(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newViewsResponse(ws, ws.Router.Select(domain.ViewID(c.Param("id")))))
}
