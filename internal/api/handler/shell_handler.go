package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/service"
)

// ShellHandler renders the application shell: the auth surface while signed
// out, otherwise the active view inside the navigation layout.
type ShellHandler struct{}

func NewShellHandler() *ShellHandler {
	return &ShellHandler{}
}

type authData struct {
	Mode service.AuthMode
	UKMs []string
}

type activitiesData struct {
	Items      []domain.Activity
	Filter     domain.ActivityFilter
	UKMs       []string
	Categories []string
	CanManage  bool
	UserID     string
}

type activityData struct {
	Activity   domain.Activity
	Categories []string
	CanManage  bool
	UserID     string
}

type membersData struct {
	Items  []domain.Member
	Counts domain.MemberCounts
	Filter domain.MemberFilter
	UKMs   []string
}

// Index handles GET /.
func (h *ShellHandler) Index(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return h.render(c, ws, ws.Router.Current())
}

// Select handles GET /view/:id.
func (h *ShellHandler) Select(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	return h.render(c, ws, ws.Router.Select(domain.ViewID(c.Param("id"))))
}

// Mode handles GET /auth/:mode, switching between the login and register forms.
func (h *ShellHandler) Mode(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	ws.Router.SetMode(service.AuthMode(c.Param("mode")))
	return seeOther(c, "/")
}

// Dismiss handles POST /notifications/:id/dismiss.
func (h *ShellHandler) Dismiss(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	ws.Notifications.Dismiss(c.Param("id"))
	return seeOther(c, "/")
}

func (h *ShellHandler) render(c echo.Context, ws *service.Workspace, res service.Resolution) error {
	ctx := c.Request().Context()

	switch res.Surface {
	case service.SurfaceAuth:
		data := authData{Mode: res.Mode}
		if res.Mode == service.AuthRegister {
			data.UKMs = ws.RegisterOptions(ctx)
		}
		title := "Masuk"
		if res.Mode == service.AuthRegister {
			title = "Daftar"
		}
		return c.Render(http.StatusOK, "auth", newPage(c, ws, title, data))

	case service.SurfaceDenied:
		return c.Render(http.StatusForbidden, "denied", newPage(c, ws, "Akses Ditolak", res.View))
	}

	data, err := h.load(ctx, c, ws, res.View.ID)
	if err != nil && isAuthError(err) {
		return err
	}
	return c.Render(http.StatusOK, string(res.View.ID), newPage(c, ws, res.View.Label, data))
}

// load fetches the data of one view. Screens announce their own failures, so
// on error the page still renders with whatever the screen holds.
func (h *ShellHandler) load(ctx context.Context, c echo.Context, ws *service.Workspace, id domain.ViewID) (any, error) {
	ident, _ := ws.Session.Identity()

	switch id {
	case domain.ViewActivities:
		filter := domain.ActivityFilter{
			Search: c.QueryParam("q"),
			Status: domain.ActivityStatus(c.QueryParam("status")),
			UKM:    c.QueryParam("ukm"),
		}
		items, err := ws.Activities.Load(ctx, filter)
		data := activitiesData{
			Items:     items,
			Filter:    filter,
			UKMs:      ws.Activities.UKMs(),
			CanManage: ident.Role.Allows(domain.PermManageActivities),
			UserID:    ident.ID,
		}
		if data.CanManage {
			data.Categories = categoryNames(ctx, ws)
		}
		return data, err

	case domain.ViewAttendance:
		return ws.Attendance.Load(ctx)

	case domain.ViewCategories:
		return ws.Categories.Load(ctx)

	case domain.ViewMembers:
		filter := domain.MemberFilter{
			Search: c.QueryParam("q"),
			Role:   domain.Role(c.QueryParam("role")),
			UKM:    c.QueryParam("ukm"),
		}
		mv, err := ws.Members.Load(ctx, filter)
		return membersData{
			Items:  mv.Items,
			Counts: mv.Counts,
			Filter: filter,
			UKMs:   categoryNames(ctx, ws),
		}, err

	case domain.ViewStatistics:
		return ws.Statistics.Load(ctx, c.QueryParam("ukm"))
	}

	return ws.Dashboard.Load(ctx)
}

// categoryNames lists the UKM names for admin form selects.
func categoryNames(ctx context.Context, ws *service.Workspace) []string {
	cats, err := ws.Categories.Load(ctx)
	if err != nil {
		return nil
	}
	return domain.CategoryNames(cats)
}
