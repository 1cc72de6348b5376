package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/service"
)

// ScreenHandler serves the per-screen forms: activity detail and CRUD,
// check-in, categories and members. Permissions are enforced by the RBAC
// middleware on the route and again by each screen.
type ScreenHandler struct{}

func NewScreenHandler() *ScreenHandler {
	return &ScreenHandler{}
}

// act runs fn against the workspace and redirects to to. Screen failures are
// already announced as notifications; only authorization errors propagate.
func (h *ScreenHandler) act(c echo.Context, to string, fn func(ctx context.Context, ws *service.Workspace) error) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	if err := fn(c.Request().Context(), ws); err != nil && isAuthError(err) {
		return err
	}
	return seeOther(c, to)
}

// ActivityDetail handles GET /activities/:id.
func (h *ScreenHandler) ActivityDetail(c echo.Context) error {
	ws, err := ctxWorkspace(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	a, err := ws.Activities.Get(ctx, c.Param("id"))
	if err != nil {
		if isAuthError(err) {
			return err
		}
		return seeOther(c, "/view/activities")
	}

	ident, _ := ws.Session.Identity()
	data := activityData{
		Activity:  a,
		CanManage: ident.Role.Allows(domain.PermManageActivities),
		UserID:    ident.ID,
	}
	if data.CanManage {
		data.Categories = categoryNames(ctx, ws)
	}
	return c.Render(http.StatusOK, "activity", newPage(c, ws, a.Title, data))
}

// CreateActivity handles POST /activities.
func (h *ScreenHandler) CreateActivity(c echo.Context) error {
	return h.act(c, "/view/activities", func(ctx context.Context, ws *service.Workspace) error {
		var req activityRequest
		if err := bindForm(c, ws, &req); err != nil {
			return err
		}
		return ws.Activities.Create(ctx, req.input())
	})
}

// UpdateActivity handles POST /activities/:id.
func (h *ScreenHandler) UpdateActivity(c echo.Context) error {
	id := c.Param("id")
	return h.act(c, "/activities/"+id, func(ctx context.Context, ws *service.Workspace) error {
		var req activityRequest
		if err := bindForm(c, ws, &req); err != nil {
			return err
		}
		return ws.Activities.Update(ctx, id, req.input())
	})
}

// DeleteActivity handles POST /activities/:id/delete.
func (h *ScreenHandler) DeleteActivity(c echo.Context) error {
	return h.act(c, "/view/activities", func(ctx context.Context, ws *service.Workspace) error {
		return ws.Activities.Delete(ctx, c.Param("id"))
	})
}

// CheckIn handles POST /activities/:id/checkin.
func (h *ScreenHandler) CheckIn(c echo.Context) error {
	return h.act(c, "/view/activities", func(ctx context.Context, ws *service.Workspace) error {
		return ws.Activities.CheckIn(ctx, c.Param("id"))
	})
}

// CreateCategory handles POST /kategori.
func (h *ScreenHandler) CreateCategory(c echo.Context) error {
	return h.act(c, "/view/kategori", func(ctx context.Context, ws *service.Workspace) error {
		var req categoryRequest
		if err := bindForm(c, ws, &req); err != nil {
			return err
		}
		return ws.Categories.Create(ctx, req.Name)
	})
}

// RenameCategory handles POST /kategori/:id.
func (h *ScreenHandler) RenameCategory(c echo.Context) error {
	return h.act(c, "/view/kategori", func(ctx context.Context, ws *service.Workspace) error {
		var req categoryRequest
		if err := bindForm(c, ws, &req); err != nil {
			return err
		}
		return ws.Categories.Rename(ctx, c.Param("id"), req.Name)
	})
}

// DeleteCategory handles POST /kategori/:id/delete.
func (h *ScreenHandler) DeleteCategory(c echo.Context) error {
	return h.act(c, "/view/kategori", func(ctx context.Context, ws *service.Workspace) error {
		return ws.Categories.Delete(ctx, c.Param("id"))
	})
}

// CreateMember handles POST /members.
func (h *ScreenHandler) CreateMember(c echo.Context) error {
	return h.act(c, "/view/members", func(ctx context.Context, ws *service.Workspace) error {
		var req memberRequest
		if err := bindForm(c, ws, &req); err != nil {
			return err
		}
		return ws.Members.Create(ctx, req.input())
	})
}

// UpdateMember handles POST /members/:id.
func (h *ScreenHandler) UpdateMember(c echo.Context) error {
	return h.act(c, "/view/members", func(ctx context.Context, ws *service.Workspace) error {
		var req memberRequest
		if err := bindForm(c, ws, &req); err != nil {
			return err
		}
		return ws.Members.Update(ctx, c.Param("id"), req.input())
	})
}

// DeleteMember handles POST /members/:id/delete.
func (h *ScreenHandler) DeleteMember(c echo.Context) error {
	return h.act(c, "/view/members", func(ctx context.Context, ws *service.Workspace) error {
		return ws.Members.Delete(ctx, c.Param("id"))
	})
}
