package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/api/middleware"
	"github.com/ulbi/ukm-portal/internal/api/view"
	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
	"github.com/ulbi/ukm-portal/internal/core/service"
	"github.com/ulbi/ukm-portal/internal/infrastructure/storage"
)

// stubBackend overrides the calls a test needs; any other call panics on the
// nil embedded interface.
type stubBackend struct {
	ports.Backend
	loginFn          func(ctx context.Context, email, password string) (domain.Identity, domain.Credential, error)
	registerFn       func(ctx context.Context, reg domain.Registration) error
	listActivitiesFn func(ctx context.Context, cred domain.Credential) ([]domain.Activity, error)
	getActivityFn    func(ctx context.Context, cred domain.Credential, id string) (domain.Activity, error)
	listCategoriesFn func(ctx context.Context, cred domain.Credential) ([]domain.Category, error)
	checkInFn        func(ctx context.Context, cred domain.Credential, in domain.CheckIn) error
}

func (s *stubBackend) Login(ctx context.Context, email, password string) (domain.Identity, domain.Credential, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubBackend) Register(ctx context.Context, reg domain.Registration) error {
	return s.registerFn(ctx, reg)
}

func (s *stubBackend) ListActivities(ctx context.Context, cred domain.Credential) ([]domain.Activity, error) {
	return s.listActivitiesFn(ctx, cred)
}

func (s *stubBackend) GetActivity(ctx context.Context, cred domain.Credential, id string) (domain.Activity, error) {
	return s.getActivityFn(ctx, cred, id)
}

func (s *stubBackend) ListCategories(ctx context.Context, cred domain.Credential) ([]domain.Category, error) {
	if s.listCategoriesFn == nil {
		return []domain.Category{{ID: "1", Name: "Musik"}, {ID: "2", Name: "Futsal"}}, nil
	}
	return s.listCategoriesFn(ctx, cred)
}

func (s *stubBackend) CheckIn(ctx context.Context, cred domain.Credential, in domain.CheckIn) error {
	return s.checkInFn(ctx, cred, in)
}

type fixedWorkspace struct{ ws *service.Workspace }

func (f fixedWorkspace) Get(context.Context, string) *service.Workspace { return f.ws }

func newWorkspace(t *testing.T, backend ports.Backend) *service.Workspace {
	t.Helper()
	ws := service.NewWorkspace("c1", backend, storage.NewMemory().ForClient("c1"),
		service.WorkspaceOptions{NotificationDuration: time.Minute}, zerolog.Nop())
	t.Cleanup(ws.Close)
	return ws
}

func newEcho(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	r, err := view.New()
	if err != nil {
		t.Fatalf("view.New: %v", err)
	}
	e.Renderer = r
	return e
}

// serve runs h behind the Client middleware bound to ws.
func serve(ws *service.Workspace, h echo.HandlerFunc, c echo.Context) error {
	return middleware.Client(fixedWorkspace{ws}, middleware.ClientConfig{CookieName: "ukm_client"})(h)(c)
}

// postForm builds a url-encoded form request.
func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

// signedIn returns a workspace already logged in as ident.
func signedIn(t *testing.T, backend *stubBackend, ident domain.Identity) *service.Workspace {
	t.Helper()
	backend.loginFn = func(context.Context, string, string) (domain.Identity, domain.Credential, error) {
		return ident, "opaque", nil
	}
	ws := newWorkspace(t, backend)
	if _, err := ws.SignIn(context.Background(), ident.Email, "secret123"); err != nil {
		t.Fatalf("sign in: %v", err)
	}
	return ws
}

func hasNotification(ws *service.Workspace, text string) bool {
	for _, n := range ws.Notifications.List() {
		if n.Text == text {
			return true
		}
	}
	return false
}

var (
	admin  = domain.Identity{ID: "a1", Name: "Admin", Email: "admin@ulbi.ac.id", Role: domain.RoleAdmin, UKM: "Musik", IsActive: true}
	member = domain.Identity{ID: "m1", Name: "Rina", Email: "rina@ulbi.ac.id", Role: domain.RoleMember, UKM: "Musik", IsActive: true}
)
