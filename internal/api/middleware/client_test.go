package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/service"
	"github.com/ulbi/ukm-portal/internal/infrastructure/storage"
)

type workspaceMap map[string]*service.Workspace

func (m workspaceMap) Get(_ context.Context, id string) *service.Workspace {
	ws, ok := m[id]
	if !ok {
		ws = service.NewWorkspace(id, nil, storage.NewMemory().ForClient(id), service.WorkspaceOptions{NotificationDuration: time.Second}, zerolog.Nop())
		m[id] = ws
	}
	return ws
}

func TestClient_IssuesCookieForNewBrowser(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	workspaces := workspaceMap{}

	handler := Client(workspaces, ClientConfig{CookieName: "ukm_client", Secure: true})(func(c echo.Context) error {
		ws, ok := WorkspaceFrom(c)
		if !ok {
			t.Fatal("workspace not injected")
		}
		if ws.ID != ClientID(c) {
			t.Fatalf("workspace %q does not match client %q", ws.ID, ClientID(c))
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != "ukm_client" {
		t.Fatalf("expected client cookie, got %+v", cookies)
	}
	if _, err := uuid.Parse(cookies[0].Value); err != nil {
		t.Fatalf("cookie is not a uuid: %q", cookies[0].Value)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Fatalf("cookie flags not set: %+v", cookies[0])
	}
	if len(workspaces) != 1 {
		t.Fatalf("expected 1 workspace, got %d", len(workspaces))
	}
}

func TestClient_ReusesExistingCookie(t *testing.T) {
	id := uuid.NewString()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "ukm_client", Value: id})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Client(workspaceMap{}, ClientConfig{CookieName: "ukm_client"})(func(c echo.Context) error {
		if ClientID(c) != id {
			t.Fatalf("expected client %q, got %q", id, ClientID(c))
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("existing client must not be issued a new cookie")
	}
}

func TestClient_ReplacesMalformedCookie(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "ukm_client", Value: "../../etc"})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Client(workspaceMap{}, ClientConfig{CookieName: "ukm_client"})(func(c echo.Context) error {
		if ClientID(c) == "../../etc" {
			t.Fatal("malformed id accepted")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(rec.Result().Cookies()) != 1 {
		t.Fatal("expected a fresh cookie")
	}
}
