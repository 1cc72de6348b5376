package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ulbi/ukm-portal/internal/api/handler"
	"github.com/ulbi/ukm-portal/internal/api/middleware"
	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
	"github.com/ulbi/ukm-portal/internal/infrastructure/http/handlers"
)

// Deps carries everything the router wires.
type Deps struct {
	Workspaces middleware.WorkspaceSource
	Storage    ports.StorageProvider
	Backend    ports.Backend
	Renderer   echo.Renderer

	CookieName string
	// Secure marks the client and CSRF cookies HTTPS-only.
	Secure bool

	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	if d.Registerer == nil {
		d.Registerer = prometheus.DefaultRegisterer
	}
	if d.Gatherer == nil {
		d.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.Renderer = d.Renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ukm",
		Registerer: d.Registerer,
	}))

	// --- Health probes, metrics and docs (no client workspace) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(map[string]handlers.Pinger{
		"storage": d.Storage,
		"backend": d.Backend,
	})

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Client surface ---
	web := []echo.MiddlewareFunc{
		echomiddleware.CSRFWithConfig(echomiddleware.CSRFConfig{
			Skipper:        skipCSRF,
			TokenLookup:    "form:_csrf,header:" + echo.HeaderXCSRFToken,
			CookieName:     "_csrf",
			CookiePath:     "/",
			CookieHTTPOnly: true,
			CookieSecure:   d.Secure,
			CookieSameSite: http.SameSiteLaxMode,
		}),
		middleware.Client(d.Workspaces, middleware.ClientConfig{CookieName: d.CookieName, Secure: d.Secure}),
	}
	with := func(perm domain.Permission) []echo.MiddlewareFunc {
		return append(append([]echo.MiddlewareFunc{}, web...), middleware.RBAC(perm))
	}

	shellHandler := handler.NewShellHandler()
	authHandler := handler.NewAuthHandler(d.Log)
	screenHandler := handler.NewScreenHandler()
	apiHandler := handler.NewAPIHandler()

	e.GET("/", shellHandler.Index, web...)
	e.GET("/view/:id", shellHandler.Select, web...)
	e.GET("/auth/:mode", shellHandler.Mode, web...)
	e.POST("/notifications/:id/dismiss", shellHandler.Dismiss, web...)

	e.POST("/login", authHandler.Login, web...)
	e.POST("/register", authHandler.Register, web...)
	e.POST("/logout", authHandler.Logout, web...)

	e.GET("/activities/:id", screenHandler.ActivityDetail, with(domain.PermBrowse)...)
	e.POST("/activities", screenHandler.CreateActivity, with(domain.PermManageActivities)...)
	e.POST("/activities/:id", screenHandler.UpdateActivity, with(domain.PermManageActivities)...)
	e.POST("/activities/:id/delete", screenHandler.DeleteActivity, with(domain.PermManageActivities)...)
	e.POST("/activities/:id/checkin", screenHandler.CheckIn, with(domain.PermCheckIn)...)

	e.POST("/kategori", screenHandler.CreateCategory, with(domain.PermManageCategories)...)
	e.POST("/kategori/:id", screenHandler.RenameCategory, with(domain.PermManageCategories)...)
	e.POST("/kategori/:id/delete", screenHandler.DeleteCategory, with(domain.PermManageCategories)...)

	e.POST("/members", screenHandler.CreateMember, with(domain.PermManageMembers)...)
	e.POST("/members/:id", screenHandler.UpdateMember, with(domain.PermManageMembers)...)
	e.POST("/members/:id/delete", screenHandler.DeleteMember, with(domain.PermManageMembers)...)

	// --- JSON API ---
	apiGroup := e.Group("/api")
	apiGroup.GET("/session", apiHandler.GetSession, web...)
	apiGroup.POST("/session", apiHandler.Login, web...)
	apiGroup.DELETE("/session", apiHandler.Logout, web...)
	apiGroup.POST("/register", apiHandler.Register, web...)
	apiGroup.GET("/notifications", apiHandler.Notifications, web...)
	apiGroup.DELETE("/notifications/:id", apiHandler.DismissNotification, web...)
	apiGroup.GET("/views", apiHandler.Views, with(domain.PermBrowse)...)
	apiGroup.PUT("/views/:id", apiHandler.SelectView, with(domain.PermBrowse)...)

	return e
}

// skipCSRF exempts JSON API calls whose content type a cross-site HTML form
// cannot produce.
func skipCSRF(c echo.Context) bool {
	if !strings.HasPrefix(c.Request().URL.Path, "/api/") {
		return false
	}
	ct := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	for _, simple := range []string{echo.MIMEApplicationForm, echo.MIMEMultipartForm, echo.MIMETextPlain} {
		if strings.HasPrefix(ct, simple) {
			return false
		}
	}
	return true
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("client_id", middleware.ClientID(c)).
				Msg("request")
			return nil
		},
	})
}
