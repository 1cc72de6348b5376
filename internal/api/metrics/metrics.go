// Package metrics defines and registers all custom Prometheus metrics for the
// UKM portal. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics register with the default Prometheus registry at package init via
// promauto. Recorder adapts them to the observer interfaces the core and the
// backend client report to.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

const namespace = "ukm"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AccessDeniedTotal counts navigations to a view the identity may not open.
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of denied view selections, by view.",
	},
	[]string{"view"},
)

// WorkspacesActive tracks the client workspaces held in memory.
var WorkspacesActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "workspaces_active",
		Help:      "Current number of client workspaces held in memory.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

var NotificationsPostedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_posted_total",
		Help:      "Total number of notifications posted, by severity.",
	},
	[]string{"severity"},
)

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts round trips to the UKM backend.
// Labels:
//   - resource: first path segment (e.g. "kegiatan")
//   - method: HTTP method
//   - code: response status, or "error" when no response arrived
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests sent to the UKM backend.",
	},
	[]string{"resource", "method", "code"},
)

var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of UKM backend round trips.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"resource"},
)

// Recorder implements ports.Observer and backend.RequestObserver.
type Recorder struct{}

func (Recorder) LoginAttempt(ok bool) {
	result := "failure"
	if ok {
		result = "success"
	}
	LoginsTotal.WithLabelValues(result).Inc()
}

func (Recorder) NotificationPosted(sev domain.Severity) {
	NotificationsPostedTotal.WithLabelValues(string(sev)).Inc()
}

func (Recorder) AccessDenied(view domain.ViewID) {
	AccessDeniedTotal.WithLabelValues(string(view)).Inc()
}

func (Recorder) WorkspaceOpened() { WorkspacesActive.Inc() }
func (Recorder) WorkspaceClosed() { WorkspacesActive.Dec() }

func (Recorder) BackendRequest(resource, method string, status int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	BackendRequestsTotal.WithLabelValues(resource, method, code).Inc()
	BackendRequestDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}
