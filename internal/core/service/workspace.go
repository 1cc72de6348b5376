package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

const (
	msgLoginOK        = "Login berhasil! Selamat datang di ULBI UKM System."
	msgLoginRejected  = "Email atau password salah. Silakan coba lagi."
	msgLoginFailed    = "Terjadi kesalahan. Silakan coba lagi."
	msgRegisterOK     = "Registrasi berhasil! Silakan login untuk melanjutkan."
	msgRegisterFailed = "Registrasi gagal"
	msgNetworkFailed  = "Terjadi kesalahan jaringan"
	msgBusy           = "Permintaan sebelumnya masih diproses"

	msgLogoutIncomplete = "Sesi belum terhapus dari perangkat ini. Silakan logout kembali."
)

// WorkspaceOptions tunes a workspace.
type WorkspaceOptions struct {
	NotificationDuration time.Duration
	Observer             ports.Observer
}

// Workspace is the full client state for one browser: its session, its
// notifications, its router and every screen.
type Workspace struct {
	ID string

	Session       *SessionStore
	Notifications *NotificationBus
	Router        *Router

	Dashboard  *DashboardScreen
	Activities *ActivitiesScreen
	Attendance *AttendanceScreen
	Categories *CategoriesScreen
	Members    *MembersScreen
	Statistics *StatisticsScreen

	categories ports.CategoryGateway
	observer   ports.Observer
	log        zerolog.Logger

	restoreOnce sync.Once
	lastSeen    atomic.Int64
}

func NewWorkspace(id string, backend ports.Backend, storage ports.Storage, opts WorkspaceOptions, log zerolog.Logger) *Workspace {
	if opts.Observer == nil {
		opts.Observer = ports.NopObserver{}
	}
	log = log.With().Str("client_id", id).Logger()

	session := NewSessionStore(backend, storage, log)
	notify := NewNotificationBus(opts.NotificationDuration, opts.Observer)

	w := &Workspace{
		ID:            id,
		Session:       session,
		Notifications: notify,
		Router:        NewRouter(session, opts.Observer),
		Dashboard:     NewDashboardScreen(session, notify, backend, log),
		Activities:    NewActivitiesScreen(session, notify, backend, backend, log),
		Attendance:    NewAttendanceScreen(session, notify, backend, log),
		Categories:    NewCategoriesScreen(session, notify, backend, log),
		Members:       NewMembersScreen(session, notify, backend, log),
		Statistics:    NewStatisticsScreen(session, notify, backend, backend, log),
		categories:    backend,
		observer:      opts.Observer,
		log:           log,
	}
	w.Touch(time.Now())
	return w
}

// Restore resolves the persisted session exactly once per workspace.
func (w *Workspace) Restore(ctx context.Context) {
	w.restoreOnce.Do(func() {
		w.Session.Restore(ctx)
	})
}

// SignIn logs in and reports the outcome through the notification bus.
func (w *Workspace) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	ident, err := w.Session.Login(ctx, email, password)
	switch {
	case err == nil:
		w.observer.LoginAttempt(true)
		w.Router.Reset()
		w.resetScreens()
		w.Notifications.Success(msgLoginOK)
		return ident, nil
	case errors.Is(err, domain.ErrBusy):
		w.Notifications.Warning(msgBusy)
	case errors.Is(err, domain.ErrInvalidCredentials):
		w.observer.LoginAttempt(false)
		w.Notifications.Error(msgLoginRejected)
	default:
		w.observer.LoginAttempt(false)
		w.log.Warn().Err(err).Msg("login failed")
		w.Notifications.Error(msgLoginFailed)
	}
	return domain.Identity{}, err
}

// SignUp registers an account and, on success, switches to the login form.
func (w *Workspace) SignUp(ctx context.Context, reg domain.Registration) error {
	err := w.Session.Register(ctx, reg)
	switch {
	case err == nil:
		w.Router.SetMode(AuthLogin)
		w.Notifications.Success(msgRegisterOK)
		return nil
	case errors.Is(err, domain.ErrBusy):
		w.Notifications.Warning(msgBusy)
	default:
		// The backend's own message wins, even on a 5xx answer.
		fallback := msgRegisterFailed
		if errors.Is(err, domain.ErrBackendUnavailable) {
			fallback = msgNetworkFailed
		}
		w.Notifications.Error(domain.UserMessage(err, fallback))
	}
	return err
}

// SignOut ends the session. Queued notifications are left to expire. When
// the durable session could not be removed a warning is posted and the error
// returned.
func (w *Workspace) SignOut(ctx context.Context) error {
	err := w.Session.Logout(ctx)
	w.Router.Reset()
	w.resetScreens()
	if err != nil {
		w.Notifications.Warning(msgLogoutIncomplete)
	}
	return err
}

func (w *Workspace) resetScreens() {
	w.Dashboard.Reset()
	w.Activities.Reset()
	w.Attendance.Reset()
	w.Categories.Reset()
	w.Members.Reset()
	w.Statistics.Reset()
}

// RegisterOptions lists the UKMs a new account can join.
func (w *Workspace) RegisterOptions(ctx context.Context) []string {
	cats, err := w.categories.ListCategories(ctx, "")
	if err != nil {
		w.log.Warn().Err(err).Msg("load register options")
		return nil
	}
	return domain.CategoryNames(cats)
}

func (w *Workspace) Touch(now time.Time) { w.lastSeen.Store(now.UnixNano()) }

func (w *Workspace) LastSeen() time.Time { return time.Unix(0, w.lastSeen.Load()) }

// Close stops the notification timers.
func (w *Workspace) Close() { w.Notifications.Close() }
