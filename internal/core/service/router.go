package service

import (
	"sync"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// RouterState is derived from the session, never stored.
type RouterState string

const (
	StateUnauthenticated RouterState = "unauthenticated"
	StateAuthenticated   RouterState = "authenticated"
)

// AuthMode selects between the login and registration forms.
type AuthMode string

const (
	AuthLogin    AuthMode = "login"
	AuthRegister AuthMode = "register"
)

// Surface is what the shell should render.
type Surface string

const (
	SurfaceAuth   Surface = "auth"
	SurfaceView   Surface = "view"
	SurfaceDenied Surface = "denied"
)

// Resolution is the outcome of routing.
type Resolution struct {
	State   RouterState
	Surface Surface
	Mode    AuthMode
	View    domain.View
}

// NavItem is one sidebar entry.
type NavItem struct {
	View   domain.View
	Active bool
}

// IdentitySource exposes the signed-in identity, if any.
type IdentitySource interface {
	Identity() (domain.Identity, bool)
}

// Router holds the active view selection and gates it by role. It does no I/O.
type Router struct {
	session  IdentitySource
	observer ports.Observer

	mu     sync.Mutex
	active domain.ViewID
	mode   AuthMode
}

func NewRouter(session IdentitySource, observer ports.Observer) *Router {
	if observer == nil {
		observer = ports.NopObserver{}
	}
	return &Router{
		session:  session,
		observer: observer,
		active:   domain.DefaultView().ID,
		mode:     AuthLogin,
	}
}

func (r *Router) State() RouterState {
	if _, ok := r.session.Identity(); ok {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// Select makes id the active view. While unauthenticated the selection is
// ignored. Unknown ids fall back to the default view.
func (r *Router) Select(id domain.ViewID) Resolution {
	ident, ok := r.session.Identity()
	if !ok {
		return r.Current()
	}

	v, found := domain.LookupView(id)
	if !found {
		v = domain.DefaultView()
	}

	r.mu.Lock()
	r.active = v.ID
	r.mu.Unlock()

	if !ident.Role.CanAccess(v) {
		r.observer.AccessDenied(v.ID)
	}
	return r.Current()
}

// SetMode switches the auth surface. It has no effect once authenticated.
func (r *Router) SetMode(m AuthMode) {
	if r.State() == StateAuthenticated {
		return
	}
	if m != AuthRegister {
		m = AuthLogin
	}
	r.mu.Lock()
	r.mode = m
	r.mu.Unlock()
}

// Current resolves the active selection against the session.
func (r *Router) Current() Resolution {
	r.mu.Lock()
	active, mode := r.active, r.mode
	r.mu.Unlock()

	ident, ok := r.session.Identity()
	if !ok {
		return Resolution{State: StateUnauthenticated, Surface: SurfaceAuth, Mode: mode}
	}

	v, found := domain.LookupView(active)
	if !found {
		v = domain.DefaultView()
	}
	res := Resolution{State: StateAuthenticated, Surface: SurfaceView, View: v}
	if !ident.Role.CanAccess(v) {
		res.Surface = SurfaceDenied
	}
	return res
}

// Active returns the selected view id.
func (r *Router) Active() domain.ViewID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Navigation lists the views the current identity may open.
func (r *Router) Navigation() []NavItem {
	ident, ok := r.session.Identity()
	if !ok {
		return nil
	}
	active := r.Active()
	var items []NavItem
	for _, v := range domain.Views() {
		if !ident.Role.CanAccess(v) {
			continue
		}
		items = append(items, NavItem{View: v, Active: v.ID == active})
	}
	return items
}

// Reset returns to the initial selection, used after logout.
func (r *Router) Reset() {
	r.mu.Lock()
	r.active = domain.DefaultView().ID
	r.mode = AuthLogin
	r.mu.Unlock()
}
