package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// Storage stub
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu        sync.Mutex
	values    map[string]string
	getErr    error
	setErr    error
	removeErr error
	// removeFails makes that many Remove calls fail before succeeding.
	removeFails int
}

func newStubStorage() *stubStorage {
	return &stubStorage{values: make(map[string]string)}
}

func (s *stubStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *stubStorage) Set(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *stubStorage) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.removeErr != nil {
		return s.removeErr
	}
	if s.removeFails > 0 {
		s.removeFails--
		return errors.New("transient remove failure")
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok
}

// ---------------------------------------------------------------------------
// Backend stub
// ---------------------------------------------------------------------------

var errBackendDown = errors.New("connection refused")

type stubBackend struct {
	mu sync.Mutex

	loginFn    func(email, password string) (domain.Identity, domain.Credential, error)
	registerFn func(reg domain.Registration) error
	loginCalls int
	regCalls   int

	activities    []domain.Activity
	activitiesErr error
	mutateErr     error
	checkInErr    error
	checkIns      []domain.CheckIn
	activityCalls int

	categories    []domain.Category
	categoriesErr error
	attendance    []domain.Attendance
	members       []domain.Member
	stats         domain.Statistics
	statsErr      error
	lastCred      domain.Credential

	// duringList runs while a list fetch is in flight.
	duringList func()
}

func (b *stubBackend) inFlight() {
	b.mu.Lock()
	fn := b.duringList
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (b *stubBackend) Login(_ context.Context, email, password string) (domain.Identity, domain.Credential, error) {
	b.mu.Lock()
	b.loginCalls++
	fn := b.loginFn
	b.mu.Unlock()
	if fn == nil {
		return domain.Identity{}, "", domain.ErrInvalidCredentials
	}
	return fn(email, password)
}

func (b *stubBackend) Register(_ context.Context, reg domain.Registration) error {
	b.mu.Lock()
	b.regCalls++
	fn := b.registerFn
	b.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(reg)
}

func (b *stubBackend) ListActivities(_ context.Context, cred domain.Credential) ([]domain.Activity, error) {
	b.inFlight()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.activityCalls++
	b.lastCred = cred
	if b.activitiesErr != nil {
		return nil, b.activitiesErr
	}
	return cloneActivities(b.activities), nil
}

func (b *stubBackend) GetActivity(_ context.Context, _ domain.Credential, id string) (domain.Activity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, a := range b.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Activity{}, domain.ErrNotFound
}

func (b *stubBackend) CreateActivity(_ context.Context, _ domain.Credential, in domain.ActivityInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mutateErr != nil {
		return b.mutateErr
	}
	b.activities = append(b.activities, domain.Activity{ID: in.Title, Title: in.Title, UKM: in.UKM, Status: in.Status})
	return nil
}

func (b *stubBackend) UpdateActivity(_ context.Context, _ domain.Credential, _ string, _ domain.ActivityInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mutateErr
}

func (b *stubBackend) DeleteActivity(_ context.Context, _ domain.Credential, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mutateErr != nil {
		return b.mutateErr
	}
	kept := b.activities[:0]
	for _, a := range b.activities {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	b.activities = kept
	return nil
}

func (b *stubBackend) ListCategories(_ context.Context, cred domain.Credential) ([]domain.Category, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCred = cred
	if b.categoriesErr != nil {
		return nil, b.categoriesErr
	}
	return append([]domain.Category(nil), b.categories...), nil
}

func (b *stubBackend) CreateCategory(_ context.Context, _ domain.Credential, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mutateErr != nil {
		return b.mutateErr
	}
	b.categories = append(b.categories, domain.Category{ID: name, Name: name})
	return nil
}

func (b *stubBackend) UpdateCategory(_ context.Context, _ domain.Credential, id, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mutateErr != nil {
		return b.mutateErr
	}
	for i := range b.categories {
		if b.categories[i].ID == id {
			b.categories[i].Name = name
		}
	}
	return nil
}

func (b *stubBackend) DeleteCategory(_ context.Context, _ domain.Credential, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mutateErr
}

func (b *stubBackend) ListAttendance(_ context.Context, _ domain.Credential) ([]domain.Attendance, error) {
	b.inFlight()
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Attendance(nil), b.attendance...), nil
}

func (b *stubBackend) CheckIn(_ context.Context, _ domain.Credential, in domain.CheckIn) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.checkInErr != nil {
		return b.checkInErr
	}
	b.checkIns = append(b.checkIns, in)
	for i := range b.activities {
		if b.activities[i].ID == in.ActivityID {
			b.activities[i].Attendees = append(b.activities[i].Attendees, domain.Attendee{UserID: in.UserID})
		}
	}
	return nil
}

func (b *stubBackend) ListMembers(_ context.Context, _ domain.Credential) ([]domain.Member, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Member(nil), b.members...), nil
}

func (b *stubBackend) CreateMember(_ context.Context, _ domain.Credential, in domain.MemberInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mutateErr != nil {
		return b.mutateErr
	}
	b.members = append(b.members, domain.Member{ID: in.Email, Name: in.Name, Email: in.Email, Role: in.Role, UKM: in.UKM})
	return nil
}

func (b *stubBackend) UpdateMember(_ context.Context, _ domain.Credential, _ string, _ domain.MemberInput) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mutateErr
}

func (b *stubBackend) DeleteMember(_ context.Context, _ domain.Credential, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mutateErr
}

func (b *stubBackend) Statistics(_ context.Context, _ domain.Credential) (domain.Statistics, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats, b.statsErr
}

func (b *stubBackend) Ping(context.Context) error { return nil }

func cloneActivities(in []domain.Activity) []domain.Activity {
	out := make([]domain.Activity, len(in))
	for i, a := range in {
		a.Attendees = append([]domain.Attendee(nil), a.Attendees...)
		out[i] = a
	}
	return out
}

// ---------------------------------------------------------------------------
// Observer stub
// ---------------------------------------------------------------------------

type recordingObserver struct {
	mu     sync.Mutex
	logins []bool
	posted []domain.Severity
	denied []domain.ViewID
	opened int
	closed int
}

func (o *recordingObserver) LoginAttempt(ok bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logins = append(o.logins, ok)
}

func (o *recordingObserver) NotificationPosted(sev domain.Severity) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.posted = append(o.posted, sev)
}

func (o *recordingObserver) AccessDenied(v domain.ViewID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.denied = append(o.denied, v)
}

func (o *recordingObserver) WorkspaceOpened() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened++
}

func (o *recordingObserver) WorkspaceClosed() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed++
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

var (
	adminIdentity  = domain.Identity{ID: "u-admin", Name: "Ayu", Email: "admin@ulbi.ac.id", Role: domain.RoleAdmin, UKM: "Paduan Suara", IsActive: true}
	memberIdentity = domain.Identity{ID: "u-member", Name: "Budi", Email: "budi@ulbi.ac.id", Role: domain.RoleMember, UKM: "Futsal", IsActive: true}
)

func loginAs(ident domain.Identity, token string) func(string, string) (domain.Identity, domain.Credential, error) {
	return func(string, string) (domain.Identity, domain.Credential, error) {
		return ident, domain.Credential(token), nil
	}
}

// signedInSession returns a session already logged in as ident.
func signedInSession(b *stubBackend, ident domain.Identity) (*SessionStore, *stubStorage) {
	st := newStubStorage()
	b.loginFn = loginAs(ident, "tok-"+ident.ID)
	s := NewSessionStore(b, st, discardLogger)
	if _, err := s.Login(context.Background(), ident.Email, "secret1"); err != nil {
		panic(err)
	}
	return s, st
}
