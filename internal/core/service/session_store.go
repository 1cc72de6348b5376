package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// Durable storage keys.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// undefinedValue is what a serialized absent value looks like in storage
// written by older clients.
const undefinedValue = "undefined"

const clearAttempts = 3

// SessionStore owns the signed-in Identity and its Credential for one client.
// It is the only writer of both, in memory and in durable storage.
type SessionStore struct {
	auth    ports.AuthGateway
	storage ports.Storage
	log     zerolog.Logger
	now     func() time.Time

	mu       sync.RWMutex
	identity *domain.Identity
	cred     domain.Credential

	loading atomic.Bool
}

func NewSessionStore(auth ports.AuthGateway, storage ports.Storage, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		auth:    auth,
		storage: storage,
		log:     log.With().Str("component", "session").Logger(),
		now:     time.Now,
	}
}

// Restore loads the persisted session. Anything missing or unreadable is
// treated as no session and the stored keys are cleared. It reports whether
// a session was restored.
func (s *SessionStore) Restore(ctx context.Context) bool {
	ident, cred, reason := s.readPersisted(ctx)
	if reason != "" {
		s.log.Debug().Str("reason", reason).Msg("no session restored")
		_ = s.clear(ctx)
		return false
	}

	s.mu.Lock()
	s.identity = &ident
	s.cred = cred
	s.mu.Unlock()
	return true
}

func (s *SessionStore) readPersisted(ctx context.Context) (domain.Identity, domain.Credential, string) {
	var ident domain.Identity

	raw, ok, err := s.storage.Get(ctx, KeyUser)
	if err != nil {
		s.log.Warn().Err(err).Msg("read cached user")
		return ident, "", "storage error"
	}
	if !ok || isBlank(raw) {
		return ident, "", "user missing"
	}
	if err := json.Unmarshal([]byte(raw), &ident); err != nil {
		return ident, "", "user unparsable"
	}
	if !ident.Valid() {
		return ident, "", "user incomplete"
	}

	token, ok, err := s.storage.Get(ctx, KeyToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("read cached token")
		return ident, "", "storage error"
	}
	if !ok || isBlank(token) {
		return ident, "", "token missing"
	}
	if s.expired(token) {
		return ident, "", "token expired"
	}
	return ident, domain.Credential(token), ""
}

func isBlank(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == undefinedValue || v == "null"
}

// expired reports whether token is a JWT whose exp claim has passed.
// Tokens that are not JWTs are opaque and never considered expired.
func (s *SessionStore) expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !exp.After(s.now())
}

// Login authenticates against the backend and, on success, replaces the
// session in memory and storage. On any failure the previous session is
// left untouched.
func (s *SessionStore) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	if !s.loading.CompareAndSwap(false, true) {
		return domain.Identity{}, domain.ErrBusy
	}
	defer s.loading.Store(false)

	ident, cred, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("login: %w", err)
	}
	if cred.Empty() {
		return domain.Identity{}, fmt.Errorf("login: %w", domain.ErrInvalidCredentials)
	}

	encoded, err := json.Marshal(ident)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("login: encode user: %w", err)
	}
	if err := s.storage.Set(ctx, map[string]string{
		KeyUser:  string(encoded),
		KeyToken: string(cred),
	}); err != nil {
		return domain.Identity{}, fmt.Errorf("login: persist session: %w", err)
	}

	s.mu.Lock()
	s.identity = &ident
	s.cred = cred
	s.mu.Unlock()

	s.log.Info().Str("user_id", ident.ID).Str("role", string(ident.Role)).Msg("logged in")
	return ident, nil
}

// Register creates an account. It never signs the caller in.
func (s *SessionStore) Register(ctx context.Context, reg domain.Registration) error {
	if strings.TrimSpace(reg.Password) == "" {
		return domain.ErrPasswordRequired
	}
	if !s.loading.CompareAndSwap(false, true) {
		return domain.ErrBusy
	}
	defer s.loading.Store(false)

	if err := s.auth.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// Logout clears the session and may be called repeatedly. Memory is always
// cleared; the error reports durable keys that could not be removed, which
// would otherwise bring the session back on the next Restore.
func (s *SessionStore) Logout(ctx context.Context) error {
	return s.clear(ctx)
}

func (s *SessionStore) clear(ctx context.Context) error {
	s.mu.Lock()
	s.identity = nil
	s.cred = ""
	s.mu.Unlock()

	var err error
	for attempt := 0; attempt < clearAttempts; attempt++ {
		if err = s.storage.Remove(ctx, KeyUser, KeyToken); err == nil {
			return nil
		}
	}
	s.log.Warn().Err(err).Int("attempts", clearAttempts).Msg("clear cached session")
	return fmt.Errorf("clear cached session: %w", err)
}

// Current returns the identity and credential, and whether a session exists.
func (s *SessionStore) Current() (domain.Identity, domain.Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return domain.Identity{}, "", false
	}
	return *s.identity, s.cred, true
}

func (s *SessionStore) Identity() (domain.Identity, bool) {
	ident, _, ok := s.Current()
	return ident, ok
}

// Credential is read-only for every caller other than the store.
func (s *SessionStore) Credential() domain.Credential {
	_, cred, _ := s.Current()
	return cred
}

func (s *SessionStore) Authenticated() bool {
	_, ok := s.Identity()
	return ok
}

// IsLoading reports whether a Login or Register call is in flight.
func (s *SessionStore) IsLoading() bool { return s.loading.Load() }
