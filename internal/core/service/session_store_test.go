package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

func TestSessionStore_Restore_EmptyStorage(t *testing.T) {
	s := NewSessionStore(&stubBackend{}, newStubStorage(), discardLogger)

	assert.False(t, s.Restore(context.Background()))
	_, ok := s.Identity()
	assert.False(t, ok)
	assert.True(t, s.Credential().Empty())
}

func TestSessionStore_LoginThenRestore_RoundTrips(t *testing.T) {
	b := &stubBackend{}
	st := newStubStorage()
	b.loginFn = loginAs(adminIdentity, "tok-123")

	first := NewSessionStore(b, st, discardLogger)
	ident, err := first.Login(context.Background(), adminIdentity.Email, "secret1")
	require.NoError(t, err)
	assert.Equal(t, adminIdentity, ident)

	// A fresh store on the same storage simulates a reload.
	second := NewSessionStore(b, st, discardLogger)
	require.True(t, second.Restore(context.Background()))

	got, cred, ok := second.Current()
	require.True(t, ok)
	assert.Equal(t, adminIdentity, got)
	assert.Equal(t, domain.Credential("tok-123"), cred)
}

func TestSessionStore_Logout_ClearsStorage(t *testing.T) {
	b := &stubBackend{}
	s, st := signedInSession(b, memberIdentity)

	require.NoError(t, s.Logout(context.Background()))

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.True(t, s.Credential().Empty())
	assert.False(t, st.has(KeyUser))
	assert.False(t, st.has(KeyToken))

	reloaded := NewSessionStore(b, st, discardLogger)
	assert.False(t, reloaded.Restore(context.Background()))

	// Idempotent.
	require.NoError(t, s.Logout(context.Background()))
	_, ok = s.Identity()
	assert.False(t, ok)
}

func TestSessionStore_Logout_StorageFailureStillClearsMemory(t *testing.T) {
	b := &stubBackend{}
	s, st := signedInSession(b, memberIdentity)
	st.removeErr = errors.New("redis down")

	err := s.Logout(context.Background())
	assert.ErrorContains(t, err, "redis down")

	_, ok := s.Identity()
	assert.False(t, ok)
	assert.True(t, st.has(KeyUser))
}

func TestSessionStore_Logout_RetriesTransientStorageFailure(t *testing.T) {
	b := &stubBackend{}
	s, st := signedInSession(b, memberIdentity)
	st.removeFails = clearAttempts - 1

	require.NoError(t, s.Logout(context.Background()))
	assert.False(t, st.has(KeyUser))
	assert.False(t, st.has(KeyToken))

	reloaded := NewSessionStore(b, st, discardLogger)
	assert.False(t, reloaded.Restore(context.Background()))
}

func TestSessionStore_Restore_CorruptValues(t *testing.T) {
	validUser, err := json.Marshal(memberIdentity)
	require.NoError(t, err)

	cases := []struct {
		name  string
		user  string
		token string
	}{
		{"undefined user", "undefined", "tok"},
		{"invalid json", "{not json", "tok"},
		{"empty object", "{}", "tok"},
		{"null user", "null", "tok"},
		{"undefined token", string(validUser), "undefined"},
		{"blank token", string(validUser), "  "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newStubStorage()
			st.values[KeyUser] = tc.user
			st.values[KeyToken] = tc.token
			s := NewSessionStore(&stubBackend{}, st, discardLogger)

			assert.NotPanics(t, func() { s.Restore(context.Background()) })
			_, ok := s.Identity()
			assert.False(t, ok)
			assert.False(t, st.has(KeyUser), "user key must be cleared")
			assert.False(t, st.has(KeyToken), "token key must be cleared")
		})
	}
}

func TestSessionStore_Restore_TokenWithoutUser(t *testing.T) {
	st := newStubStorage()
	st.values[KeyToken] = "tok"
	s := NewSessionStore(&stubBackend{}, st, discardLogger)

	assert.False(t, s.Restore(context.Background()))
	assert.False(t, st.has(KeyToken))
}

func TestSessionStore_Restore_LegacyUserRole(t *testing.T) {
	st := newStubStorage()
	st.values[KeyUser] = `{"id":"7","name":"Citra","email":"citra@ulbi.ac.id","role":"user","ukm":"Futsal"}`
	st.values[KeyToken] = "opaque-token"
	s := NewSessionStore(&stubBackend{}, st, discardLogger)

	require.True(t, s.Restore(context.Background()))
	ident, _ := s.Identity()
	assert.Equal(t, domain.RoleMember, ident.Role)
}

func TestSessionStore_Restore_ExpiredJWT(t *testing.T) {
	user, err := json.Marshal(memberIdentity)
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sign := func(exp time.Time) string {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
		require.NoError(t, err)
		return tok
	}

	t.Run("expired", func(t *testing.T) {
		st := newStubStorage()
		st.values[KeyUser] = string(user)
		st.values[KeyToken] = sign(now.Add(-time.Minute))
		s := NewSessionStore(&stubBackend{}, st, discardLogger)
		s.now = func() time.Time { return now }

		assert.False(t, s.Restore(context.Background()))
		assert.False(t, st.has(KeyUser))
	})

	t.Run("still valid", func(t *testing.T) {
		st := newStubStorage()
		st.values[KeyUser] = string(user)
		st.values[KeyToken] = sign(now.Add(time.Hour))
		s := NewSessionStore(&stubBackend{}, st, discardLogger)
		s.now = func() time.Time { return now }

		assert.True(t, s.Restore(context.Background()))
	})
}

func TestSessionStore_Restore_StorageError(t *testing.T) {
	st := newStubStorage()
	st.getErr = errors.New("i/o timeout")
	s := NewSessionStore(&stubBackend{}, st, discardLogger)

	assert.False(t, s.Restore(context.Background()))
}

func TestSessionStore_Login_FailureLeavesPriorSession(t *testing.T) {
	cases := []struct {
		name string
		fn   func(string, string) (domain.Identity, domain.Credential, error)
	}{
		{"rejected", func(string, string) (domain.Identity, domain.Credential, error) {
			return domain.Identity{}, "", domain.ErrInvalidCredentials
		}},
		{"missing token", func(string, string) (domain.Identity, domain.Credential, error) {
			return adminIdentity, "", nil
		}},
		{"network", func(string, string) (domain.Identity, domain.Credential, error) {
			return domain.Identity{}, "", errBackendDown
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &stubBackend{}
			s, st := signedInSession(b, memberIdentity)
			before := st.values[KeyUser]

			b.loginFn = tc.fn
			_, err := s.Login(context.Background(), "x@ulbi.ac.id", "whatever")
			require.Error(t, err)

			ident, cred, ok := s.Current()
			require.True(t, ok)
			assert.Equal(t, memberIdentity, ident)
			assert.Equal(t, domain.Credential("tok-u-member"), cred)
			assert.Equal(t, before, st.values[KeyUser])
			assert.Equal(t, "tok-u-member", st.values[KeyToken])
			assert.False(t, s.IsLoading())
		})
	}
}

func TestSessionStore_Login_MissingTokenIsInvalidCredentials(t *testing.T) {
	b := &stubBackend{loginFn: loginAs(adminIdentity, "")}
	s := NewSessionStore(b, newStubStorage(), discardLogger)

	_, err := s.Login(context.Background(), adminIdentity.Email, "secret1")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestSessionStore_Login_PersistFailureKeepsMemoryUnchanged(t *testing.T) {
	st := newStubStorage()
	st.setErr = errors.New("write failed")
	s := NewSessionStore(&stubBackend{loginFn: loginAs(adminIdentity, "tok")}, st, discardLogger)

	_, err := s.Login(context.Background(), adminIdentity.Email, "secret1")
	require.Error(t, err)
	_, ok := s.Identity()
	assert.False(t, ok)
}

func TestSessionStore_Login_ConcurrentCallIsBusy(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	b := &stubBackend{loginFn: func(string, string) (domain.Identity, domain.Credential, error) {
		close(entered)
		<-release
		return adminIdentity, "tok", nil
	}}
	s := NewSessionStore(b, newStubStorage(), discardLogger)

	done := make(chan error, 1)
	go func() {
		_, err := s.Login(context.Background(), adminIdentity.Email, "secret1")
		done <- err
	}()
	<-entered
	assert.True(t, s.IsLoading())

	_, err := s.Login(context.Background(), adminIdentity.Email, "secret1")
	assert.ErrorIs(t, err, domain.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, s.IsLoading())
}

func TestSessionStore_Register_BlankPasswordSkipsNetwork(t *testing.T) {
	b := &stubBackend{}
	s := NewSessionStore(b, newStubStorage(), discardLogger)

	err := s.Register(context.Background(), domain.Registration{Name: "Dewi", Email: "dewi@ulbi.ac.id", Password: "   ", UKM: "Futsal"})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)
	assert.Equal(t, 0, b.regCalls)
}

func TestSessionStore_Register_DoesNotLogIn(t *testing.T) {
	var got domain.Registration
	b := &stubBackend{registerFn: func(reg domain.Registration) error {
		got = reg
		return nil
	}}
	s := NewSessionStore(b, newStubStorage(), discardLogger)

	reg := domain.Registration{Name: "Dewi", Email: "dewi@ulbi.ac.id", Password: "secret1", UKM: "Futsal"}
	require.NoError(t, s.Register(context.Background(), reg))
	assert.Equal(t, reg, got)
	assert.False(t, s.Authenticated())
	assert.False(t, s.IsLoading())
}

func TestSessionStore_Register_BackendError(t *testing.T) {
	b := &stubBackend{registerFn: func(domain.Registration) error { return errBackendDown }}
	s := NewSessionStore(b, newStubStorage(), discardLogger)

	err := s.Register(context.Background(), domain.Registration{Password: "secret1"})
	assert.ErrorIs(t, err, errBackendDown)
	assert.False(t, s.IsLoading())
}
