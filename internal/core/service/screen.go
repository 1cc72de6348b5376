package service

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// screenDeps is what every screen needs from the core: the session for the
// credential and the bus for feedback.
type screenDeps struct {
	session *SessionStore
	notify  *NotificationBus
	log     zerolog.Logger
}

func newScreenDeps(session *SessionStore, notify *NotificationBus, log zerolog.Logger, name string) screenDeps {
	return screenDeps{
		session: session,
		notify:  notify,
		log:     log.With().Str("view", name).Logger(),
	}
}

// authorize returns the caller's identity and credential if it holds p.
func (d screenDeps) authorize(p domain.Permission) (domain.Identity, domain.Credential, error) {
	ident, cred, ok := d.session.Current()
	if !ok {
		return domain.Identity{}, "", domain.ErrUnauthenticated
	}
	if !ident.Role.Allows(p) {
		return domain.Identity{}, "", fmt.Errorf("%s: %w", p, domain.ErrForbidden)
	}
	return ident, cred, nil
}

// fail surfaces err as an error notification and returns it unchanged.
// Authorization failures are not announced; the router already renders them.
func (d screenDeps) fail(err error, fallback string) error {
	if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrForbidden) {
		return err
	}
	d.log.Warn().Err(err).Msg(fallback)
	d.notify.Error(domain.UserMessage(err, fallback))
	return err
}

// invalid posts a validation message and returns it as a ValidationError.
func (d screenDeps) invalid(field, msg string) error {
	d.notify.Error(msg)
	return domain.NewValidationError(field, msg)
}
