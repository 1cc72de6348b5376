package domain

import (
	"strings"
	"time"
)

// DefaultNotificationDuration is how long a notification lives when the
// producer does not ask for anything else.
const DefaultNotificationDuration = 3 * time.Second

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity maps free text to a Severity, defaulting to info.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeveritySuccess:
		return SeveritySuccess
	case SeverityError:
		return SeverityError
	case SeverityWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Notification is a transient user-facing message.
type Notification struct {
	ID        string        `json:"id"`
	Severity  Severity      `json:"type"`
	Text      string        `json:"message"`
	Duration  time.Duration `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
}

// DurationMillis is exposed to the JSON API and templates.
func (n Notification) DurationMillis() int64 { return n.Duration.Milliseconds() }

// ExpiresAt is when the notification's timer fires.
func (n Notification) ExpiresAt() time.Time { return n.CreatedAt.Add(n.Duration) }
