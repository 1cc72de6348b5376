package ports

import "github.com/ulbi/ukm-portal/internal/core/domain"

// Observer receives workspace events worth counting.
type Observer interface {
	LoginAttempt(ok bool)
	NotificationPosted(sev domain.Severity)
	AccessDenied(view domain.ViewID)
	WorkspaceOpened()
	WorkspaceClosed()
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) LoginAttempt(bool) {}
func (NopObserver) NotificationPosted(domain.Severity) {}
func (NopObserver) AccessDenied(domain.ViewID) {}
func (NopObserver) WorkspaceOpened() {}
func (NopObserver) WorkspaceClosed() {}
