package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// AttendanceScreen lists kehadiran records. Members only see their own UKM.
type AttendanceScreen struct {
	screenDeps
	attendance ports.AttendanceGateway
	items      Collection[domain.Attendance]
}

func NewAttendanceScreen(session *SessionStore, notify *NotificationBus, attendance ports.AttendanceGateway, log zerolog.Logger) *AttendanceScreen {
	return &AttendanceScreen{
		screenDeps: newScreenDeps(session, notify, log, string(domain.ViewAttendance)),
		attendance: attendance,
	}
}

func (s *AttendanceScreen) Load(ctx context.Context) ([]domain.Attendance, error) {
	ident, cred, err := s.authorize(domain.PermBrowse)
	if err != nil {
		return nil, err
	}

	gen := s.items.Begin()
	all, err := s.attendance.ListAttendance(ctx, cred)
	if err != nil {
		return nil, s.fail(err, "Gagal mengambil data kehadiran")
	}
	visible := make([]domain.Attendance, 0, len(all))
	for _, a := range all {
		if ident.CanSee(a.UKM) {
			visible = append(visible, a)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].CheckedAt.After(visible[j].CheckedAt) })
	items, current := s.items.Settle(gen, visible)
	if !current {
		s.log.Debug().Uint64("generation", gen).Msg("stale attendance list dropped")
	}
	return items, nil
}

func (s *AttendanceScreen) Reset() { s.items.Invalidate() }
