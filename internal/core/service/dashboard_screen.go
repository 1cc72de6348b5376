package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

const dashboardRecentLimit = 5

// DashboardView is the rendered state of the dashboard.
type DashboardView struct {
	Summary domain.DashboardSummary
	Recent  []domain.Activity
}

// DashboardScreen summarises the activities visible to the identity.
type DashboardScreen struct {
	screenDeps
	activities ports.ActivityGateway
	items      Collection[domain.Activity]
}

func NewDashboardScreen(session *SessionStore, notify *NotificationBus, activities ports.ActivityGateway, log zerolog.Logger) *DashboardScreen {
	return &DashboardScreen{
		screenDeps: newScreenDeps(session, notify, log, string(domain.ViewDashboard)),
		activities: activities,
	}
}

func (s *DashboardScreen) Load(ctx context.Context) (DashboardView, error) {
	ident, cred, err := s.authorize(domain.PermBrowse)
	if err != nil {
		return DashboardView{}, err
	}

	gen := s.items.Begin()
	all, err := s.activities.ListActivities(ctx, cred)
	if err != nil {
		return DashboardView{}, s.fail(err, "Gagal mengambil data kegiatan")
	}
	visible := make([]domain.Activity, 0, len(all))
	for _, a := range all {
		if ident.CanSee(a.UKM) {
			visible = append(visible, a)
		}
	}
	items, current := s.items.Settle(gen, visible)
	if !current {
		s.log.Debug().Uint64("generation", gen).Msg("stale activity list dropped")
	}
	return dashboardView(items), nil
}

// View renders from the cached collection.
func (s *DashboardScreen) View() DashboardView {
	items, _ := s.items.Snapshot()
	return dashboardView(items)
}

func dashboardView(items []domain.Activity) DashboardView {
	recent := make([]domain.Activity, len(items))
	copy(recent, items)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Date > recent[j].Date })
	if len(recent) > dashboardRecentLimit {
		recent = recent[:dashboardRecentLimit]
	}
	return DashboardView{Summary: domain.Summarize(items), Recent: recent}
}

func (s *DashboardScreen) Reset() { s.items.Invalidate() }
