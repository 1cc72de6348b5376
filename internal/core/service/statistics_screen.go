package service

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// StatisticsView is the rendered state of the statistics screen.
type StatisticsView struct {
	Stats domain.Statistics
	UKMs  []string
	UKM   string
}

// StatisticsScreen shows the aggregate report. Admin only.
type StatisticsScreen struct {
	screenDeps
	stats      ports.StatisticsGateway
	categories ports.CategoryGateway
	report     Collection[StatisticsView]
}

func NewStatisticsScreen(
	session *SessionStore,
	notify *NotificationBus,
	stats ports.StatisticsGateway,
	categories ports.CategoryGateway,
	log zerolog.Logger,
) *StatisticsScreen {
	return &StatisticsScreen{
		screenDeps: newScreenDeps(session, notify, log, string(domain.ViewStatistics)),
		stats:      stats,
		categories: categories,
	}
}

// Load fetches the report and the UKM list in parallel, then narrows the
// per-UKM rows to ukm when it is set.
func (s *StatisticsScreen) Load(ctx context.Context, ukm string) (StatisticsView, error) {
	_, cred, err := s.authorize(domain.PermViewStatistics)
	if err != nil {
		return StatisticsView{}, err
	}

	gen := s.report.Begin()

	var (
		stats domain.Statistics
		cats  []domain.Category
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = s.stats.Statistics(gctx, cred)
		return err
	})
	g.Go(func() error {
		var err error
		cats, err = s.categories.ListCategories(gctx, cred)
		return err
	})
	if err := g.Wait(); err != nil {
		return StatisticsView{}, s.fail(err, "Gagal mengambil data statistik")
	}

	view := StatisticsView{Stats: stats.ForUKM(ukm), UKMs: domain.CategoryNames(cats), UKM: ukm}
	if s.report.Apply(gen, []StatisticsView{view}) {
		return view, nil
	}
	// A newer load superseded this one; serve what it stored.
	if latest, _ := s.report.Snapshot(); len(latest) == 1 {
		return latest[0], nil
	}
	return view, nil
}

func (s *StatisticsScreen) Reset() { s.report.Invalidate() }
