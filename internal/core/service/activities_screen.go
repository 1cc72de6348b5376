package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// ActivitiesScreen lists kegiatan, manages them for admins and records
// check-ins for everyone.
type ActivitiesScreen struct {
	screenDeps
	activities ports.ActivityGateway
	attendance ports.AttendanceGateway
	items      Collection[domain.Activity]
	now        func() time.Time
}

func NewActivitiesScreen(
	session *SessionStore,
	notify *NotificationBus,
	activities ports.ActivityGateway,
	attendance ports.AttendanceGateway,
	log zerolog.Logger,
) *ActivitiesScreen {
	return &ActivitiesScreen{
		screenDeps: newScreenDeps(session, notify, log, string(domain.ViewActivities)),
		activities: activities,
		attendance: attendance,
		now:        time.Now,
	}
}

// Load fetches every activity and returns those matching f.
func (s *ActivitiesScreen) Load(ctx context.Context, f domain.ActivityFilter) ([]domain.Activity, error) {
	_, cred, err := s.authorize(domain.PermBrowse)
	if err != nil {
		return nil, err
	}
	items, err := s.refresh(ctx, cred)
	if err != nil {
		return nil, s.fail(err, "Gagal mengambil data kegiatan")
	}
	return filterActivities(items, f), nil
}

func (s *ActivitiesScreen) refresh(ctx context.Context, cred domain.Credential) ([]domain.Activity, error) {
	gen := s.items.Begin()
	list, err := s.activities.ListActivities(ctx, cred)
	if err != nil {
		// Tentative attendees never outlive a failed confirmation.
		s.items.Rollback(gen, dropPending)
		return nil, err
	}
	items, current := s.items.Settle(gen, list)
	if !current {
		s.log.Debug().Uint64("generation", gen).Msg("stale activity list dropped")
	}
	return items, nil
}

// List filters the cached collection.
func (s *ActivitiesScreen) List(f domain.ActivityFilter) []domain.Activity {
	items, _ := s.items.Snapshot()
	return filterActivities(items, f)
}

func filterActivities(items []domain.Activity, f domain.ActivityFilter) []domain.Activity {
	out := make([]domain.Activity, 0, len(items))
	for _, a := range items {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

// UKMs returns the distinct organizations in the cached list, for filters.
func (s *ActivitiesScreen) UKMs() []string {
	items, _ := s.items.Snapshot()
	seen := make(map[string]bool)
	var out []string
	for _, a := range items {
		if a.UKM != "" && !seen[a.UKM] {
			seen[a.UKM] = true
			out = append(out, a.UKM)
		}
	}
	return out
}

func (s *ActivitiesScreen) Get(ctx context.Context, id string) (domain.Activity, error) {
	_, cred, err := s.authorize(domain.PermBrowse)
	if err != nil {
		return domain.Activity{}, err
	}
	a, err := s.activities.GetActivity(ctx, cred, id)
	if err != nil {
		return domain.Activity{}, s.fail(err, "Kegiatan tidak ditemukan")
	}
	return a, nil
}

func (s *ActivitiesScreen) Create(ctx context.Context, in domain.ActivityInput) error {
	return s.mutate(ctx, in, func(cred domain.Credential) error {
		return s.activities.CreateActivity(ctx, cred, in)
	}, "Kegiatan berhasil dibuat!", "Gagal membuat kegiatan")
}

func (s *ActivitiesScreen) Update(ctx context.Context, id string, in domain.ActivityInput) error {
	return s.mutate(ctx, in, func(cred domain.Credential) error {
		return s.activities.UpdateActivity(ctx, cred, id, in)
	}, "Kegiatan berhasil diperbarui!", "Gagal memperbarui kegiatan")
}

func (s *ActivitiesScreen) mutate(ctx context.Context, in domain.ActivityInput, call func(domain.Credential) error, ok, failMsg string) error {
	_, cred, err := s.authorize(domain.PermManageActivities)
	if err != nil {
		return err
	}
	if err := s.validate(in); err != nil {
		return err
	}
	if err := call(cred); err != nil {
		return s.fail(err, failMsg)
	}
	s.notify.Success(ok)
	if _, err := s.refresh(ctx, cred); err != nil {
		return s.fail(err, "Gagal mengambil data kegiatan")
	}
	return nil
}

func (s *ActivitiesScreen) validate(in domain.ActivityInput) error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return s.invalid("judul", "Judul kegiatan wajib diisi")
	case strings.TrimSpace(in.Date) == "":
		return s.invalid("tanggal", "Tanggal kegiatan wajib diisi")
	case strings.TrimSpace(in.UKM) == "":
		return s.invalid("kategori", "UKM harus dipilih")
	case in.MaxParticipants < 0:
		return s.invalid("maxParticipants", "Maksimal peserta tidak boleh negatif")
	case in.Status != "" && !in.Status.Valid():
		return s.invalid("status", "Status kegiatan tidak valid")
	}
	return nil
}

func (s *ActivitiesScreen) Delete(ctx context.Context, id string) error {
	_, cred, err := s.authorize(domain.PermManageActivities)
	if err != nil {
		return err
	}
	if err := s.activities.DeleteActivity(ctx, cred, id); err != nil {
		return s.fail(err, "Gagal menghapus kegiatan")
	}
	s.notify.Success("Kegiatan berhasil dihapus!")
	if _, err := s.refresh(ctx, cred); err != nil {
		return s.fail(err, "Gagal mengambil data kegiatan")
	}
	return nil
}

// CheckIn records the caller's attendance. The caller is appended to the
// cached attendee list as pending before the backend confirms it; the
// following re-fetch replaces the list wholesale or drops the pending entry.
func (s *ActivitiesScreen) CheckIn(ctx context.Context, activityID string) error {
	ident, cred, err := s.authorize(domain.PermCheckIn)
	if err != nil {
		return err
	}

	items, loaded := s.items.Snapshot()
	if !loaded {
		if items, err = s.refresh(ctx, cred); err != nil {
			return s.fail(err, "Gagal mengambil data kegiatan")
		}
	}
	var target *domain.Activity
	for i := range items {
		if items[i].ID == activityID {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return s.fail(fmt.Errorf("check-in %s: %w", activityID, domain.ErrNotFound), "Kegiatan tidak ditemukan")
	}
	if target.HasAttendee(ident.ID) {
		return s.fail(domain.ErrAlreadyCheckedIn, domain.ErrAlreadyCheckedIn.Error())
	}
	if target.IsFull() {
		return s.fail(domain.ErrActivityFull, domain.ErrActivityFull.Error())
	}

	s.items.Splice(func(list []domain.Activity) []domain.Activity {
		for i := range list {
			if list[i].ID == activityID {
				list[i].Attendees = append(list[i].Attendees, domain.Attendee{UserID: ident.ID, Name: ident.Name, Pending: true})
			}
		}
		return list
	})

	err = s.attendance.CheckIn(ctx, cred, domain.CheckIn{
		ActivityID: activityID,
		UserID:     ident.ID,
		Status:     domain.AttendancePresent,
		CheckedAt:  s.now().UTC(),
	})
	if err != nil {
		s.items.Splice(dropPending)
		return s.fail(err, "Gagal melakukan check-in")
	}
	s.notify.Success("Check-in berhasil!")

	if _, err := s.refresh(ctx, cred); err != nil {
		return s.fail(err, "Gagal mengambil data kegiatan")
	}
	return nil
}

func (s *ActivitiesScreen) Reset() { s.items.Invalidate() }

func dropPending(list []domain.Activity) []domain.Activity {
	for i := range list {
		kept := list[i].Attendees[:0:0]
		for _, at := range list[i].Attendees {
			if !at.Pending {
				kept = append(kept, at)
			}
		}
		list[i].Attendees = kept
	}
	return list
}
