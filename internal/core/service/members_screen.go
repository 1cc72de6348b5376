package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

// MembersView is the rendered state of the members screen.
type MembersView struct {
	Items  []domain.Member
	Counts domain.MemberCounts
}

// MembersScreen manages user accounts. Admin only.
type MembersScreen struct {
	screenDeps
	members ports.MemberGateway
	items   Collection[domain.Member]
}

func NewMembersScreen(session *SessionStore, notify *NotificationBus, members ports.MemberGateway, log zerolog.Logger) *MembersScreen {
	return &MembersScreen{
		screenDeps: newScreenDeps(session, notify, log, string(domain.ViewMembers)),
		members:    members,
	}
}

// Load fetches all members. Counts cover the whole list; Items are filtered.
func (s *MembersScreen) Load(ctx context.Context, f domain.MemberFilter) (MembersView, error) {
	_, cred, err := s.authorize(domain.PermManageMembers)
	if err != nil {
		return MembersView{}, err
	}
	all, err := s.refresh(ctx, cred)
	if err != nil {
		return MembersView{}, s.fail(err, "Gagal mengambil data anggota")
	}

	view := MembersView{Counts: domain.CountMembers(all)}
	for _, m := range all {
		if f.Match(m) {
			view.Items = append(view.Items, m)
		}
	}
	return view, nil
}

func (s *MembersScreen) refresh(ctx context.Context, cred domain.Credential) ([]domain.Member, error) {
	gen := s.items.Begin()
	list, err := s.members.ListMembers(ctx, cred)
	if err != nil {
		return nil, err
	}
	items, _ := s.items.Settle(gen, list)
	return items, nil
}

func (s *MembersScreen) Create(ctx context.Context, in domain.MemberInput) error {
	_, cred, err := s.authorize(domain.PermManageMembers)
	if err != nil {
		return err
	}
	if err := s.validate(in); err != nil {
		return err
	}
	if strings.TrimSpace(in.Password) == "" {
		return s.invalid("password", "Password wajib diisi untuk anggota baru!")
	}
	if err := s.members.CreateMember(ctx, cred, in); err != nil {
		return s.fail(err, "Gagal menambahkan anggota")
	}
	s.notify.Success("Anggota berhasil ditambahkan")
	return s.reload(ctx, cred)
}

// Update edits a member. A blank password keeps the current one.
func (s *MembersScreen) Update(ctx context.Context, id string, in domain.MemberInput) error {
	_, cred, err := s.authorize(domain.PermManageMembers)
	if err != nil {
		return err
	}
	if err := s.validate(in); err != nil {
		return err
	}
	if err := s.members.UpdateMember(ctx, cred, id, in); err != nil {
		return s.fail(err, "Gagal memperbarui anggota")
	}
	s.notify.Success("Anggota berhasil diperbarui")
	return s.reload(ctx, cred)
}

func (s *MembersScreen) Delete(ctx context.Context, id string) error {
	_, cred, err := s.authorize(domain.PermManageMembers)
	if err != nil {
		return err
	}
	if err := s.members.DeleteMember(ctx, cred, id); err != nil {
		return s.fail(err, "Gagal menghapus anggota")
	}
	s.notify.Success("Anggota berhasil dihapus")
	return s.reload(ctx, cred)
}

func (s *MembersScreen) validate(in domain.MemberInput) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.UKM) == "" {
		return s.invalid("form", "Semua field wajib diisi!")
	}
	return nil
}

func (s *MembersScreen) reload(ctx context.Context, cred domain.Credential) error {
	if _, err := s.refresh(ctx, cred); err != nil {
		return s.fail(err, "Gagal mengambil data anggota")
	}
	return nil
}

func (s *MembersScreen) Reset() { s.items.Invalidate() }
