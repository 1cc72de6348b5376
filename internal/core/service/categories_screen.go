package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/ports"
)

const msgCategoryNameRequired = "Nama kategori wajib diisi"

// CategoriesScreen manages kategori. Admin only.
type CategoriesScreen struct {
	screenDeps
	categories ports.CategoryGateway
	items      Collection[domain.Category]
}

func NewCategoriesScreen(session *SessionStore, notify *NotificationBus, categories ports.CategoryGateway, log zerolog.Logger) *CategoriesScreen {
	return &CategoriesScreen{
		screenDeps: newScreenDeps(session, notify, log, string(domain.ViewCategories)),
		categories: categories,
	}
}

func (s *CategoriesScreen) Load(ctx context.Context) ([]domain.Category, error) {
	_, cred, err := s.authorize(domain.PermManageCategories)
	if err != nil {
		return nil, err
	}
	items, err := s.refresh(ctx, cred)
	if err != nil {
		return nil, s.fail(err, "Gagal mengambil data kategori")
	}
	return items, nil
}

func (s *CategoriesScreen) refresh(ctx context.Context, cred domain.Credential) ([]domain.Category, error) {
	gen := s.items.Begin()
	list, err := s.categories.ListCategories(ctx, cred)
	if err != nil {
		return nil, err
	}
	items, _ := s.items.Settle(gen, list)
	return items, nil
}

func (s *CategoriesScreen) Create(ctx context.Context, name string) error {
	_, cred, err := s.authorize(domain.PermManageCategories)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s.invalid("nama_kategori", msgCategoryNameRequired)
	}
	if err := s.categories.CreateCategory(ctx, cred, name); err != nil {
		return s.fail(err, "Gagal menambahkan kategori")
	}
	s.notify.Success("Kategori berhasil ditambahkan")
	return s.reload(ctx, cred)
}

func (s *CategoriesScreen) Rename(ctx context.Context, id, name string) error {
	_, cred, err := s.authorize(domain.PermManageCategories)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return s.invalid("nama_kategori", msgCategoryNameRequired)
	}
	if err := s.categories.UpdateCategory(ctx, cred, id, name); err != nil {
		return s.fail(err, "Gagal mengupdate kategori")
	}
	s.notify.Success("Kategori berhasil diupdate")
	return s.reload(ctx, cred)
}

func (s *CategoriesScreen) Delete(ctx context.Context, id string) error {
	_, cred, err := s.authorize(domain.PermManageCategories)
	if err != nil {
		return err
	}
	if err := s.categories.DeleteCategory(ctx, cred, id); err != nil {
		return s.fail(err, "Gagal menghapus kategori")
	}
	s.notify.Success("Kategori berhasil dihapus")
	return s.reload(ctx, cred)
}

func (s *CategoriesScreen) reload(ctx context.Context, cred domain.Credential) error {
	if _, err := s.refresh(ctx, cred); err != nil {
		return s.fail(err, "Gagal mengambil data kategori")
	}
	return nil
}

func (s *CategoriesScreen) Reset() { s.items.Invalidate() }
