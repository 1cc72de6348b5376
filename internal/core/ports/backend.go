package ports

import (
	"context"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// AuthGateway performs the unauthenticated account calls.
type AuthGateway interface {
	// Login exchanges credentials for an identity and bearer credential.
	Login(ctx context.Context, email, password string) (domain.Identity, domain.Credential, error)
	Register(ctx context.Context, reg domain.Registration) error
}

type ActivityGateway interface {
	ListActivities(ctx context.Context, cred domain.Credential) ([]domain.Activity, error)
	GetActivity(ctx context.Context, cred domain.Credential, id string) (domain.Activity, error)
	CreateActivity(ctx context.Context, cred domain.Credential, in domain.ActivityInput) error
	UpdateActivity(ctx context.Context, cred domain.Credential, id string, in domain.ActivityInput) error
	DeleteActivity(ctx context.Context, cred domain.Credential, id string) error
}

type CategoryGateway interface {
	// ListCategories works without a credential; the register form uses it.
	ListCategories(ctx context.Context, cred domain.Credential) ([]domain.Category, error)
	CreateCategory(ctx context.Context, cred domain.Credential, name string) error
	UpdateCategory(ctx context.Context, cred domain.Credential, id, name string) error
	DeleteCategory(ctx context.Context, cred domain.Credential, id string) error
}

type AttendanceGateway interface {
	ListAttendance(ctx context.Context, cred domain.Credential) ([]domain.Attendance, error)
	CheckIn(ctx context.Context, cred domain.Credential, in domain.CheckIn) error
}

type MemberGateway interface {
	ListMembers(ctx context.Context, cred domain.Credential) ([]domain.Member, error)
	CreateMember(ctx context.Context, cred domain.Credential, in domain.MemberInput) error
	UpdateMember(ctx context.Context, cred domain.Credential, id string, in domain.MemberInput) error
	DeleteMember(ctx context.Context, cred domain.Credential, id string) error
}

type StatisticsGateway interface {
	Statistics(ctx context.Context, cred domain.Credential) (domain.Statistics, error)
}

// Backend is the full UKM REST surface.
type Backend interface {
	AuthGateway
	ActivityGateway
	CategoryGateway
	AttendanceGateway
	MemberGateway
	StatisticsGateway
	Ping(ctx context.Context) error
}
