package handler

import (
	"strings"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

type loginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=6"`
}

// registerRequest leaves a blank password to the session store, which rejects
// it before any network call.
type registerRequest struct {
	Name            string `form:"name" json:"name" validate:"required,min=2"`
	Email           string `form:"email" json:"email" validate:"required,email"`
	Password        string `form:"password" json:"password" validate:"omitempty,min=6"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword" validate:"eqfield=Password"`
	UKM             string `form:"ukm" json:"ukm" validate:"required"`
}

func (r registerRequest) registration() domain.Registration {
	return domain.Registration{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		UKM:      strings.TrimSpace(r.UKM),
	}
}

// activityRequest checks formats only; the activities screen owns the
// required-field messages.
type activityRequest struct {
	Title            string `form:"title" json:"title" validate:"max=200"`
	Description      string `form:"description" json:"description"`
	Date             string `form:"date" json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time             string `form:"time" json:"time"`
	Location         string `form:"location" json:"location"`
	UKM              string `form:"ukm" json:"ukm"`
	MaxParticipants  int    `form:"maxParticipants" json:"maxParticipants" validate:"gte=0"`
	DocumentationURL string `form:"documentation" json:"documentation" validate:"omitempty,url"`
	Status           string `form:"status" json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
}

func (r activityRequest) input() domain.ActivityInput {
	return domain.ActivityInput{
		Title:            strings.TrimSpace(r.Title),
		Description:      r.Description,
		Date:             r.Date,
		Time:             r.Time,
		Location:         strings.TrimSpace(r.Location),
		UKM:              strings.TrimSpace(r.UKM),
		MaxParticipants:  r.MaxParticipants,
		DocumentationURL: strings.TrimSpace(r.DocumentationURL),
		Status:           domain.ActivityStatus(r.Status),
	}
}

type categoryRequest struct {
	Name string `form:"nama_kategori" json:"nama_kategori"`
}

// memberRequest is checked by the members screen, which owns the
// create-versus-update password rule.
type memberRequest struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email" validate:"omitempty,email"`
	Password string `form:"password" json:"password" validate:"omitempty,min=6"`
	Role     string `form:"role" json:"role" validate:"omitempty,oneof=admin member"`
	UKM      string `form:"ukm" json:"ukm"`
}

func (r memberRequest) input() domain.MemberInput {
	return domain.MemberInput{
		Name:     strings.TrimSpace(r.Name),
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
		Role:     domain.ParseRole(r.Role),
		UKM:      strings.TrimSpace(r.UKM),
	}
}
