package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// Login posts the credentials. Only a 2xx answer carrying a token succeeds;
// every other answer is reported as invalid credentials.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Identity, domain.Credential, error) {
	raw, err := c.do(ctx, http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError {
			return domain.Identity{}, "", fmt.Errorf("%w: %s", domain.ErrInvalidCredentials, apiErr.Error())
		}
		return domain.Identity{}, "", err
	}

	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil || strings.TrimSpace(resp.Token) == "" {
		return domain.Identity{}, "", domain.ErrInvalidCredentials
	}
	ident := resp.User.identity()
	if ident.Email == "" {
		ident.Email = email
	}
	return ident, domain.Credential(resp.Token), nil
}

func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	_, err := c.do(ctx, http.MethodPost, "/register", "", registerRequest{
		Nama:     reg.Name,
		Email:    reg.Email,
		Password: reg.Password,
		Role:     string(domain.RoleMember),
		UKM:      reg.UKM,
	})
	return err
}

// ---------------------------------------------------------------------------
// Kegiatan
// ---------------------------------------------------------------------------

func (c *Client) ListActivities(ctx context.Context, cred domain.Credential) ([]domain.Activity, error) {
	raw, err := c.do(ctx, http.MethodGet, "/kegiatan", cred, nil)
	if err != nil {
		return nil, err
	}
	wires := decodeList[activityWire](raw)
	out := make([]domain.Activity, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.activity())
	}
	return out, nil
}

func (c *Client) GetActivity(ctx context.Context, cred domain.Credential, id string) (domain.Activity, error) {
	raw, err := c.do(ctx, http.MethodGet, "/kegiatan/"+url.PathEscape(id), cred, nil)
	if err != nil {
		return domain.Activity{}, err
	}
	var w activityWire
	if err := json.Unmarshal(raw, &w); err != nil {
		return domain.Activity{}, fmt.Errorf("decode kegiatan %s: %w", id, err)
	}
	a := w.activity()
	if a.ID == "" {
		a.ID = id
	}
	return a, nil
}

func (c *Client) CreateActivity(ctx context.Context, cred domain.Credential, in domain.ActivityInput) error {
	_, err := c.do(ctx, http.MethodPost, "/kegiatan", cred, newActivityRequest(in))
	return err
}

func (c *Client) UpdateActivity(ctx context.Context, cred domain.Credential, id string, in domain.ActivityInput) error {
	_, err := c.do(ctx, http.MethodPut, "/kegiatan/"+url.PathEscape(id), cred, newActivityRequest(in))
	return err
}

func (c *Client) DeleteActivity(ctx context.Context, cred domain.Credential, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/kegiatan/"+url.PathEscape(id), cred, nil)
	return err
}

// ---------------------------------------------------------------------------
// Kategori
// ---------------------------------------------------------------------------

func (c *Client) ListCategories(ctx context.Context, cred domain.Credential) ([]domain.Category, error) {
	raw, err := c.do(ctx, http.MethodGet, "/kategori", cred, nil)
	if err != nil {
		return nil, err
	}
	wires := decodeList[categoryWire](raw)
	out := make([]domain.Category, 0, len(wires))
	for _, w := range wires {
		if cat := w.category(); cat.Name != "" {
			out = append(out, cat)
		}
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, cred domain.Credential, name string) error {
	_, err := c.do(ctx, http.MethodPost, "/kategori", cred, categoryRequest{NamaKategori: name})
	return err
}

func (c *Client) UpdateCategory(ctx context.Context, cred domain.Credential, id, name string) error {
	_, err := c.do(ctx, http.MethodPut, "/kategori/"+url.PathEscape(id), cred, categoryRequest{NamaKategori: name})
	return err
}

func (c *Client) DeleteCategory(ctx context.Context, cred domain.Credential, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/kategori/"+url.PathEscape(id), cred, nil)
	return err
}

// ---------------------------------------------------------------------------
// Kehadiran
// ---------------------------------------------------------------------------

func (c *Client) ListAttendance(ctx context.Context, cred domain.Credential) ([]domain.Attendance, error) {
	raw, err := c.do(ctx, http.MethodGet, "/kehadiran", cred, nil)
	if err != nil {
		return nil, err
	}
	wires := decodeList[attendanceWire](raw)
	out := make([]domain.Attendance, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.attendance())
	}
	return out, nil
}

func (c *Client) CheckIn(ctx context.Context, cred domain.Credential, in domain.CheckIn) error {
	status := in.Status
	if status == "" {
		status = domain.AttendancePresent
	}
	_, err := c.do(ctx, http.MethodPost, "/kehadiran", cred, checkInRequest{
		KegiatanID: in.ActivityID,
		UserID:     in.UserID,
		Status:     string(status),
		WaktuCek:   in.CheckedAt.UTC().Format(time.RFC3339),
	})
	return err
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

func (c *Client) ListMembers(ctx context.Context, cred domain.Credential) ([]domain.Member, error) {
	raw, err := c.do(ctx, http.MethodGet, "/users", cred, nil)
	if err != nil {
		return nil, err
	}
	wires := decodeList[userWire](raw)
	out := make([]domain.Member, 0, len(wires))
	for _, w := range wires {
		out = append(out, w.member())
	}
	return out, nil
}

func (c *Client) CreateMember(ctx context.Context, cred domain.Credential, in domain.MemberInput) error {
	_, err := c.do(ctx, http.MethodPost, "/users", cred, newMemberRequest(in))
	return err
}

// UpdateMember omits the password when it is blank so the backend keeps it.
func (c *Client) UpdateMember(ctx context.Context, cred domain.Credential, id string, in domain.MemberInput) error {
	_, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), cred, newMemberRequest(in))
	return err
}

func (c *Client) DeleteMember(ctx context.Context, cred domain.Credential, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), cred, nil)
	return err
}

func newMemberRequest(in domain.MemberInput) memberRequest {
	role := in.Role
	if role == "" {
		role = domain.RoleMember
	}
	req := memberRequest{
		Nama:  in.Name,
		Email: in.Email,
		Role:  string(role),
		UKM:   in.UKM,
	}
	if strings.TrimSpace(in.Password) != "" {
		req.Password = in.Password
	}
	return req
}

// ---------------------------------------------------------------------------
// Statistics
// ---------------------------------------------------------------------------

func (c *Client) Statistics(ctx context.Context, cred domain.Credential) (domain.Statistics, error) {
	raw, err := c.do(ctx, http.MethodGet, "/statistics", cred, nil)
	if err != nil {
		return domain.Statistics{}, err
	}
	var stats domain.Statistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		return domain.Statistics{}, fmt.Errorf("decode statistics: %w", err)
	}
	return stats, nil
}
