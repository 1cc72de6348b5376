package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

// flexID accepts a JSON string or number.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexID(s)
		return nil
	}
	*f = flexID(string(b))
	return nil
}

// flexInt accepts a JSON number or a numeric string. Anything else is zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := strings.Trim(string(b), `"`)
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		*f = flexInt(n)
		return nil
	}
	*f = 0
	return nil
}

// flexTime accepts the timestamp layouts the backend is known to emit.
type flexTime time.Time

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02"}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		*f = flexTime{}
		return nil
	}
	*f = flexTime(parseTime(s))
	return nil
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// dateOnly trims an ISO timestamp to its calendar date.
func dateOnly(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 10 && s[4] == '-' && s[7] == '-' {
		return s[:10]
	}
	return s
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// decodeList accepts a bare array or an object wrapping it under "data".
// Anything else decodes as an empty list.
func decodeList[T any](raw []byte) []T {
	raw = bytes.TrimSpace(raw)
	var out []T
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil
		}
		return out
	}
	var wrapped struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil
	}
	return wrapped.Data
}

// ---------------------------------------------------------------------------
// Identity
// ---------------------------------------------------------------------------

type userWire struct {
	ID        flexID   `json:"id"`
	MongoID   flexID   `json:"_id"`
	Nama      string   `json:"nama"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      string   `json:"role"`
	UKM       string   `json:"ukm"`
	IsActive  *bool    `json:"isActive"`
	CreatedAt flexTime `json:"createdAt"`
}

func (u userWire) identity() domain.Identity {
	active := true
	if u.IsActive != nil {
		active = *u.IsActive
	}
	return domain.Identity{
		ID:        firstNonEmpty(string(u.ID), string(u.MongoID)),
		Name:      firstNonEmpty(u.Nama, u.Name),
		Email:     u.Email,
		Role:      domain.ParseRole(u.Role),
		UKM:       u.UKM,
		IsActive:  active,
		CreatedAt: time.Time(u.CreatedAt),
	}
}

func (u userWire) member() domain.Member {
	ident := u.identity()
	return domain.Member{
		ID:        ident.ID,
		Name:      ident.Name,
		Email:     ident.Email,
		Role:      ident.Role,
		UKM:       ident.UKM,
		CreatedAt: ident.CreatedAt,
	}
}

type loginResponse struct {
	User  userWire `json:"user"`
	Token string   `json:"token"`
}

// ---------------------------------------------------------------------------
// Activities
// ---------------------------------------------------------------------------

// attendeeWire accepts a bare user id or an object describing the user.
type attendeeWire domain.Attendee

func (a *attendeeWire) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		var obj struct {
			ID      flexID `json:"id"`
			MongoID flexID `json:"_id"`
			UserID  flexID `json:"user_id"`
			Nama    string `json:"nama"`
			Name    string `json:"name"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*a = attendeeWire{
			UserID: firstNonEmpty(string(obj.UserID), string(obj.ID), string(obj.MongoID)),
			Name:   firstNonEmpty(obj.Nama, obj.Name),
		}
		return nil
	}
	var id flexID
	if err := id.UnmarshalJSON(b); err != nil {
		return err
	}
	*a = attendeeWire{UserID: string(id)}
	return nil
}

type activityWire struct {
	ID              flexID         `json:"id"`
	MongoID         flexID         `json:"_id"`
	KegiatanID      flexID         `json:"id_kegiatan"`
	Judul           string         `json:"judul"`
	Title           string         `json:"title"`
	Deskripsi       string         `json:"deskripsi"`
	Description     string         `json:"description"`
	Tanggal         string         `json:"tanggal"`
	Date            string         `json:"date"`
	Waktu           string         `json:"waktu"`
	Time            string         `json:"time"`
	Lokasi          string         `json:"lokasi"`
	Location        string         `json:"location"`
	Kategori        string         `json:"kategori"`
	UKM             string         `json:"ukm"`
	MaxParticipants flexInt        `json:"maxParticipants"`
	Dokumentasi     string         `json:"dokumentasi_url"`
	Documentation   string         `json:"documentation"`
	Status          string         `json:"status"`
	CreatedBy       flexID         `json:"createdBy"`
	CreatedAt       flexTime       `json:"createdAt"`
	Attendees       []attendeeWire `json:"attendees"`
}

func (w activityWire) activity() domain.Activity {
	attendees := make([]domain.Attendee, 0, len(w.Attendees))
	for _, a := range w.Attendees {
		if a.UserID != "" {
			attendees = append(attendees, domain.Attendee(a))
		}
	}
	return domain.Activity{
		ID:               firstNonEmpty(string(w.ID), string(w.MongoID), string(w.KegiatanID)),
		Title:            firstNonEmpty(w.Judul, w.Title),
		Description:      firstNonEmpty(w.Deskripsi, w.Description),
		Date:             dateOnly(firstNonEmpty(w.Tanggal, w.Date)),
		Time:             firstNonEmpty(w.Waktu, w.Time),
		Location:         firstNonEmpty(w.Lokasi, w.Location),
		UKM:              firstNonEmpty(w.Kategori, w.UKM),
		MaxParticipants:  int(w.MaxParticipants),
		DocumentationURL: firstNonEmpty(w.Dokumentasi, w.Documentation),
		Status:           domain.ActivityStatus(strings.ToLower(strings.TrimSpace(w.Status))),
		CreatedBy:        string(w.CreatedBy),
		CreatedAt:        time.Time(w.CreatedAt),
		Attendees:        attendees,
	}
}

type activityRequest struct {
	Judul           string `json:"judul"`
	Deskripsi       string `json:"deskripsi"`
	Tanggal         string `json:"tanggal"`
	Waktu           string `json:"waktu"`
	Lokasi          string `json:"lokasi"`
	Kategori        string `json:"kategori"`
	MaxParticipants int    `json:"maxParticipants"`
	DokumentasiURL  string `json:"dokumentasi_url,omitempty"`
	Status          string `json:"status"`
}

func newActivityRequest(in domain.ActivityInput) activityRequest {
	status := in.Status
	if status == "" {
		status = domain.ActivityUpcoming
	}
	return activityRequest{
		Judul:           in.Title,
		Deskripsi:       in.Description,
		Tanggal:         in.Date,
		Waktu:           in.Time,
		Lokasi:          in.Location,
		Kategori:        in.UKM,
		MaxParticipants: in.MaxParticipants,
		DokumentasiURL:  in.DocumentationURL,
		Status:          string(status),
	}
}

// ---------------------------------------------------------------------------
// Categories, attendance, members
// ---------------------------------------------------------------------------

type categoryWire struct {
	ID           flexID `json:"id"`
	MongoID      flexID `json:"_id"`
	KategoriID   flexID `json:"id_kategori"`
	NamaKategori string `json:"nama_kategori"`
	Name         string `json:"name"`
}

func (w categoryWire) category() domain.Category {
	return domain.Category{
		ID:   firstNonEmpty(string(w.ID), string(w.MongoID), string(w.KategoriID)),
		Name: firstNonEmpty(w.NamaKategori, w.Name),
	}
}

type attendanceWire struct {
	ID           flexID   `json:"id"`
	MongoID      flexID   `json:"_id"`
	KegiatanID   flexID   `json:"kegiatan_id"`
	KegiatanNama string   `json:"kegiatan_nama"`
	UserID       flexID   `json:"user_id"`
	UserNama     string   `json:"user_nama"`
	UKM          string   `json:"ukm"`
	Status       string   `json:"status"`
	WaktuCek     flexTime `json:"waktu_cek"`
}

func (w attendanceWire) attendance() domain.Attendance {
	return domain.Attendance{
		ID:           firstNonEmpty(string(w.ID), string(w.MongoID)),
		ActivityID:   string(w.KegiatanID),
		ActivityName: w.KegiatanNama,
		UserID:       string(w.UserID),
		UserName:     w.UserNama,
		UKM:          w.UKM,
		Status:       domain.AttendanceStatus(strings.ToLower(strings.TrimSpace(w.Status))),
		CheckedAt:    time.Time(w.WaktuCek),
	}
}

type checkInRequest struct {
	KegiatanID string `json:"kegiatan_id"`
	UserID     string `json:"user_id"`
	Status     string `json:"status"`
	WaktuCek   string `json:"waktu_cek"`
}

type memberRequest struct {
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
	UKM      string `json:"ukm"`
}

type registerRequest struct {
	Nama     string `json:"nama"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	UKM      string `json:"ukm"`
}

type categoryRequest struct {
	NamaKategori string `json:"nama_kategori"`
}
