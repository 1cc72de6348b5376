package domain

import (
	"strings"
	"time"
)

// ActivityStatus represents the lifecycle state of a kegiatan.
type ActivityStatus string

const (
	ActivityUpcoming  ActivityStatus = "upcoming"
	ActivityOngoing   ActivityStatus = "ongoing"
	ActivityCompleted ActivityStatus = "completed"
	ActivityCancelled ActivityStatus = "cancelled"
)

var activityStatusLabels = map[ActivityStatus]string{
	ActivityUpcoming:  "Akan Datang",
	ActivityOngoing:   "Berlangsung",
	ActivityCompleted: "Selesai",
	ActivityCancelled: "Dibatalkan",
}

// ActivityStatuses lists every status in display order.
func ActivityStatuses() []ActivityStatus {
	return []ActivityStatus{ActivityUpcoming, ActivityOngoing, ActivityCompleted, ActivityCancelled}
}

// Valid reports whether s is one of the known statuses.
func (s ActivityStatus) Valid() bool {
	_, ok := activityStatusLabels[s]
	return ok
}

// Label returns the Indonesian label, or the raw value for unknown statuses.
func (s ActivityStatus) Label() string {
	if l, ok := activityStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Attendee is a participant listed on an activity. Pending marks an entry
// appended optimistically and not yet confirmed by a re-fetch.
type Attendee struct {
	UserID  string `json:"user_id"`
	Name    string `json:"name,omitempty"`
	Pending bool   `json:"-"`
}

// Activity is a kegiatan as returned by the backend.
type Activity struct {
	ID               string         `json:"id"`
	Title            string         `json:"judul"`
	Description      string         `json:"deskripsi"`
	Date             string         `json:"tanggal"`
	Time             string         `json:"waktu"`
	Location         string         `json:"lokasi"`
	UKM              string         `json:"kategori"`
	MaxParticipants  int            `json:"maxParticipants"`
	DocumentationURL string         `json:"dokumentasi_url,omitempty"`
	Status           ActivityStatus `json:"status"`
	CreatedBy        string         `json:"createdBy,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
	Attendees        []Attendee     `json:"attendees"`
}

// Unlimited reports whether the activity has no participant cap.
func (a Activity) Unlimited() bool { return a.MaxParticipants <= 0 }

// Headcount is the number of listed attendees, confirmed or not.
func (a Activity) Headcount() int { return len(a.Attendees) }

// IsFull reports whether no more attendees can check in.
func (a Activity) IsFull() bool {
	return !a.Unlimited() && a.Headcount() >= a.MaxParticipants
}

// HasAttendee reports whether userID is already listed.
func (a Activity) HasAttendee(userID string) bool {
	for _, at := range a.Attendees {
		if at.UserID == userID {
			return true
		}
	}
	return false
}

// HasPending reports whether any attendee is still unconfirmed.
func (a Activity) HasPending() bool {
	for _, at := range a.Attendees {
		if at.Pending {
			return true
		}
	}
	return false
}

// ActivityInput carries the create/update form.
type ActivityInput struct {
	Title            string
	Description      string
	Date             string
	Time             string
	Location         string
	UKM              string
	MaxParticipants  int
	DocumentationURL string
	Status           ActivityStatus
}

// ActivityFilter narrows the activity list. Zero values match everything.
type ActivityFilter struct {
	Search string
	Status ActivityStatus
	UKM    string
}

// Match reports whether a passes every non-empty criterion.
func (f ActivityFilter) Match(a Activity) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(a.Title), q) && !strings.Contains(strings.ToLower(a.Description), q) {
			return false
		}
	}
	if f.Status != "" && a.Status != f.Status {
		return false
	}
	if f.UKM != "" && !strings.EqualFold(a.UKM, f.UKM) {
		return false
	}
	return true
}

// DashboardSummary aggregates the activities visible to one identity.
type DashboardSummary struct {
	Total        int
	Upcoming     int
	Completed    int
	Participants int
}

// Summarize counts activities by status and sums their attendees.
func Summarize(activities []Activity) DashboardSummary {
	var s DashboardSummary
	for _, a := range activities {
		s.Total++
		switch a.Status {
		case ActivityUpcoming:
			s.Upcoming++
		case ActivityCompleted:
			s.Completed++
		}
		s.Participants += a.Headcount()
	}
	return s
}
