package domain

import (
	"strings"
	"time"
)

// Member is a user account as managed by administrators.
type Member struct {
	ID        string    `json:"id"`
	Name      string    `json:"nama"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	UKM       string    `json:"ukm"`
	CreatedAt time.Time `json:"createdAt"`
}

// MemberInput carries the create/update form. Password is optional on update.
type MemberInput struct {
	Name     string
	Email    string
	Password string
	Role     Role
	UKM      string
}

// MemberFilter narrows the member list. Zero values match everything.
type MemberFilter struct {
	Search string
	Role   Role
	UKM    string
}

func (f MemberFilter) Match(m Member) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(m.Name), q) && !strings.Contains(strings.ToLower(m.Email), q) {
			return false
		}
	}
	if f.Role != "" && m.Role != f.Role {
		return false
	}
	if f.UKM != "" && !strings.EqualFold(m.UKM, f.UKM) {
		return false
	}
	return true
}

// MemberCounts tallies members by role.
type MemberCounts struct {
	Total   int
	Admins  int
	Members int
}

func CountMembers(ms []Member) MemberCounts {
	var c MemberCounts
	for _, m := range ms {
		c.Total++
		if m.Role.IsAdmin() {
			c.Admins++
		} else {
			c.Members++
		}
	}
	return c
}
