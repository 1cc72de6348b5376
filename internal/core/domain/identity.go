package domain

import (
	"strings"
	"time"
)

// Role is the authorization role carried by an Identity.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole normalizes a backend role string. Anything other than "admin"
// (including the legacy "user") is a member.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleMember
}

// UnmarshalText implements encoding.TextUnmarshaler so cached identities
// written with the legacy "user" role decode as members.
func (r *Role) UnmarshalText(text []byte) error {
	*r = ParseRole(string(text))
	return nil
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Label is the human-readable badge shown next to the profile.
func (r Role) Label() string {
	if r.IsAdmin() {
		return "Administrator"
	}
	return "Member"
}

// Identity is the signed-in actor as cached by the client.
type Identity struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	UKM       string    `json:"ukm"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// Valid reports whether the identity carries enough to be a session owner.
func (i Identity) Valid() bool {
	return strings.TrimSpace(i.ID) != "" || strings.TrimSpace(i.Email) != ""
}

// CanSee reports whether records belonging to ukm are visible to i.
// Admins see every organization; members only their own.
func (i Identity) CanSee(ukm string) bool {
	if i.Role.IsAdmin() {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(ukm), strings.TrimSpace(i.UKM))
}

// Initial returns the upper-cased first letter of the display name.
func (i Identity) Initial() string {
	name := strings.TrimSpace(i.Name)
	if name == "" {
		name = strings.TrimSpace(i.Email)
	}
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[0]))
}

// Credential is the opaque bearer token issued by the backend at login.
type Credential string

func (c Credential) Empty() bool { return strings.TrimSpace(string(c)) == "" }

// Header returns the Authorization header value for c.
func (c Credential) Header() string { return "Bearer " + string(c) }

// Registration carries the self-service sign-up form.
type Registration struct {
	Name     string
	Email    string
	Password string
	UKM      string
}
