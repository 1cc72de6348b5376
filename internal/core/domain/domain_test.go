package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

func TestRole_AllowsAdminOnlyPermissions(t *testing.T) {
	tests := []struct {
		perm   Permission
		member bool
	}{
		{PermBrowse, true},
		{PermCheckIn, true},
		{PermManageActivities, false},
		{PermManageCategories, false},
		{PermManageMembers, false},
		{PermViewStatistics, false},
	}
	for _, tt := range tests {
		if got := RoleMember.Allows(tt.perm); got != tt.member {
			t.Errorf("member.Allows(%s) = %v, want %v", tt.perm, got, tt.member)
		}
		if !RoleAdmin.Allows(tt.perm) {
			t.Errorf("admin.Allows(%s) = false, want true", tt.perm)
		}
	}
}

func TestViews_AdminOnlyFlags(t *testing.T) {
	want := map[ViewID]bool{
		ViewDashboard:  false,
		ViewActivities: false,
		ViewAttendance: false,
		ViewCategories: true,
		ViewMembers:    true,
		ViewStatistics: true,
	}
	vs := Views()
	if len(vs) != len(want) {
		t.Fatalf("expected %d views, got %d", len(want), len(vs))
	}
	for _, v := range vs {
		if v.AdminOnly() != want[v.ID] {
			t.Errorf("view %s adminOnly = %v, want %v", v.ID, v.AdminOnly(), want[v.ID])
		}
		if RoleMember.CanAccess(v) == v.AdminOnly() {
			t.Errorf("member access to %s inconsistent with adminOnly flag", v.ID)
		}
	}
	if DefaultView().ID != ViewDashboard {
		t.Errorf("default view = %s", DefaultView().ID)
	}
	if _, ok := LookupView("nope"); ok {
		t.Error("LookupView found an unknown id")
	}
}

func TestRole_ParseAndDecode(t *testing.T) {
	for in, want := range map[string]Role{"admin": RoleAdmin, " ADMIN ": RoleAdmin, "member": RoleMember, "user": RoleMember, "": RoleMember} {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %s, want %s", in, got, want)
		}
	}

	var ident Identity
	if err := json.Unmarshal([]byte(`{"id":"1","role":"user"}`), &ident); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ident.Role != RoleMember {
		t.Errorf("legacy role decoded as %s", ident.Role)
	}
}

func TestIdentity_CanSee(t *testing.T) {
	member := Identity{ID: "1", Role: RoleMember, UKM: "Futsal"}
	admin := Identity{ID: "2", Role: RoleAdmin, UKM: "Tari"}

	if !member.CanSee("futsal") {
		t.Error("member should see own UKM regardless of case")
	}
	if member.CanSee("Tari") {
		t.Error("member should not see another UKM")
	}
	if !admin.CanSee("Futsal") {
		t.Error("admin should see every UKM")
	}
}

func TestActivity_Capacity(t *testing.T) {
	a := Activity{MaxParticipants: 2, Attendees: []Attendee{{UserID: "a"}}}
	if a.IsFull() {
		t.Error("one of two seats taken should not be full")
	}
	a.Attendees = append(a.Attendees, Attendee{UserID: "b", Pending: true})
	if !a.IsFull() {
		t.Error("pending attendees count against the quota")
	}
	if !a.HasPending() || !a.HasAttendee("b") {
		t.Error("pending attendee not reported")
	}
	if (Activity{}).IsFull() {
		t.Error("unlimited activity is never full")
	}
}

func TestActivityStatus_Label(t *testing.T) {
	if ActivityUpcoming.Label() != "Akan Datang" || ActivityCancelled.Label() != "Dibatalkan" {
		t.Error("unexpected status labels")
	}
	if ActivityStatus("draft").Valid() {
		t.Error("draft must not be valid")
	}
}

type backendErr struct{ msg string }

func (e backendErr) Error() string       { return "backend: " + e.msg }
func (e backendErr) UserMessage() string { return e.msg }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "fallback"},
		{"plain", errors.New("boom"), "fallback"},
		{"carries message", fmt.Errorf("wrap: %w", backendErr{"Email sudah terdaftar"}), "Email sudah terdaftar"},
		{"blank message", backendErr{"  "}, "fallback"},
		{"validation", NewValidationError("email", "Email harus diisi"), "Email harus diisi"},
		{"local sentinel", fmt.Errorf("register: %w", ErrPasswordRequired), "Password tidak boleh kosong"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err, "fallback"); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestValidationError_IsErrValidation(t *testing.T) {
	err := fmt.Errorf("form: %w", &ValidationError{Fields: map[string]string{"b": "second", "a": "first"}})
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected errors.Is(err, ErrValidation)")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Error() != "first" {
		t.Errorf("unexpected message: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	got := Summarize([]Activity{
		{Status: ActivityUpcoming, Attendees: []Attendee{{UserID: "a"}}},
		{Status: ActivityCompleted, Attendees: []Attendee{{UserID: "a"}, {UserID: "b"}}},
		{Status: ActivityOngoing},
	})
	want := DashboardSummary{Total: 3, Upcoming: 1, Completed: 1, Participants: 3}
	if got != want {
		t.Errorf("Summarize = %+v, want %+v", got, want)
	}
}
