package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/service"
)

func TestRenderer_ParsesEveryPage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, v := range domain.Views() {
		if _, ok := r.pages[string(v.ID)]; !ok {
			t.Errorf("no page for view %q", v.ID)
		}
	}
}

func TestRenderer_ActivityDetailRendersMarkdownSafely(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	page := Page{
		CSRF:     "tok",
		SignedIn: true,
		Identity: domain.Identity{ID: "u1", Name: "Rina", Role: domain.RoleAdmin},
		Data: struct {
			Activity   domain.Activity
			CanManage  bool
			UserID     string
			Categories []string
		}{
			Activity: domain.Activity{
				ID:              "a1",
				Title:           "Latihan",
				Description:     "**Wajib** hadir <script>alert(1)</script>",
				MaxParticipants: 0,
				Status:          domain.ActivityUpcoming,
			},
			CanManage:  true,
			UserID:     "u1",
			Categories: []string{"Musik"},
		},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "activity", page, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<strong>Wajib</strong>") {
		t.Error("markdown not rendered")
	}
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Error("raw html leaked into the page")
	}
	if !strings.Contains(out, "0/∞") {
		t.Error("unlimited capacity not shown")
	}
	if !strings.Contains(out, `action="/activities/a1"`) {
		t.Error("edit form missing for admin")
	}
}

func TestRenderer_AuthRegisterMode(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	page := Page{
		Notifications: []domain.Notification{{ID: "1", Severity: domain.SeverityError, Text: "Password tidak boleh kosong"}},
		Data: struct {
			Mode service.AuthMode
			UKMs []string
		}{Mode: service.AuthRegister, UKMs: []string{"Musik", "Futsal"}},
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, "auth", page, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`action="/register"`, `<option value="Futsal">`, "Password tidak boleh kosong"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Render(&bytes.Buffer{}, "nope", Page{}, nil); err == nil {
		t.Fatal("expected error")
	}
}
