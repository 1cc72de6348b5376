package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ulbi/ukm-portal/internal/core/domain"
)

func TestScreenHandler_CheckIn(t *testing.T) {
	e := newEcho(t)
	var got domain.CheckIn
	stub := &stubBackend{
		listActivitiesFn: func(context.Context, domain.Credential) ([]domain.Activity, error) {
			return []domain.Activity{{ID: "7", Title: "Latihan Band", UKM: "Musik", MaxParticipants: 10}}, nil
		},
		checkInFn: func(_ context.Context, _ domain.Credential, in domain.CheckIn) error {
			got = in
			return nil
		},
	}
	ws := signedIn(t, stub, member)

	rec := httptest.NewRecorder()
	c := e.NewContext(postForm("/activities/7/checkin", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := serve(ws, NewScreenHandler().CheckIn, c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got.ActivityID != "7" || got.UserID != member.ID || got.Status != domain.AttendancePresent {
		t.Fatalf("unexpected check-in: %+v", got)
	}
	if !hasNotification(ws, "Check-in berhasil!") {
		t.Fatalf("missing success notification: %+v", ws.Notifications.List())
	}
}

func TestScreenHandler_CheckIn_Full(t *testing.T) {
	e := newEcho(t)
	stub := &stubBackend{
		listActivitiesFn: func(context.Context, domain.Credential) ([]domain.Activity, error) {
			return []domain.Activity{{ID: "7", MaxParticipants: 1, Attendees: []domain.Attendee{{UserID: "x"}}}}, nil
		},
		checkInFn: func(context.Context, domain.Credential, domain.CheckIn) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	ws := signedIn(t, stub, member)

	rec := httptest.NewRecorder()
	c := e.NewContext(postForm("/activities/7/checkin", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := serve(ws, NewScreenHandler().CheckIn, c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if !hasNotification(ws, "Kuota peserta sudah penuh") {
		t.Fatalf("missing notification: %+v", ws.Notifications.List())
	}
}

func TestScreenHandler_CreateActivity_MemberForbidden(t *testing.T) {
	e := newEcho(t)
	ws := signedIn(t, &stubBackend{}, member)

	rec := httptest.NewRecorder()
	c := e.NewContext(postForm("/activities", nil), rec)
	err := serve(ws, NewScreenHandler().CreateActivity, c)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestScreenHandler_ActivityDetail_NotFoundRedirects(t *testing.T) {
	e := newEcho(t)
	stub := &stubBackend{
		getActivityFn: func(context.Context, domain.Credential, string) (domain.Activity, error) {
			return domain.Activity{}, domain.ErrNotFound
		},
	}
	ws := signedIn(t, stub, member)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/activities/404", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("404")
	if err := serve(ws, NewScreenHandler().ActivityDetail, c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/view/activities" {
		t.Fatalf("expected redirect to the list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestScreenHandler_ActivityDetail(t *testing.T) {
	e := newEcho(t)
	stub := &stubBackend{
		getActivityFn: func(_ context.Context, _ domain.Credential, id string) (domain.Activity, error) {
			return domain.Activity{ID: id, Title: "Latihan Band", Description: "**Bawa gitar**", UKM: "Musik"}, nil
		},
	}
	ws := signedIn(t, stub, member)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/activities/7", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues("7")
	if err := serve(ws, NewScreenHandler().ActivityDetail, c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>Bawa gitar</strong>") {
		t.Fatalf("expected rendered markdown, got %s", rec.Body.String())
	}
}
