// Package view renders the portal's server-side pages.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ulbi/ukm-portal/internal/core/domain"
	"github.com/ulbi/ukm-portal/internal/core/service"
)

//go:embed templates/*.html
var files embed.FS

// Pages rendered inside the layout. Every view id has a page of the same name.
var pageNames = []string{
	"auth", "denied", "error", "activity",
	string(domain.ViewDashboard),
	string(domain.ViewActivities),
	string(domain.ViewAttendance),
	string(domain.ViewCategories),
	string(domain.ViewMembers),
	string(domain.ViewStatistics),
}

// Page is the data every template receives.
type Page struct {
	Title         string
	CSRF          string
	Identity      domain.Identity
	SignedIn      bool
	Nav           []service.NavItem
	Notifications []domain.Notification
	Data          any
}

// ErrorData feeds the error page.
type ErrorData struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer with one template set per page.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	base, err := template.New("").Funcs(funcs(md)).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if _, err := t.ParseFS(files, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func funcs(md goldmark.Markdown) template.FuncMap {
	return template.FuncMap{
		"markdown": func(src string) template.HTML {
			var buf bytes.Buffer
			if err := md.Convert([]byte(src), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(src))
			}
			return template.HTML(buf.String())
		},
		"date": func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}
			return t.Local().Format("02 Jan 2006 15:04")
		},
		"capacity": func(a domain.Activity) string {
			if a.Unlimited() {
				return strconv.Itoa(a.Headcount()) + "/∞"
			}
			return strconv.Itoa(a.Headcount()) + "/" + strconv.Itoa(a.MaxParticipants)
		},
		"statuses":     domain.ActivityStatuses,
		"activityForm": newActivityForm,
		"memberForm":   newMemberForm,
	}
}

// ActivityForm feeds the shared create/edit activity form.
type ActivityForm struct {
	Action     string
	CSRF       string
	Categories []string
	Activity   domain.Activity
}

// newActivityForm accepts a domain.Activity to edit, or nil for a blank form.
func newActivityForm(action, csrf string, categories []string, current any) ActivityForm {
	f := ActivityForm{Action: action, CSRF: csrf, Categories: categories}
	if a, ok := current.(domain.Activity); ok {
		f.Activity = a
	} else {
		f.Activity.Status = domain.ActivityUpcoming
	}
	return f
}

type MemberForm struct {
	Action     string
	CSRF       string
	Categories []string
	Member     domain.Member
}

func newMemberForm(action, csrf string, categories []string, current any) MemberForm {
	f := MemberForm{Action: action, CSRF: csrf, Categories: categories}
	if m, ok := current.(domain.Member); ok {
		f.Member = m
	} else {
		f.Member.Role = domain.RoleMember
	}
	return f
}
