package domain

// Permission names a capability checked against a Role.
type Permission string

const (
	PermBrowse           Permission = "app:browse"
	PermCheckIn          Permission = "attendance:checkin"
	PermManageActivities Permission = "activities:manage"
	PermManageCategories Permission = "categories:manage"
	PermManageMembers    Permission = "members:manage"
	PermViewStatistics   Permission = "statistics:view"
)

// adminOnly is the single source of truth for administrative capabilities.
var adminOnly = map[Permission]bool{
	PermManageActivities: true,
	PermManageCategories: true,
	PermManageMembers:    true,
	PermViewStatistics:   true,
}

// Allows reports whether r holds p. Admins hold every permission; members
// hold every permission that is not admin-only.
func (r Role) Allows(p Permission) bool {
	return r.IsAdmin() || !adminOnly[p]
}

// CanAccess reports whether r may render v.
func (r Role) CanAccess(v View) bool {
	return r.Allows(v.Permission)
}

// ViewID identifies a top-level screen.
type ViewID string

const (
	ViewDashboard  ViewID = "dashboard"
	ViewActivities ViewID = "activities"
	ViewAttendance ViewID = "attendance"
	ViewCategories ViewID = "kategori"
	ViewMembers    ViewID = "members"
	ViewStatistics ViewID = "statistics"
)

// View is a named, role-scoped screen.
type View struct {
	ID          ViewID
	Label       string
	Description string
	Permission  Permission
}

// AdminOnly reports whether v is restricted to administrators.
func (v View) AdminOnly() bool { return adminOnly[v.Permission] }

// views is ordered as displayed in the navigation.
var views = []View{
	{ID: ViewDashboard, Label: "Dashboard", Description: "Halaman utama sistem", Permission: PermBrowse},
	{ID: ViewActivities, Label: "Kegiatan", Description: "Kelola kegiatan UKM", Permission: PermBrowse},
	{ID: ViewAttendance, Label: "Kehadiran", Description: "Sistem absensi digital", Permission: PermBrowse},
	{ID: ViewCategories, Label: "Kategori", Description: "Kelola kategori UKM", Permission: PermManageCategories},
	{ID: ViewMembers, Label: "Anggota", Description: "Manajemen anggota", Permission: PermManageMembers},
	{ID: ViewStatistics, Label: "Statistik", Description: "Analytics & laporan", Permission: PermViewStatistics},
}

// Views returns every navigable view in display order.
func Views() []View {
	out := make([]View, len(views))
	copy(out, views)
	return out
}

// LookupView finds the view registered under id.
func LookupView(id ViewID) (View, bool) {
	for _, v := range views {
		if v.ID == id {
			return v, true
		}
	}
	return View{}, false
}

// DefaultView is shown when nothing (or something unknown) was requested.
func DefaultView() View { return views[0] }
