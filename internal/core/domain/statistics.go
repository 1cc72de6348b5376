package domain

// Statistics is the aggregate report served by GET /statistics.
type Statistics struct {
	TotalActivities  int                `json:"totalKegiatan"`
	TotalMembers     int                `json:"totalAnggota"`
	TotalAttendance  int                `json:"totalKehadiran"`
	ByStatus         StatusBreakdown    `json:"kegiatanByStatus"`
	ActivitiesByUKM  []UKMActivityCount `json:"kegiatanByUkm"`
	MembersByUKM     []UKMMemberCount   `json:"membersByUkm"`
	RecentActivities []RecentActivity   `json:"recentActivities"`
}

type StatusBreakdown struct {
	Upcoming  int `json:"upcoming"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type UKMActivityCount struct {
	UKM        string  `json:"ukm"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type UKMMemberCount struct {
	UKM         string `json:"ukm"`
	AdminCount  int    `json:"adminCount"`
	MemberCount int    `json:"memberCount"`
	Total       int    `json:"total"`
}

type RecentActivity struct {
	Title     string `json:"title"`
	UKM       string `json:"ukm"`
	Date      string `json:"date"`
	Attendees int    `json:"attendees"`
}

// ForUKM keeps only the per-UKM rows matching ukm. An empty ukm keeps all.
func (s Statistics) ForUKM(ukm string) Statistics {
	if ukm == "" {
		return s
	}
	out := s
	out.ActivitiesByUKM = nil
	for _, r := range s.ActivitiesByUKM {
		if r.UKM == ukm {
			out.ActivitiesByUKM = append(out.ActivitiesByUKM, r)
		}
	}
	out.MembersByUKM = nil
	for _, r := range s.MembersByUKM {
		if r.UKM == ukm {
			out.MembersByUKM = append(out.MembersByUKM, r)
		}
	}
	out.RecentActivities = nil
	for _, r := range s.RecentActivities {
		if r.UKM == ukm {
			out.RecentActivities = append(out.RecentActivities, r)
		}
	}
	return out
}
