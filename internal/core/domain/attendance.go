package domain

import "time"

// AttendanceStatus is the presence state recorded on check-in.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

var attendanceLabels = map[AttendanceStatus]string{
	AttendancePresent: "Hadir",
	AttendanceAbsent:  "Tidak Hadir",
	AttendanceLate:    "Terlambat",
}

func (s AttendanceStatus) Label() string {
	if l, ok := attendanceLabels[s]; ok {
		return l
	}
	return string(s)
}

// Attendance is a kehadiran record.
type Attendance struct {
	ID           string           `json:"id"`
	ActivityID   string           `json:"kegiatan_id"`
	ActivityName string           `json:"kegiatan_nama,omitempty"`
	UserID       string           `json:"user_id"`
	UserName     string           `json:"user_nama,omitempty"`
	UKM          string           `json:"ukm,omitempty"`
	Status       AttendanceStatus `json:"status"`
	CheckedAt    time.Time        `json:"waktu_cek"`
}

// ActivityLabel falls back to the id when the backend did not join the name.
func (a Attendance) ActivityLabel() string {
	if a.ActivityName != "" {
		return a.ActivityName
	}
	return a.ActivityID
}

func (a Attendance) UserLabel() string {
	if a.UserName != "" {
		return a.UserName
	}
	return a.UserID
}

// CheckIn is the payload posted to record attendance.
type CheckIn struct {
	ActivityID string
	UserID     string
	Status     AttendanceStatus
	CheckedAt  time.Time
}
