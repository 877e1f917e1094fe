package models

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
)

// Attended reports whether the status counts toward the attendance ratio.
func (s AttendanceStatus) Attended() bool {
	return s == StatusPresent || s == StatusLate
}

// AttendanceRecord is unique on (SessionID, StudentID) and never mutated after
// creation. Time is empty for records created by the absentee sweep.
type AttendanceRecord struct {
	ID        string           `json:"id"`
	SessionID string           `json:"sessionId"`
	StudentID string           `json:"studentId"`
	SubjectID string           `json:"subjectId"`
	ClassID   string           `json:"classId"`
	Date      string           `json:"date"`
	Time      string           `json:"time"`
	Status    AttendanceStatus `json:"status"`
}
