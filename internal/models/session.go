package models

import "time"

// Session is a time-bounded authorization window tying a teacher, subject and
// class to a redeemable token. QRCode holds the raw token payload rendered
// into the QR image; ExpiresAt is an absolute instant in unix milliseconds.
type Session struct {
	ID        string `json:"id"`
	SubjectID string `json:"subjectId"`
	TeacherID string `json:"teacherId"`
	ClassID   string `json:"classId"`
	QRCode    string `json:"qrCode"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	ExpiresAt int64  `json:"expiresAt"`
	IsActive  bool   `json:"isActive"`
}

func (s Session) IsExpired(now time.Time) bool {
	return now.UnixMilli() >= s.ExpiresAt
}
