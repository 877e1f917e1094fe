package models

// Subject ties a course code to a class section and the teacher who runs it.
type Subject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	ClassID   string `json:"classId"`
	TeacherID string `json:"teacherId"`
	Semester  int    `json:"semester"`
}
