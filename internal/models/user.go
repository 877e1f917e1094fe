package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// User covers all three roles; the role-specific fields (ClassID, RollNo,
// Semester) are only set for students.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       Role   `json:"role"`
	Department string `json:"department,omitempty"`
	ClassID    string `json:"classId,omitempty"`
	Semester   int    `json:"semester,omitempty"`
	RollNo     string `json:"rollNo,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CreatedAt  string `json:"createdAt"`
}
