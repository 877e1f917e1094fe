package models

// ClassSection is a static configuration entity owned by the admin.
type ClassSection struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Semester   int    `json:"semester"`
	Section    string `json:"section"`
}
