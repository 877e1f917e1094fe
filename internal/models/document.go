package models

// Document is the single persisted snapshot holding every collection. The
// store replaces it wholesale on each write; nothing mutates it in place.
type Document struct {
	Users      []User             `json:"users"`
	Classes    []ClassSection     `json:"classes"`
	Subjects   []Subject          `json:"subjects"`
	Sessions   []Session          `json:"sessions"`
	Attendance []AttendanceRecord `json:"attendance"`
}

// Clone returns a copy whose slices are safe to mutate independently.
func (d Document) Clone() Document {
	return Document{
		Users:      append([]User(nil), d.Users...),
		Classes:    append([]ClassSection(nil), d.Classes...),
		Subjects:   append([]Subject(nil), d.Subjects...),
		Sessions:   append([]Session(nil), d.Sessions...),
		Attendance: append([]AttendanceRecord(nil), d.Attendance...),
	}
}
