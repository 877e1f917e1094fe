package storage

import "github.com/sagar04-cloud/Smart-Attendance-System/internal/models"

// Seed returns the first-run dataset: one admin, two teachers, six students
// across two class sections, five subjects, and no sessions or attendance.
func Seed() models.Document {
	return models.Document{
		Users: []models.User{
			{
				ID: "admin-1", Name: "Dr. Rajesh Kumar", Email: "admin@university.edu",
				Password: "admin123", Role: models.RoleAdmin,
				Department: "Administration", Phone: "9876543210", CreatedAt: "2025-01-01",
			},
			{
				ID: "teacher-1", Name: "Prof. Anita Sharma", Email: "anita@university.edu",
				Password: "teacher123", Role: models.RoleTeacher,
				Department: "Computer Science", Phone: "9876543211", CreatedAt: "2025-01-15",
			},
			{
				ID: "teacher-2", Name: "Prof. Vikram Singh", Email: "vikram@university.edu",
				Password: "teacher123", Role: models.RoleTeacher,
				Department: "Computer Science", Phone: "9876543212", CreatedAt: "2025-02-01",
			},
			{
				ID: "student-1", Name: "Priya Patel", Email: "priya@student.edu",
				Password: "student123", Role: models.RoleStudent,
				Department: "Computer Science", ClassID: "class-1", Semester: 4,
				RollNo: "CS2024001", Phone: "9876543213", CreatedAt: "2025-06-01",
			},
			{
				ID: "student-2", Name: "Rahul Verma", Email: "rahul@student.edu",
				Password: "student123", Role: models.RoleStudent,
				Department: "Computer Science", ClassID: "class-1", Semester: 4,
				RollNo: "CS2024002", Phone: "9876543214", CreatedAt: "2025-06-01",
			},
			{
				ID: "student-3", Name: "Sanjana Gupta", Email: "sanjana@student.edu",
				Password: "student123", Role: models.RoleStudent,
				Department: "Computer Science", ClassID: "class-1", Semester: 4,
				RollNo: "CS2024003", Phone: "9876543215", CreatedAt: "2025-06-01",
			},
			{
				ID: "student-4", Name: "Amit Kumar", Email: "amit@student.edu",
				Password: "student123", Role: models.RoleStudent,
				Department: "Computer Science", ClassID: "class-1", Semester: 4,
				RollNo: "CS2024004", Phone: "9876543216", CreatedAt: "2025-06-01",
			},
			{
				ID: "student-5", Name: "Neha Reddy", Email: "neha@student.edu",
				Password: "student123", Role: models.RoleStudent,
				Department: "Computer Science", ClassID: "class-2", Semester: 6,
				RollNo: "CS2023001", Phone: "9876543217", CreatedAt: "2025-06-01",
			},
			{
				ID: "student-6", Name: "Arjun Nair", Email: "arjun@student.edu",
				Password: "student123", Role: models.RoleStudent,
				Department: "Computer Science", ClassID: "class-2", Semester: 6,
				RollNo: "CS2023002", Phone: "9876543218", CreatedAt: "2025-06-01",
			},
		},
		Classes: []models.ClassSection{
			{ID: "class-1", Name: "CS-4A", Department: "Computer Science", Semester: 4, Section: "A"},
			{ID: "class-2", Name: "CS-6A", Department: "Computer Science", Semester: 6, Section: "A"},
			{ID: "class-3", Name: "CS-2A", Department: "Computer Science", Semester: 2, Section: "A"},
		},
		Subjects: []models.Subject{
			{ID: "sub-1", Name: "Data Structures & Algorithms", Code: "CS301", ClassID: "class-1", TeacherID: "teacher-1", Semester: 4},
			{ID: "sub-2", Name: "Database Management Systems", Code: "CS302", ClassID: "class-1", TeacherID: "teacher-2", Semester: 4},
			{ID: "sub-3", Name: "Machine Learning", Code: "CS501", ClassID: "class-2", TeacherID: "teacher-1", Semester: 6},
			{ID: "sub-4", Name: "Computer Networks", Code: "CS303", ClassID: "class-1", TeacherID: "teacher-1", Semester: 4},
			{ID: "sub-5", Name: "Artificial Intelligence", Code: "CS502", ClassID: "class-2", TeacherID: "teacher-2", Semester: 6},
		},
		Sessions:   []models.Session{},
		Attendance: []models.AttendanceRecord{},
	}
}
