package attendance

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

func statusLabel(pct int) string {
	switch {
	case pct >= 75:
		return "Good"
	case pct >= 50:
		return "Warning"
	default:
		return "Critical"
	}
}

// SubjectReportCSV lists every student of the subject's class sorted by
// percentage, highest first.
func SubjectReportCSV(store *storage.Store, agg *Aggregator, subject models.Subject) ([]byte, error) {
	type row struct {
		student models.User
		pct     int
	}
	var rows []row
	for _, student := range store.StudentsByClass(subject.ClassID) {
		rows = append(rows, row{student, agg.Percentage(student.ID, subject.ID)})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].pct > rows[j].pct })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Student Name", "Roll No", "Attendance %", "Status"}); err != nil {
		return nil, err
	}
	for _, r := range rows {
		rec := []string{r.student.Name, r.student.RollNo, fmt.Sprintf("%d%%", r.pct), statusLabel(r.pct)}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// AdminReportCSV covers all students against all subjects, with a rounded
// overall mean per student.
func AdminReportCSV(store *storage.Store, agg *Aggregator) ([]byte, error) {
	subjects := store.Subjects()
	classes := store.Classes()
	classNames := make(map[string]string, len(classes))
	for _, c := range classes {
		classNames[c.ID] = c.Name
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"Student Name", "Roll No", "Class"}
	for _, sub := range subjects {
		header = append(header, sub.Name)
	}
	header = append(header, "Overall %")
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, student := range store.Users() {
		if student.Role != models.RoleStudent {
			continue
		}
		rec := []string{student.Name, student.RollNo, classNames[student.ClassID]}
		sum := 0
		for _, sub := range subjects {
			pct := agg.Percentage(student.ID, sub.ID)
			sum += pct
			rec = append(rec, fmt.Sprintf("%d%%", pct))
		}
		overall := 0
		if len(subjects) > 0 {
			overall = (sum + len(subjects)/2) / len(subjects)
		}
		rec = append(rec, fmt.Sprintf("%d%%", overall))
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
