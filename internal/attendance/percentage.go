package attendance

import (
	"math"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

// Aggregator computes derived attendance ratios. It is read-only and
// recomputes on every call; record volumes are small.
type Aggregator struct {
	store *storage.Store
}

func NewAggregator(store *storage.Store) *Aggregator {
	return &Aggregator{store: store}
}

// Percentage is round(100 * attended / total) over the student's records for
// the subject, where late counts the same as present. No records means 0,
// never NaN.
func (a *Aggregator) Percentage(studentID, subjectID string) int {
	records := a.store.AttendanceForStudentSubject(studentID, subjectID)
	if len(records) == 0 {
		return 0
	}
	attended := 0
	for _, rec := range records {
		if rec.Status.Attended() {
			attended++
		}
	}
	return int(math.Round(float64(attended) / float64(len(records)) * 100))
}

// Overall is the rounded mean of the per-subject percentages; 0 with no
// subjects.
func (a *Aggregator) Overall(studentID string, subjects []models.Subject) int {
	if len(subjects) == 0 {
		return 0
	}
	sum := 0
	for _, sub := range subjects {
		sum += a.Percentage(studentID, sub.ID)
	}
	return int(math.Round(float64(sum) / float64(len(subjects))))
}

type SubjectSummary struct {
	Subject    models.Subject `json:"subject"`
	Total      int            `json:"total"`
	Attended   int            `json:"attended"`
	Percentage int            `json:"percentage"`
}

// Breakdown lists the student's standing in every subject of their class.
func (a *Aggregator) Breakdown(studentID, classID string) []SubjectSummary {
	out := []SubjectSummary{}
	for _, sub := range a.store.SubjectsByClass(classID) {
		records := a.store.AttendanceForStudentSubject(studentID, sub.ID)
		attended := 0
		for _, rec := range records {
			if rec.Status.Attended() {
				attended++
			}
		}
		out = append(out, SubjectSummary{
			Subject:    sub,
			Total:      len(records),
			Attended:   attended,
			Percentage: a.Percentage(studentID, sub.ID),
		})
	}
	return out
}
