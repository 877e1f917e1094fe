package attendance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/sessions"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

type Options struct {
	// AllowUnknownSessions trusts a well-formed token whose session id is not
	// in the local store and cuts the record from the payload fields alone.
	// This weakens the "session must exist" invariant and exists only as a
	// cross-device demo fallback; it is off by default.
	AllowUnknownSessions bool

	// SessionTTL bounds the lenient path: a trusted payload still expires
	// relative to its issue timestamp.
	SessionTTL time.Duration
}

// Reconciler validates presented tokens against live session state and owns
// the absentee sweep.
type Reconciler struct {
	store  *storage.Store
	logger *zap.Logger
	opts   Options
	now    func() time.Time
}

func NewReconciler(store *storage.Store, logger *zap.Logger, opts Options) *Reconciler {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 5 * time.Minute
	}
	return &Reconciler{store: store, logger: logger, opts: opts, now: time.Now}
}

// Redeem validates raw (a QR token payload or a bare manual session code) and
// records presence for the student. Redeeming twice for the same session is
// an idempotent no-op returning the original record.
func (r *Reconciler) Redeem(raw, studentID string) (models.AttendanceRecord, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.AttendanceRecord{}, errMalformedToken
	}

	var payload sessions.TokenPayload
	if sessions.IsTokenShaped(raw) {
		p, err := sessions.DecodePayload(raw)
		if err != nil {
			return models.AttendanceRecord{}, errMalformedToken
		}
		payload = p
	} else {
		// Manual-entry fallback: the raw session id resolves to the stored
		// session's full payload.
		payload = sessions.TokenPayload{SessionID: raw}
	}

	sess, ok := r.store.SessionByID(payload.SessionID)
	if !ok {
		if !r.opts.AllowUnknownSessions || payload.SubjectID == "" || payload.ClassID == "" {
			return models.AttendanceRecord{}, errSessionNotFound
		}
		r.logger.Warn("lenient mode: trusting token for unknown session",
			zap.String("session_id", payload.SessionID),
			zap.String("student_id", studentID))
		sess = models.Session{
			ID:        payload.SessionID,
			SubjectID: payload.SubjectID,
			TeacherID: payload.TeacherID,
			ClassID:   payload.ClassID,
			ExpiresAt: time.UnixMilli(payload.Timestamp).Add(r.opts.SessionTTL).UnixMilli(),
			IsActive:  true,
		}
	}

	if !sess.IsActive {
		return models.AttendanceRecord{}, errSessionEnded
	}
	now := r.now()
	if sess.IsExpired(now) {
		return models.AttendanceRecord{}, errSessionExpired
	}
	if student, ok := r.store.UserByID(studentID); ok && student.ClassID != "" && student.ClassID != sess.ClassID {
		return models.AttendanceRecord{}, errClassMismatch
	}

	rec := models.AttendanceRecord{
		ID:        uuid.NewString(),
		SessionID: sess.ID,
		StudentID: studentID,
		SubjectID: sess.SubjectID,
		ClassID:   sess.ClassID,
		Date:      now.Format("2006-01-02"),
		Time:      now.Format("15:04"),
		Status:    models.StatusPresent,
	}
	stored, created, err := r.store.AddAttendanceRecord(rec)
	if err != nil {
		return models.AttendanceRecord{}, err
	}
	if created {
		r.logger.Info("attendance marked",
			zap.String("session_id", sess.ID),
			zap.String("student_id", studentID))
	}
	return stored, nil
}

// SweepAbsentees inserts an absent record for every enrolled student without
// one for the session. The store's uniqueness guard makes re-running it a
// no-op.
func (r *Reconciler) SweepAbsentees(sess models.Session) error {
	marked := make(map[string]bool)
	for _, rec := range r.store.AttendanceBySession(sess.ID) {
		marked[rec.StudentID] = true
	}

	date := r.now().Format("2006-01-02")
	swept := 0
	for _, student := range r.store.StudentsByClass(sess.ClassID) {
		if marked[student.ID] {
			continue
		}
		rec := models.AttendanceRecord{
			ID:        uuid.NewString(),
			SessionID: sess.ID,
			StudentID: student.ID,
			SubjectID: sess.SubjectID,
			ClassID:   sess.ClassID,
			Date:      date,
			Time:      "",
			Status:    models.StatusAbsent,
		}
		if _, created, err := r.store.AddAttendanceRecord(rec); err != nil {
			return err
		} else if created {
			swept++
		}
	}
	r.logger.Info("absentee sweep finished",
		zap.String("session_id", sess.ID),
		zap.Int("marked_absent", swept))
	return nil
}
