package sessions

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

var (
	ErrSubjectNotFound = errors.New("subject not found")
	ErrNotSubjectOwner = errors.New("subject is not taught by this teacher")
	ErrSessionNotFound = errors.New("session not found")
)

// Sweeper back-fills absent records when a session ends.
type Sweeper interface {
	SweepAbsentees(sess models.Session) error
}

// Manager owns the session lifecycle: Active on create, then Ended or Expired
// and never reactivated.
type Manager struct {
	store  *storage.Store
	logger *zap.Logger
	ttl    time.Duration

	mu      sync.Mutex // serializes the active->inactive transition
	sweeper Sweeper
	now     func() time.Time
}

func NewManager(store *storage.Store, logger *zap.Logger, ttl time.Duration) *Manager {
	return &Manager{store: store, logger: logger, ttl: ttl, now: time.Now}
}

func (m *Manager) SetSweeper(s Sweeper) { m.sweeper = s }

// Create starts a session for a subject the teacher owns. A prior active
// session for the same subject is left untouched: its token keeps redeeming
// until its own TTL lapses (the lenient regenerate window).
func (m *Manager) Create(subjectID, teacherID string) (models.Session, error) {
	subject, ok := m.store.SubjectByID(subjectID)
	if !ok {
		return models.Session{}, ErrSubjectNotFound
	}
	if subject.TeacherID != teacherID {
		return models.Session{}, ErrNotSubjectOwner
	}

	now := m.now()
	id := uuid.NewString()
	payload := EncodePayload(TokenPayload{
		SessionID: id,
		SubjectID: subject.ID,
		ClassID:   subject.ClassID,
		TeacherID: teacherID,
		Timestamp: now.UnixMilli(),
	})
	sess := models.Session{
		ID:        id,
		SubjectID: subject.ID,
		TeacherID: teacherID,
		ClassID:   subject.ClassID,
		QRCode:    payload,
		Date:      now.Format("2006-01-02"),
		StartTime: now.Format("15:04"),
		ExpiresAt: now.Add(m.ttl).UnixMilli(),
		IsActive:  true,
	}
	if err := m.store.AddSession(sess); err != nil {
		return models.Session{}, err
	}

	roster := m.store.StudentsByClass(subject.ClassID)
	m.logger.Info("session created",
		zap.String("session_id", id),
		zap.String("subject_id", subject.ID),
		zap.String("class_id", subject.ClassID),
		zap.Int("roster_size", len(roster)))
	return sess, nil
}

// End is idempotent; ending an already-ended session is a no-op. The absentee
// sweep runs exactly once, on the active->inactive transition, and is skipped
// for superseded sessions so a regenerated lecture is not double-counted.
func (m *Manager) End(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.store.SessionByID(sessionID)
	if !ok {
		return ErrSessionNotFound
	}
	if !sess.IsActive {
		return nil
	}

	sess.IsActive = false
	sess.EndTime = m.now().Format("15:04")
	if err := m.store.UpdateSession(sess); err != nil {
		return err
	}
	m.logger.Info("session ended", zap.String("session_id", sess.ID))

	if latest, ok := m.store.LatestSessionForSubject(sess.SubjectID); ok && latest.ID != sess.ID {
		m.logger.Info("superseded session closed without absentee sweep",
			zap.String("session_id", sess.ID),
			zap.String("superseded_by", latest.ID))
		return nil
	}
	if m.sweeper != nil {
		return m.sweeper.SweepAbsentees(sess)
	}
	return nil
}
