package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
)

// StorageKey is the fixed key the snapshot document lives under, both in the
// local file and in the remote mirror.
const StorageKey = "qr_attendance_data"

var ErrNotFound = errors.New("not found")

// Mirror replicates the whole snapshot to a remote store for multi-device
// visibility. Pushes are best effort; a failure never blocks a local write.
type Mirror interface {
	Push(ctx context.Context, key string, doc models.Document) error
	Pull(ctx context.Context, key string) (*models.Document, error)
}

// Store owns the five collections. Every mutation is a full
// read-modify-write-persist cycle under one mutex: copy the document, apply
// the change, write the local file, enqueue a mirror push. Racing mutations
// are last-write-wins; that is an explicit non-goal of consistency here.
type Store struct {
	mu     sync.Mutex
	path   string
	doc    models.Document
	mirror Mirror
	logger *zap.Logger

	pushCh chan models.Document
	done   chan struct{}
}

func Open(path string, mirror Mirror, logger *zap.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		mirror: mirror,
		logger: logger,
		pushCh: make(chan models.Document, 1),
		done:   make(chan struct{}),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	go s.mirrorLoop()
	return s, nil
}

func (s *Store) Close() {
	close(s.done)
}

// load reads the local snapshot, falling back to the mirror and then to the
// seed dataset on first run.
func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if err == nil {
		var doc models.Document
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("decode snapshot %s: %w", s.path, err)
		}
		s.doc = doc
		return nil
	}
	if !os.IsNotExist(err) {
		return err
	}

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		remote, err := s.mirror.Pull(ctx, StorageKey)
		cancel()
		if err != nil {
			s.logger.Warn("mirror pull failed, starting from seed data", zap.Error(err))
		} else if remote != nil {
			s.doc = *remote
			return s.writeLocal(s.doc)
		}
	}

	s.doc = Seed()
	if err := s.writeLocal(s.doc); err != nil {
		return err
	}
	s.enqueuePush(s.doc.Clone())
	return nil
}

func (s *Store) writeLocal(doc models.Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// enqueuePush hands the latest snapshot to the mirror worker, replacing any
// still-queued older one. Only the newest snapshot matters.
func (s *Store) enqueuePush(doc models.Document) {
	select {
	case s.pushCh <- doc:
	default:
		select {
		case <-s.pushCh:
		default:
		}
		s.pushCh <- doc
	}
}

func (s *Store) mirrorLoop() {
	for {
		select {
		case doc := <-s.pushCh:
			if s.mirror == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := s.mirror.Push(ctx, StorageKey, doc)
			cancel()
			if err != nil {
				s.logger.Warn("mirror push failed, local snapshot is still authoritative", zap.Error(err))
			}
		case <-s.done:
			return
		}
	}
}

// update runs one read-modify-write-persist cycle.
func (s *Store) update(fn func(doc *models.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.writeLocal(next); err != nil {
		return fmt.Errorf("persist snapshot: %w", err)
	}
	s.doc = next
	s.enqueuePush(next.Clone())
	return nil
}

// Reset discards everything and reseeds the demo dataset.
func (s *Store) Reset() error {
	return s.update(func(doc *models.Document) error {
		*doc = Seed()
		return nil
	})
}

// ----- readers -----

func (s *Store) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.User(nil), s.doc.Users...)
}

func (s *Store) UserByID(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Authenticate is a plain equality match against the stored credentials.
// Passwords are not hashed; hardening is out of scope for this system.
func (s *Store) Authenticate(email, password string, role models.Role) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.Email == email && u.Password == password && u.Role == role {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) StudentsByClass(classID string) []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.User
	for _, u := range s.doc.Users {
		if u.Role == models.RoleStudent && u.ClassID == classID {
			out = append(out, u)
		}
	}
	return out
}

func (s *Store) Classes() []models.ClassSection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ClassSection(nil), s.doc.Classes...)
}

func (s *Store) ClassByID(id string) (models.ClassSection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.doc.Classes {
		if c.ID == id {
			return c, true
		}
	}
	return models.ClassSection{}, false
}

func (s *Store) Subjects() []models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Subject(nil), s.doc.Subjects...)
}

func (s *Store) SubjectByID(id string) (models.Subject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.doc.Subjects {
		if sub.ID == id {
			return sub, true
		}
	}
	return models.Subject{}, false
}

func (s *Store) SubjectsByTeacher(teacherID string) []models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Subject
	for _, sub := range s.doc.Subjects {
		if sub.TeacherID == teacherID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Store) SubjectsByClass(classID string) []models.Subject {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Subject
	for _, sub := range s.doc.Subjects {
		if sub.ClassID == classID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Store) Sessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Session(nil), s.doc.Sessions...)
}

func (s *Store) SessionByID(id string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sess := range s.doc.Sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return models.Session{}, false
}

// LatestSessionForSubject returns the most recently created session for a
// subject. Sessions are appended in creation order, so the last match wins.
func (s *Store) LatestSessionForSubject(subjectID string) (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.doc.Sessions) - 1; i >= 0; i-- {
		if s.doc.Sessions[i].SubjectID == subjectID {
			return s.doc.Sessions[i], true
		}
	}
	return models.Session{}, false
}

func (s *Store) Attendance() []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AttendanceRecord(nil), s.doc.Attendance...)
}

func (s *Store) AttendanceBySession(sessionID string) []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AttendanceRecord
	for _, rec := range s.doc.Attendance {
		if rec.SessionID == sessionID {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store) AttendanceByStudent(studentID string) []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AttendanceRecord
	for _, rec := range s.doc.Attendance {
		if rec.StudentID == studentID {
			out = append(out, rec)
		}
	}
	return out
}

func (s *Store) AttendanceForStudentSubject(studentID, subjectID string) []models.AttendanceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AttendanceRecord
	for _, rec := range s.doc.Attendance {
		if rec.StudentID == studentID && rec.SubjectID == subjectID {
			out = append(out, rec)
		}
	}
	return out
}

// ----- writers -----

func (s *Store) AddUser(u models.User) error {
	return s.update(func(doc *models.Document) error {
		doc.Users = append(doc.Users, u)
		return nil
	})
}

func (s *Store) UpdateUser(u models.User) error {
	return s.update(func(doc *models.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == u.ID {
				doc.Users[i] = u
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) DeleteUser(id string) error {
	return s.update(func(doc *models.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) AddClass(c models.ClassSection) error {
	return s.update(func(doc *models.Document) error {
		doc.Classes = append(doc.Classes, c)
		return nil
	})
}

func (s *Store) DeleteClass(id string) error {
	return s.update(func(doc *models.Document) error {
		for i := range doc.Classes {
			if doc.Classes[i].ID == id {
				doc.Classes = append(doc.Classes[:i], doc.Classes[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) AddSubject(sub models.Subject) error {
	return s.update(func(doc *models.Document) error {
		doc.Subjects = append(doc.Subjects, sub)
		return nil
	})
}

func (s *Store) DeleteSubject(id string) error {
	return s.update(func(doc *models.Document) error {
		for i := range doc.Subjects {
			if doc.Subjects[i].ID == id {
				doc.Subjects = append(doc.Subjects[:i], doc.Subjects[i+1:]...)
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Store) AddSession(sess models.Session) error {
	return s.update(func(doc *models.Document) error {
		doc.Sessions = append(doc.Sessions, sess)
		return nil
	})
}

func (s *Store) UpdateSession(sess models.Session) error {
	return s.update(func(doc *models.Document) error {
		for i := range doc.Sessions {
			if doc.Sessions[i].ID == sess.ID {
				doc.Sessions[i] = sess
				return nil
			}
		}
		return ErrNotFound
	})
}

// AddAttendanceRecord enforces the (sessionId, studentId) uniqueness
// invariant: inserting a duplicate returns the existing record untouched and
// created=false, without writing anything.
func (s *Store) AddAttendanceRecord(rec models.AttendanceRecord) (models.AttendanceRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.doc.Attendance {
		if existing.SessionID == rec.SessionID && existing.StudentID == rec.StudentID {
			return existing, false, nil
		}
	}
	next := s.doc.Clone()
	next.Attendance = append(next.Attendance, rec)
	if err := s.writeLocal(next); err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("persist snapshot: %w", err)
	}
	s.doc = next
	s.enqueuePush(next.Clone())
	return rec, true, nil
}

// UpdateAttendanceRecord is reserved for future correction flows; no current
// caller exercises it.
func (s *Store) UpdateAttendanceRecord(rec models.AttendanceRecord) error {
	return s.update(func(doc *models.Document) error {
		for i := range doc.Attendance {
			if doc.Attendance[i].ID == rec.ID {
				doc.Attendance[i] = rec
				return nil
			}
		}
		return ErrNotFound
	})
}
