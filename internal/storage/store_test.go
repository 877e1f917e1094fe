package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
)

func newTestStore(t *testing.T, mirror Mirror) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "attendance.json"), mirror, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestOpenSeedsOnFirstRun(t *testing.T) {
	s := newTestStore(t, nil)

	require.Len(t, s.Users(), 9)
	require.Len(t, s.Classes(), 3)
	require.Len(t, s.Subjects(), 5)
	require.Empty(t, s.Sessions())
	require.Empty(t, s.Attendance())

	students := s.StudentsByClass("class-1")
	require.Len(t, students, 4)
}

func TestOpenReadsExistingSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attendance.json")

	s, err := Open(path, nil, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.AddClass(models.ClassSection{ID: "class-9", Name: "EE-1A", Department: "Electrical", Semester: 1, Section: "A"}))
	s.Close()

	reopened, err := Open(path, nil, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	cls, ok := reopened.ClassByID("class-9")
	require.True(t, ok)
	require.Equal(t, "EE-1A", cls.Name)
}

func TestAddAttendanceRecordUniqueness(t *testing.T) {
	s := newTestStore(t, nil)

	first := models.AttendanceRecord{
		ID: "rec-1", SessionID: "sess-1", StudentID: "student-1",
		SubjectID: "sub-1", ClassID: "class-1",
		Date: "2025-08-01", Time: "09:05", Status: models.StatusPresent,
	}
	stored, created, err := s.AddAttendanceRecord(first)
	require.NoError(t, err)
	require.True(t, created)
	require.Equal(t, first, stored)

	dup := first
	dup.ID = "rec-2"
	dup.Status = models.StatusAbsent
	stored, created, err = s.AddAttendanceRecord(dup)
	require.NoError(t, err)
	require.False(t, created)
	require.Equal(t, "rec-1", stored.ID)
	require.Equal(t, models.StatusPresent, stored.Status)
	require.Len(t, s.Attendance(), 1)
}

func TestAuthenticatePlainEquality(t *testing.T) {
	s := newTestStore(t, nil)

	u, ok := s.Authenticate("admin@university.edu", "admin123", models.RoleAdmin)
	require.True(t, ok)
	require.Equal(t, "admin-1", u.ID)

	_, ok = s.Authenticate("admin@university.edu", "wrong", models.RoleAdmin)
	require.False(t, ok)

	// role mismatch is a miss even with valid credentials
	_, ok = s.Authenticate("admin@university.edu", "admin123", models.RoleTeacher)
	require.False(t, ok)
}

func TestUpdateDeleteNotFound(t *testing.T) {
	s := newTestStore(t, nil)

	err := s.UpdateUser(models.User{ID: "ghost"})
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, s.DeleteUser("ghost"), ErrNotFound)
	require.ErrorIs(t, s.DeleteClass("ghost"), ErrNotFound)
	require.ErrorIs(t, s.DeleteSubject("ghost"), ErrNotFound)
}

type failingMirror struct{}

func (failingMirror) Push(context.Context, string, models.Document) error {
	return errors.New("mirror unreachable")
}

func (failingMirror) Pull(context.Context, string) (*models.Document, error) {
	return nil, errors.New("mirror unreachable")
}

func TestMirrorFailureDoesNotBlockLocalWrites(t *testing.T) {
	s := newTestStore(t, failingMirror{})

	u := models.User{ID: "u-1", Name: "X", Email: "x@x.edu", Password: "x", Role: models.RoleStudent, ClassID: "class-1"}
	require.NoError(t, s.AddUser(u))

	got, ok := s.UserByID("u-1")
	require.True(t, ok)
	require.Equal(t, "X", got.Name)
}

func TestResetRestoresSeed(t *testing.T) {
	s := newTestStore(t, nil)

	require.NoError(t, s.AddSession(models.Session{ID: "sess-1", SubjectID: "sub-1", ClassID: "class-1", IsActive: true}))
	require.NoError(t, s.Reset())
	require.Empty(t, s.Sessions())
	require.Len(t, s.Users(), 9)

	// the reset snapshot is persisted too
	b, err := os.ReadFile(s.path)
	require.NoError(t, err)
	require.Contains(t, string(b), "admin@university.edu")
}

func TestLatestSessionForSubject(t *testing.T) {
	s := newTestStore(t, nil)

	require.NoError(t, s.AddSession(models.Session{ID: "sess-1", SubjectID: "sub-1"}))
	require.NoError(t, s.AddSession(models.Session{ID: "sess-2", SubjectID: "sub-2"}))
	require.NoError(t, s.AddSession(models.Session{ID: "sess-3", SubjectID: "sub-1"}))

	latest, ok := s.LatestSessionForSubject("sub-1")
	require.True(t, ok)
	require.Equal(t, "sess-3", latest.ID)

	_, ok = s.LatestSessionForSubject("sub-404")
	require.False(t, ok)
}
