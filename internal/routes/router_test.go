package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/attendance"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/config"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/sessions"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.Open(filepath.Join(t.TempDir(), "attendance.json"), nil, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "test-secret",
		SessionTTL:         5 * time.Minute,
		ExpiryPollInterval: time.Second,
	}

	logger := zap.NewNop()
	manager := sessions.NewManager(store, logger, cfg.SessionTTL)
	reconciler := attendance.NewReconciler(store, logger, attendance.Options{SessionTTL: cfg.SessionTTL})
	manager.SetSweeper(reconciler)
	agg := attendance.NewAggregator(store)

	return NewRouter(cfg, store, manager, reconciler, agg, logger)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	resp := map[string]any{}
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func login(t *testing.T, r *gin.Engine, email, password, role string) string {
	t.Helper()
	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": email, "password": password, "role": role,
	})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)
	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", resp["status"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "anita@university.edu", "password": "wrong", "role": "teacher",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// valid credentials under the wrong role are also rejected
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"email": "anita@university.edu", "password": "teacher123", "role": "admin",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleGuards(t *testing.T) {
	r := newTestRouter(t)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/teacher/subjects", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	student := login(t, r, "priya@student.edu", "student123", "student")
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/teacher/subjects", student, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", student, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

// Full lecture flow: the teacher opens a session, a student scans in, the
// teacher closes the session and the sweep back-fills the rest of the class.
func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)
	teacher := login(t, r, "anita@university.edu", "teacher123", "teacher")
	student := login(t, r, "priya@student.edu", "student123", "student")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions", teacher, gin.H{"subject_id": "sub-1"})
	require.Equal(t, http.StatusOK, w.Code)
	sess := resp["session"].(map[string]any)
	sessID := sess["id"].(string)
	qrToken := sess["qrCode"].(string)
	require.True(t, sess["isActive"].(bool))
	require.Len(t, resp["roster"], 4)

	// the QR payload renders as a PNG
	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/teacher/sessions/"+sessID+"/qr", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/student/redeem", student, gin.H{"token": qrToken})
	require.Equal(t, http.StatusOK, w.Code)
	rec := resp["record"].(map[string]any)
	require.Equal(t, "present", rec["status"])
	require.Equal(t, "Data Structures & Algorithms", resp["subject"])
	recID := rec["id"].(string)

	// scanning again returns the original record
	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/student/redeem", student, gin.H{"token": qrToken})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, recID, resp["record"].(map[string]any)["id"])

	// the roster now shows one present student
	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/teacher/sessions/"+sessID, teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	present := 0
	for _, e := range resp["roster"].([]any) {
		if e.(map[string]any)["present"].(bool) {
			present++
		}
	}
	require.Equal(t, 1, present)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions/"+sessID+"/end", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// ending twice is a no-op
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions/"+sessID+"/end", teacher, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// redeeming after the end is rejected
	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/student/redeem", login(t, r, "rahul@student.edu", "student123", "student"), gin.H{"token": qrToken})
	require.Equal(t, http.StatusGone, w.Code)
	require.Equal(t, "SessionEnded", resp["code"])

	// the sweep back-filled the three students who never scanned
	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/student/percentages", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["subjects"], 3)
	require.Equal(t, float64(33), resp["overall"])

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/student/attendance", student, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 1)
}

func TestCreateSessionErrors(t *testing.T) {
	r := newTestRouter(t)
	teacher := login(t, r, "anita@university.edu", "teacher123", "teacher")

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions", teacher, gin.H{"subject_id": "sub-404"})
	require.Equal(t, http.StatusNotFound, w.Code)

	// sub-2 belongs to teacher-2
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions", teacher, gin.H{"subject_id": "sub-2"})
	require.Equal(t, http.StatusForbidden, w.Code)

	// sessions of another teacher are not reachable either
	other := login(t, r, "vikram@university.edu", "teacher123", "teacher")
	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions", other, gin.H{"subject_id": "sub-2"})
	require.Equal(t, http.StatusOK, w.Code)
	sessID := resp["session"].(map[string]any)["id"].(string)
	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions/"+sessID+"/end", teacher, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRedeemErrorCodes(t *testing.T) {
	r := newTestRouter(t)
	student := login(t, r, "priya@student.edu", "student123", "student")

	w, resp := doJSON(t, r, http.MethodPost, "/api/v1/student/redeem", student, gin.H{"token": "{broken"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "MalformedToken", resp["code"])

	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/student/redeem", student, gin.H{"token": "sess-404"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "SessionNotFound", resp["code"])

	// a student from another class cannot scan into this one
	teacher := login(t, r, "anita@university.edu", "teacher123", "teacher")
	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/teacher/sessions", teacher, gin.H{"subject_id": "sub-1"})
	require.Equal(t, http.StatusOK, w.Code)
	token := resp["session"].(map[string]any)["qrCode"].(string)

	outsider := login(t, r, "neha@student.edu", "student123", "student")
	w, resp = doJSON(t, r, http.MethodPost, "/api/v1/student/redeem", outsider, gin.H{"token": token})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "ClassMismatch", resp["code"])
}

func TestAdminEndpoints(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "admin@university.edu", "admin123", "admin")

	w, resp := doJSON(t, r, http.MethodGet, "/api/v1/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 9)

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/admin/users", admin, gin.H{
		"name": "New Student", "email": "new@student.edu", "password": "student123",
		"role": "student", "class_id": "class-1", "roll_no": "CS2024009",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 10)

	w, _ = doJSON(t, r, http.MethodGet, "/api/v1/admin/report.csv", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, w.Body.String(), "Overall %")

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/admin/reset", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, resp = doJSON(t, r, http.MethodGet, "/api/v1/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"], 9)
}
