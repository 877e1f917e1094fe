package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/attendance"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/sessions"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type TeacherHandler struct {
	Store        *storage.Store
	Manager      *sessions.Manager
	Agg          *attendance.Aggregator
	Logger       *zap.Logger
	PollInterval time.Duration
}

func NewTeacherHandler(store *storage.Store, manager *sessions.Manager, agg *attendance.Aggregator, logger *zap.Logger, pollInterval time.Duration) *TeacherHandler {
	return &TeacherHandler{Store: store, Manager: manager, Agg: agg, Logger: logger, PollInterval: pollInterval}
}

func (h *TeacherHandler) ListSubjects(c *gin.Context) {
	teacherID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": h.Store.SubjectsByTeacher(teacherID)})
}

type CreateSessionReq struct {
	SubjectID string `json:"subject_id" binding:"required"`
}

func (h *TeacherHandler) CreateSession(c *gin.Context) {
	var req CreateSessionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	teacherID := c.GetString("user_id")
	sess, err := h.Manager.Create(req.SubjectID, teacherID)
	if err != nil {
		switch {
		case errors.Is(err, sessions.ErrSubjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		case errors.Is(err, sessions.ErrNotSubjectOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "subject is not taught by you"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session", "detail": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"session": sess,
		"roster":  h.buildRoster(sess),
	})
}

func (h *TeacherHandler) EndSession(c *gin.Context) {
	sess, ok := h.sessionForTeacher(c)
	if !ok {
		return
	}
	if err := h.Manager.End(sess.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to end session", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TeacherHandler) GetSession(c *gin.Context) {
	sess, ok := h.sessionForTeacher(c)
	if !ok {
		return
	}
	// Re-read: End/redeem may have landed since the ownership check.
	sess, _ = h.Store.SessionByID(sess.ID)
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"session": sess,
		"roster":  h.buildRoster(sess),
	})
}

// SessionQR renders the token payload as a scannable PNG.
func (h *TeacherHandler) SessionQR(c *gin.Context) {
	sess, ok := h.sessionForTeacher(c)
	if !ok {
		return
	}
	png, err := qrcode.Encode(sess.QRCode, qrcode.High, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "qr encode failed", "detail": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

type rosterEntry struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	RollNo    string `json:"rollNo"`
	Present   bool   `json:"present"`
}

func (h *TeacherHandler) buildRoster(sess models.Session) []rosterEntry {
	present := make(map[string]bool)
	for _, rec := range h.Store.AttendanceBySession(sess.ID) {
		if rec.Status.Attended() {
			present[rec.StudentID] = true
		}
	}
	roster := []rosterEntry{}
	for _, student := range h.Store.StudentsByClass(sess.ClassID) {
		roster = append(roster, rosterEntry{
			StudentID: student.ID,
			Name:      student.Name,
			RollNo:    student.RollNo,
			Present:   present[student.ID],
		})
	}
	return roster
}

// LiveRoster streams roster snapshots over a websocket on the poll interval
// until the session goes inactive or the client hangs up.
func (h *TeacherHandler) LiveRoster(c *gin.Context) {
	sess, ok := h.sessionForTeacher(c)
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(h.PollInterval)
	defer ticker.Stop()

	for {
		current, ok := h.Store.SessionByID(sess.ID)
		if !ok {
			return
		}
		msg := gin.H{
			"session": current,
			"roster":  h.buildRoster(current),
		}
		if err := conn.WriteJSON(msg); err != nil {
			return
		}
		if !current.IsActive {
			return
		}
		<-ticker.C
	}
}

func (h *TeacherHandler) SubjectReportCSV(c *gin.Context) {
	subject, ok := h.Store.SubjectByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
		return
	}
	if subject.TeacherID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "subject is not taught by you"})
		return
	}
	b, err := attendance.SubjectReportCSV(h.Store, h.Agg, subject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed", "detail": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+subject.Code+`_report.csv"`)
	c.Data(http.StatusOK, "text/csv", b)
}

// sessionForTeacher loads the :id session and rejects sessions owned by
// another teacher. Writes the error response itself on failure.
func (h *TeacherHandler) sessionForTeacher(c *gin.Context) (models.Session, bool) {
	sess, ok := h.Store.SessionByID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return models.Session{}, false
	}
	if sess.TeacherID != c.GetString("user_id") {
		c.JSON(http.StatusForbidden, gin.H{"error": "session belongs to another teacher"})
		return models.Session{}, false
	}
	return sess, true
}
