package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/attendance"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

type StudentHandler struct {
	Store      *storage.Store
	Reconciler *attendance.Reconciler
	Agg        *attendance.Aggregator
	Logger     *zap.Logger
}

func NewStudentHandler(store *storage.Store, reconciler *attendance.Reconciler, agg *attendance.Aggregator, logger *zap.Logger) *StudentHandler {
	return &StudentHandler{Store: store, Reconciler: reconciler, Agg: agg, Logger: logger}
}

type RedeemReq struct {
	// Token is either the scanned QR payload or a manually entered session
	// code.
	Token string `json:"token" binding:"required"`
}

func redeemStatus(code attendance.RedeemCode) int {
	switch code {
	case attendance.CodeMalformedToken:
		return http.StatusBadRequest
	case attendance.CodeSessionNotFound:
		return http.StatusNotFound
	case attendance.CodeSessionEnded, attendance.CodeSessionExpired:
		return http.StatusGone
	case attendance.CodeClassMismatch:
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}

func (h *StudentHandler) Redeem(c *gin.Context) {
	var req RedeemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	studentID := c.GetString("user_id")
	rec, err := h.Reconciler.Redeem(req.Token, studentID)
	if err != nil {
		var rerr *attendance.RedeemError
		if errors.As(err, &rerr) {
			c.JSON(redeemStatus(rerr.Code), gin.H{"error": rerr.Reason, "code": rerr.Code})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark attendance", "detail": err.Error()})
		return
	}

	subjectName := ""
	if subject, ok := h.Store.SubjectByID(rec.SubjectID); ok {
		subjectName = subject.Name
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"record":  rec,
		"subject": subjectName,
	})
}

func (h *StudentHandler) MyAttendance(c *gin.Context) {
	studentID := c.GetString("user_id")
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": h.Store.AttendanceByStudent(studentID)})
}

func (h *StudentHandler) MyPercentages(c *gin.Context) {
	studentID := c.GetString("user_id")
	student, ok := h.Store.UserByID(studentID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "student not found"})
		return
	}
	breakdown := h.Agg.Breakdown(studentID, student.ClassID)
	overall := h.Agg.Overall(studentID, h.Store.SubjectsByClass(student.ClassID))
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"subjects": breakdown,
		"overall":  overall,
	})
}
