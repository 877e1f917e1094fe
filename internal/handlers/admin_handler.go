package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/attendance"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

type AdminHandler struct {
	Store  *storage.Store
	Agg    *attendance.Aggregator
	Logger *zap.Logger
}

func NewAdminHandler(store *storage.Store, agg *attendance.Aggregator, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Store: store, Agg: agg, Logger: logger}
}

// =========================
// USERS
// =========================

type CreateUserReq struct {
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Role       string `json:"role" binding:"required"`
	Department string `json:"department"`
	ClassID    string `json:"class_id"`
	Semester   int    `json:"semester"`
	RollNo     string `json:"roll_no"`
	Phone      string `json:"phone"`
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req CreateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	role := models.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}
	if role == models.RoleStudent && req.ClassID != "" {
		if _, ok := h.Store.ClassByID(req.ClassID); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "class not found"})
			return
		}
	}
	for _, existing := range h.Store.Users() {
		if existing.Email == req.Email {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already used"})
			return
		}
	}

	u := models.User{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		Department: strings.TrimSpace(req.Department),
		ClassID:    req.ClassID,
		Semester:   req.Semester,
		RollNo:     strings.TrimSpace(req.RollNo),
		Phone:      strings.TrimSpace(req.Phone),
		CreatedAt:  time.Now().Format("2006-01-02"),
	}
	if err := h.Store.AddUser(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": u})
}

type UpdateUserReq struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
	ClassID    string `json:"class_id"`
	Semester   int    `json:"semester"`
	RollNo     string `json:"roll_no"`
	Phone      string `json:"phone"`
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")
	u, ok := h.Store.UserByID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var req UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}
	if req.Name != "" {
		u.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		u.Email = strings.ToLower(strings.TrimSpace(req.Email))
	}
	if req.Password != "" {
		u.Password = req.Password
	}
	if req.Department != "" {
		u.Department = strings.TrimSpace(req.Department)
	}
	if req.ClassID != "" {
		u.ClassID = req.ClassID
	}
	if req.Semester != 0 {
		u.Semester = req.Semester
	}
	if req.RollNo != "" {
		u.RollNo = strings.TrimSpace(req.RollNo)
	}
	if req.Phone != "" {
		u.Phone = strings.TrimSpace(req.Phone)
	}

	if err := h.Store.UpdateUser(u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": u})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Store.DeleteUser(c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users := h.Store.Users()
	if role := c.Query("role"); role != "" {
		filtered := users[:0]
		for _, u := range users {
			if string(u.Role) == role {
				filtered = append(filtered, u)
			}
		}
		users = filtered
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": users})
}

// =========================
// CLASSES
// =========================

type CreateClassReq struct {
	Name       string `json:"name" binding:"required"`
	Department string `json:"department" binding:"required"`
	Semester   int    `json:"semester" binding:"required"`
	Section    string `json:"section" binding:"required"`
}

func (h *AdminHandler) CreateClass(c *gin.Context) {
	var req CreateClassReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}
	cls := models.ClassSection{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Department: strings.TrimSpace(req.Department),
		Semester:   req.Semester,
		Section:    strings.TrimSpace(req.Section),
	}
	if err := h.Store.AddClass(cls); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": cls})
}

func (h *AdminHandler) DeleteClass(c *gin.Context) {
	if err := h.Store.DeleteClass(c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "class not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListClasses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": h.Store.Classes()})
}

// =========================
// SUBJECTS
// =========================

type CreateSubjectReq struct {
	Name      string `json:"name" binding:"required"`
	Code      string `json:"code" binding:"required"`
	ClassID   string `json:"class_id" binding:"required"`
	TeacherID string `json:"teacher_id" binding:"required"`
	Semester  int    `json:"semester"`
}

func (h *AdminHandler) CreateSubject(c *gin.Context) {
	var req CreateSubjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}
	if _, ok := h.Store.ClassByID(req.ClassID); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "class not found"})
		return
	}
	teacher, ok := h.Store.UserByID(req.TeacherID)
	if !ok || teacher.Role != models.RoleTeacher {
		c.JSON(http.StatusBadRequest, gin.H{"error": "teacher not found"})
		return
	}

	sub := models.Subject{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Code:      strings.TrimSpace(req.Code),
		ClassID:   req.ClassID,
		TeacherID: req.TeacherID,
		Semester:  req.Semester,
	}
	if err := h.Store.AddSubject(sub); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": sub})
}

func (h *AdminHandler) DeleteSubject(c *gin.Context) {
	if err := h.Store.DeleteSubject(c.Param("id")); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "subject not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdminHandler) ListSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": h.Store.Subjects()})
}

// =========================
// REPORTING / MAINTENANCE
// =========================

func (h *AdminHandler) ListAttendance(c *gin.Context) {
	records := h.Store.Attendance()
	if subjectID := c.Query("subject_id"); subjectID != "" {
		filtered := records[:0]
		for _, rec := range records {
			if rec.SubjectID == subjectID {
				filtered = append(filtered, rec)
			}
		}
		records = filtered
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": records})
}

func (h *AdminHandler) ReportCSV(c *gin.Context) {
	b, err := attendance.AdminReportCSV(h.Store, h.Agg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "report failed", "detail": err.Error()})
		return
	}
	name := fmt.Sprintf("attendance_report_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv", b)
}

func (h *AdminHandler) Reset(c *gin.Context) {
	if err := h.Store.Reset(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed", "detail": err.Error()})
		return
	}
	h.Logger.Info("store reset to seed data")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
