package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/middleware"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

type AuthHandler struct {
	Store  *storage.Store
	Secret string
	Logger *zap.Logger
}

func NewAuthHandler(store *storage.Store, secret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Store: store, Secret: secret, Logger: logger}
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// Login is a plain credential match against the stored user. Not hardened:
// the password round-trips through the snapshot document as-is.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body", "detail": err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	role := models.Role(strings.TrimSpace(req.Role))
	if !role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	u, ok := h.Store.Authenticate(email, req.Password, role)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	claims := middleware.Claims{
		UserID:  u.ID,
		Role:    string(u.Role),
		ClassID: u.ClassID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.Secret))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	h.Logger.Info("user logged in", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"token":  signed,
		"user": gin.H{
			"id":         u.ID,
			"name":       u.Name,
			"email":      u.Email,
			"role":       u.Role,
			"classId":    u.ClassID,
			"department": u.Department,
			"rollNo":     u.RollNo,
		},
	})
}
