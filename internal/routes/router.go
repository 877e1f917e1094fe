package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sagar04-cloud/Smart-Attendance-System/internal/attendance"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/config"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/handlers"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/middleware"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/models"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/sessions"
	"github.com/sagar04-cloud/Smart-Attendance-System/internal/storage"
)

func NewRouter(cfg *config.Config, store *storage.Store, manager *sessions.Manager, reconciler *attendance.Reconciler, agg *attendance.Aggregator, logger *zap.Logger) *gin.Engine {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	authH := handlers.NewAuthHandler(store, cfg.JWTSecret, logger)
	adminH := handlers.NewAdminHandler(store, agg, logger)
	teacherH := handlers.NewTeacherHandler(store, manager, agg, logger, cfg.ExpiryPollInterval)
	studentH := handlers.NewStudentHandler(store, reconciler, agg, logger)

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.Health)
		api.POST("/auth/login", authH.Login)
	}

	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/users", adminH.ListUsers)
		admin.POST("/users", adminH.CreateUser)
		admin.PUT("/users/:id", adminH.UpdateUser)
		admin.DELETE("/users/:id", adminH.DeleteUser)

		admin.GET("/classes", adminH.ListClasses)
		admin.POST("/classes", adminH.CreateClass)
		admin.DELETE("/classes/:id", adminH.DeleteClass)

		admin.GET("/subjects", adminH.ListSubjects)
		admin.POST("/subjects", adminH.CreateSubject)
		admin.DELETE("/subjects/:id", adminH.DeleteSubject)

		admin.GET("/attendance", adminH.ListAttendance)
		admin.GET("/report.csv", adminH.ReportCSV)
		admin.POST("/reset", adminH.Reset)
	}

	teacher := r.Group("/api/v1/teacher")
	teacher.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.RequireRole(models.RoleTeacher))
	{
		teacher.GET("/subjects", teacherH.ListSubjects)
		teacher.GET("/subjects/:id/report.csv", teacherH.SubjectReportCSV)

		teacher.POST("/sessions", teacherH.CreateSession)
		teacher.GET("/sessions/:id", teacherH.GetSession)
		teacher.POST("/sessions/:id/end", teacherH.EndSession)
		teacher.GET("/sessions/:id/qr", teacherH.SessionQR)
		teacher.GET("/sessions/:id/live", teacherH.LiveRoster)
	}

	student := r.Group("/api/v1/student")
	student.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.RequireRole(models.RoleStudent))
	{
		student.POST("/redeem", studentH.Redeem)
		student.GET("/attendance", studentH.MyAttendance)
		student.GET("/percentages", studentH.MyPercentages)
	}

	return r
}
