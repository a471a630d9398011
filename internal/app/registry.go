package app

import (
	"github.com/masad-stock/mutech-civil-hrm/internal/attendance"
	"github.com/masad-stock/mutech-civil-hrm/internal/auth"
	"github.com/masad-stock/mutech-civil-hrm/internal/department"
	"github.com/masad-stock/mutech-civil-hrm/internal/employee"
	"github.com/masad-stock/mutech-civil-hrm/internal/leave"
	"github.com/masad-stock/mutech-civil-hrm/internal/messaging/kafka"
	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/mpesa"
	"github.com/masad-stock/mutech-civil-hrm/internal/payment"
	"github.com/masad-stock/mutech-civil-hrm/internal/payroll"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"
	"github.com/masad-stock/mutech-civil-hrm/internal/report"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/counter"
	"github.com/masad-stock/mutech-civil-hrm/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(db)
	attendanceRepo := attendance.NewRepository(db)
	departmentRepo := department.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	leaveRepo := leave.NewRepository(db)
	payrollRepo := payroll.NewRepository(db)
	paymentRepo := payment.NewRepository(db)
	userRepo := user.NewRepository(db)
	counterRepo := counter.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Gateway client ---
	mpesaClient := mpesa.NewClient(mpesa.ConfigFromEnv(), nil)

	// --- Services ---
	authService := auth.NewService(userRepo)
	attendanceService := attendance.NewService(attendanceRepo)
	departmentService := department.NewService(departmentRepo)
	employeeService := employee.NewService(employeeRepo)
	leaveService := leave.NewService(db, leaveRepo)
	payrollService := payroll.NewService(db, payrollRepo, userRepo)
	paymentService := payment.NewService(db, paymentRepo, counterRepo, mpesaClient, outboxRepo)
	userService := user.NewService(db, userRepo, departmentRepo, employeeRepo, rbacRepo, outboxRepo, rdb)
	reportService := report.NewService(paymentRepo, attendanceRepo, leaveRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leave.NewHandler(leaveService)
	payrollHandler := payroll.NewHandler(payrollService)
	paymentHandler := payment.NewHandlerWithRedis(paymentService, rdb)
	userHandler := user.NewHandler(userService)
	reportHandler := report.NewHandler(reportService)
	rbacHandler := rbac.NewHandler(rbacRepo)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID(), middleware.Idempotency(rdb))
	{
		auth.RegisterRoutes(api, authHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rbacService)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService)
		payroll.RegisterRoutes(api, payrollHandler, rbacService)
		payment.RegisterRoutes(api, paymentHandler, rbacService)
		user.RegisterRoutes(api, userHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
