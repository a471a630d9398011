package app

import (
	"context"
	"errors"
	"os"

	"github.com/masad-stock/mutech-civil-hrm/internal/attendance"
	"github.com/masad-stock/mutech-civil-hrm/internal/department"
	"github.com/masad-stock/mutech-civil-hrm/internal/employee"
	"github.com/masad-stock/mutech-civil-hrm/internal/leave"
	"github.com/masad-stock/mutech-civil-hrm/internal/payment"
	"github.com/masad-stock/mutech-civil-hrm/internal/payroll"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/connection"
	"github.com/masad-stock/mutech-civil-hrm/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Tables written with raw SQL rather than through gorm entities.
const infraDDL = `
CREATE TABLE IF NOT EXISTS outbox_events (
	id uuid PRIMARY KEY,
	request_id text,
	aggregate_type text NOT NULL,
	aggregate_id uuid NOT NULL,
	event_type text NOT NULL,
	topic text NOT NULL,
	payload jsonb NOT NULL,
	status text NOT NULL DEFAULT 'pending',
	retry_count int NOT NULL DEFAULT 0,
	error_message text,
	next_retry_at timestamptz,
	processed_at timestamptz,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_outbox_events_status ON outbox_events (status, created_at);

CREATE TABLE IF NOT EXISTS sequence_counters (
	counter_type text PRIMARY KEY,
	last_value bigint NOT NULL DEFAULT 0,
	updated_at timestamptz NOT NULL DEFAULT now()
);
`

// RunSeed migrates the schema and loads the static catalogs: permission and
// role definitions, default departments, and an initial admin account when
// ADMIN_EMAIL/ADMIN_PASSWORD are set.
func RunSeed() error {
	logger := zap.L().Named("app.seed")
	ctx := context.Background()

	db, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&rbac.Role{},
		&rbac.Permission{},
		&rbac.UserRole{},
		&rbac.RolePermission{},
		&department.Department{},
		&user.User{},
		&employee.Profile{},
		&attendance.Attendance{},
		&leave.LeaveRequest{},
		&payroll.Payroll{},
		&payment.Payment{},
	); err != nil {
		return err
	}
	if err := db.Exec(infraDDL).Error; err != nil {
		return err
	}
	logger.Info("schema migrated")

	rbacRepo := rbac.NewRepository(db)
	if err := rbac.NewSeeder(rbacRepo).Initialize(ctx); err != nil {
		return err
	}
	logger.Info("rbac catalog seeded")

	departmentRepo := department.NewRepository(db)
	departmentService := department.NewService(departmentRepo)
	if err := departmentService.SeedDefaults(ctx); err != nil {
		return err
	}
	logger.Info("default departments seeded")

	if err := seedAdminUser(ctx, db, rbacRepo, logger); err != nil {
		return err
	}

	return nil
}

func seedAdminUser(ctx context.Context, db *gorm.DB, rbacRepo rbac.Repository, logger *zap.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin user")
		return nil
	}

	userRepo := user.NewRepository(db)
	if _, err := userRepo.FindByEmail(ctx, adminEmail); err == nil {
		logger.Info("admin user already exists", zap.String("email", adminEmail))
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	departmentRepo := department.NewRepository(db)
	dept, err := departmentRepo.FindByCode(ctx, "ACHR")
	if err != nil {
		return err
	}

	employeeRepo := employee.NewRepository(db)

	// Nil outbox: no employee_created event for the bootstrap admin.
	userService := user.NewService(db, userRepo, departmentRepo, employeeRepo, rbacRepo, nil, nil)
	resp, err := userService.Register(ctx, user.RegisterUserRequest{
		Email:        adminEmail,
		Password:     adminPassword,
		FirstName:    "System",
		LastName:     "Administrator",
		JobTitle:     "Administrator",
		DepartmentID: dept.ID.String(),
		Role:         "admin",
	})
	if err != nil {
		return err
	}

	logger.Info("admin user created",
		zap.String("email", adminEmail),
		zap.String("employee_number", resp.EmployeeNumber),
	)
	return nil
}
