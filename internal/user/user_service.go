package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/masad-stock/mutech-civil-hrm/internal/department"
	"github.com/masad-stock/mutech-civil-hrm/internal/employee"
	"github.com/masad-stock/mutech-civil-hrm/internal/events"
	"github.com/masad-stock/mutech-civil-hrm/internal/messaging/kafka"
	"github.com/masad-stock/mutech-civil-hrm/internal/rbac"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/contextutil"
	usererrors "github.com/masad-stock/mutech-civil-hrm/internal/user/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	UserOptionsCacheKey = "users:options"
	defaultRoleName     = "employee"
)

type Service interface {
	Register(ctx context.Context, req RegisterUserRequest) (UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	GetByDepartment(ctx context.Context, departmentID string) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	GetOptions(ctx context.Context) ([]UserOption, error)
	Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error)
	ToggleStatus(ctx context.Context, id string, isActive bool) error
}

type service struct {
	db             *gorm.DB
	repo           Repository
	departmentRepo department.Repository
	employeeRepo   employee.Repository
	rbacRepo       rbac.Repository
	outbox         kafka.OutboxRepository
	rdb            *redis.Client
	sf             *singleflight.Group
	logger         *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	departmentRepo department.Repository,
	employeeRepo employee.Repository,
	rbacRepo rbac.Repository,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:             db,
		repo:           repo,
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
		rbacRepo:       rbacRepo,
		outbox:         outbox,
		rdb:            rdb,
		sf:             &singleflight.Group{},
		logger:         l,
	}
}

// NextEmployeeNumber derives the next number in a department sequence from
// the current maximum, e.g. ("ENGM", "ENGM0007") -> "ENGM0008". An empty
// current maximum starts the sequence at 0001.
func NextEmployeeNumber(prefix, currentMax string) string {
	if currentMax == "" || !strings.HasPrefix(currentMax, prefix) {
		return fmt.Sprintf("%s%04d", prefix, 1)
	}
	seq, err := strconv.Atoi(strings.TrimPrefix(currentMax, prefix))
	if err != nil {
		return fmt.Sprintf("%s%04d", prefix, 1)
	}
	return fmt.Sprintf("%s%04d", prefix, seq+1)
}

func (s *service) Register(ctx context.Context, req RegisterUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("register user requested",
		zap.String("request_id", rid),
		zap.String("email", req.Email),
		zap.String("department_id", req.DepartmentID),
	)

	dept, err := s.departmentRepo.FindByID(ctx, req.DepartmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrDepartmentNotFound
		}
		return UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	hireDate := time.Now()
	if req.HireDate != "" {
		if parsed, err := time.Parse("2006-01-02", req.HireDate); err == nil {
			hireDate = parsed
		}
	}

	u := &User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Password:     string(hashed),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		JobTitle:     req.JobTitle,
		DepartmentID: dept.ID,
		HireDate:     hireDate,
		BasicSalary:  req.BasicSalary,
		Allowances:   req.Allowances,
		HourlyRate:   req.HourlyRate,
		IsActive:     true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		currentMax, err := qtx.MaxEmployeeNumber(ctx, dept.Code)
		if err != nil {
			return err
		}
		u.EmployeeNumber = NextEmployeeNumber(dept.Code, currentMax)

		if err := qtx.Create(ctx, u); err != nil {
			return err
		}

		profile := &employee.Profile{
			ID:                 uuid.New(),
			UserID:             u.ID,
			AnnualLeaveBalance: 21,
			SickLeaveBalance:   10,
		}
		if err := s.employeeRepo.WithTx(tx).Create(ctx, profile); err != nil {
			return err
		}

		if s.outbox != nil {
			payload, err := json.Marshal(events.EmployeeCreatedPayload{
				UserID:         u.ID.String(),
				EmployeeNumber: u.EmployeeNumber,
				Email:          u.Email,
				DepartmentID:   dept.ID.String(),
				CreatedAt:      time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
				ID:            uuid.NewString(),
				RequestID:     rid,
				AggregateType: "user",
				AggregateID:   u.ID.String(),
				EventType:     events.EmployeeCreatedEventType,
				Topic:         events.EmployeeLifecycleTopic,
				Payload:       payload,
				Status:        kafka.OutboxStatusPending,
			})
		}
		return nil
	})
	if err != nil {
		s.logger.Error("register user failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	roleName := req.Role
	if roleName == "" {
		roleName = defaultRoleName
	}
	if role, err := s.rbacRepo.FindRoleByName(ctx, roleName); err == nil {
		if err := s.rbacRepo.AssignRole(ctx, u.ID, role.ID); err != nil {
			s.logger.Error("assign default role failed",
				zap.String("user_id", u.ID.String()),
				zap.String("role", roleName),
				zap.Error(err),
			)
		}
	} else {
		s.logger.Warn("default role not found, user has no role",
			zap.String("user_id", u.ID.String()),
			zap.String("role", roleName),
		)
	}

	s.invalidateOptionsCache(ctx)

	s.logger.Info("user registered",
		zap.String("request_id", rid),
		zap.String("user_id", u.ID.String()),
		zap.String("employee_number", u.EmployeeNumber),
	)

	u.Department = &UserDepartment{ID: dept.ID, Name: dept.Name, Code: dept.Code}
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByDepartment(ctx context.Context, departmentID string) ([]UserResponse, error) {
	users, err := s.repo.FindByDepartment(ctx, departmentID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(users), nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) GetOptions(ctx context.Context) ([]UserOption, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, UserOptionsCacheKey).Result(); err == nil {
			var resp []UserOption
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(UserOptionsCacheKey, func() (interface{}, error) {
		users, err := s.repo.FindOptions(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := make([]UserOption, len(users))
		for i, u := range users {
			resp[i] = UserOption{
				ID:             u.ID.String(),
				EmployeeNumber: u.EmployeeNumber,
				FullName:       u.FullName(),
			}
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, UserOptionsCacheKey, jsonData, time.Hour)
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]UserOption), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateUserRequest) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.Phone != "" {
		u.Phone = req.Phone
	}
	if req.JobTitle != "" {
		u.JobTitle = req.JobTitle
	}
	if req.BasicSalary != nil {
		u.BasicSalary = *req.BasicSalary
	}
	if req.Allowances != nil {
		u.Allowances = *req.Allowances
	}
	if req.HourlyRate != nil {
		u.HourlyRate = *req.HourlyRate
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update user failed", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, id string, isActive bool) error {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		return mapRepositoryError(err)
	}

	s.invalidateOptionsCache(ctx)
	s.logger.Info("user status changed",
		zap.String("user_id", id),
		zap.Bool("is_active", isActive),
	)
	return nil
}

func (s *service) invalidateOptionsCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, UserOptionsCacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate user options cache",
			zap.Error(err),
			zap.String("key", UserOptionsCacheKey),
		)
	}
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:             u.ID.String(),
		EmployeeNumber: u.EmployeeNumber,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		JobTitle:       u.JobTitle,
		DepartmentID:   u.DepartmentID.String(),
		BasicSalary:    u.BasicSalary,
		Allowances:     u.Allowances,
		HourlyRate:     u.HourlyRate,
		IsActive:       u.IsActive,
	}
	if !u.HireDate.IsZero() {
		resp.HireDate = u.HireDate.Format("2006-01-02")
	}
	if u.Department != nil {
		resp.Department = &UserDepartmentResponse{
			ID:   u.Department.ID.String(),
			Name: u.Department.Name,
			Code: u.Department.Code,
		}
	}
	return resp
}

func mapToListResponse(users []User) []UserResponse {
	res := make([]UserResponse, len(users))
	for i, u := range users {
		res[i] = mapToResponse(u)
	}
	return res
}
