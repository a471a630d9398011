package department

import (
	"context"
	"errors"
	"strings"

	deperrors "github.com/masad-stock/mutech-civil-hrm/internal/department/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	SeedDefaults(ctx context.Context) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return DepartmentResponse{}, deperrors.ErrDuplicateDepartment
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return DepartmentResponse{}, err
	}

	d := &Department{
		ID:          uuid.New(),
		Name:        req.Name,
		Code:        code,
		Description: req.Description,
		Budget:      req.Budget,
		IsActive:    true,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("create department failed", zap.Error(err))
		return DepartmentResponse{}, err
	}

	s.logger.Info("department created",
		zap.String("department_id", d.ID.String()),
		zap.String("code", d.Code),
	)
	return mapToResponse(*d), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]DepartmentResponse, len(rows))
	for i, d := range rows {
		resp[i] = mapToResponse(d)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, deperrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	return mapToResponse(*d), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, deperrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}

	if req.Name != "" {
		d.Name = req.Name
	}
	if req.Description != "" {
		d.Description = req.Description
	}
	if req.Budget != nil {
		d.Budget = *req.Budget
	}
	if req.ManagerID != nil && *req.ManagerID != "" {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return DepartmentResponse{}, deperrors.ErrInvalidManagerID
		}
		d.ManagerID = &managerID
	}

	if err := s.repo.Update(ctx, d); err != nil {
		s.logger.Error("update department failed",
			zap.String("department_id", id),
			zap.Error(err),
		)
		return DepartmentResponse{}, err
	}

	return mapToResponse(*d), nil
}

// Default departments of the organization; codes double as employee number
// prefixes.
var defaultDepartments = []CreateDepartmentRequest{
	{Name: "Procurement", Code: "PROC", Description: "Procurement and purchasing department"},
	{Name: "Accounts/Human Resources", Code: "ACHR", Description: "Accounting and Human Resources department"},
	{Name: "Spare Shop", Code: "SPAR", Description: "Spare parts and inventory management"},
	{Name: "Engineering Mechanical", Code: "ENGM", Description: "Mechanical engineering department"},
	{Name: "Rentals", Code: "RENT", Description: "Equipment rental management"},
	{Name: "Financial Management", Code: "FINM", Description: "Financial management and planning"},
	{Name: "Sales & Marketing", Code: "SALM", Description: "Sales and marketing department"},
	{Name: "Purchase & Payables", Code: "PURC", Description: "Purchase and accounts payable"},
}

func (s *service) SeedDefaults(ctx context.Context) error {
	for _, req := range defaultDepartments {
		_, err := s.repo.FindByCode(ctx, req.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if _, err := s.Create(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

func mapToResponse(d Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          d.ID.String(),
		Name:        d.Name,
		Code:        d.Code,
		Description: d.Description,
		Budget:      d.Budget,
		IsActive:    d.IsActive,
	}
	if d.ManagerID != nil {
		v := d.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}
