package employee

import (
	"context"
	"errors"
	"time"

	emperrors "github.com/masad-stock/mutech-civil-hrm/internal/employee/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var validRatings = map[string]bool{
	"excellent":         true,
	"good":              true,
	"satisfactory":      true,
	"needs_improvement": true,
}

type Service interface {
	GetProfile(ctx context.Context, userID string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error)
	RecordReview(ctx context.Context, userID string, req RecordReviewRequest) (ProfileResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetProfile(ctx context.Context, userID string) (ProfileResponse, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, emperrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}
	return mapProfileToResponse(*p), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (ProfileResponse, error) {
	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, emperrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}

	if req.EmergencyContactName != nil {
		p.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.EmergencyContactRelationship != nil {
		p.EmergencyContactRelationship = req.EmergencyContactRelationship
	}
	if req.BankName != nil {
		p.BankName = req.BankName
	}
	if req.BankAccountNumber != nil {
		p.BankAccountNumber = req.BankAccountNumber
	}
	if req.BankBranch != nil {
		p.BankBranch = req.BankBranch
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("update profile failed", zap.String("user_id", userID), zap.Error(err))
		return ProfileResponse{}, err
	}
	return mapProfileToResponse(*p), nil
}

func (s *service) RecordReview(ctx context.Context, userID string, req RecordReviewRequest) (ProfileResponse, error) {
	if !validRatings[req.PerformanceRating] {
		return ProfileResponse{}, emperrors.ErrInvalidRating
	}

	p, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ProfileResponse{}, emperrors.ErrProfileNotFound
		}
		return ProfileResponse{}, err
	}

	now := time.Now()
	p.PerformanceRating = &req.PerformanceRating
	p.LastReviewDate = &now
	if req.NextReviewDate != "" {
		next, err := time.Parse("2006-01-02", req.NextReviewDate)
		if err == nil {
			p.NextReviewDate = &next
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("record review failed", zap.String("user_id", userID), zap.Error(err))
		return ProfileResponse{}, err
	}

	s.logger.Info("performance review recorded",
		zap.String("user_id", userID),
		zap.String("rating", req.PerformanceRating),
	)
	return mapProfileToResponse(*p), nil
}

func mapProfileToResponse(p Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:                           p.ID.String(),
		UserID:                       p.UserID.String(),
		EmergencyContactName:         p.EmergencyContactName,
		EmergencyContactPhone:        p.EmergencyContactPhone,
		EmergencyContactRelationship: p.EmergencyContactRelationship,
		BankName:                     p.BankName,
		BankAccountNumber:            p.BankAccountNumber,
		BankBranch:                   p.BankBranch,
		AnnualLeaveBalance:           p.AnnualLeaveBalance,
		SickLeaveBalance:             p.SickLeaveBalance,
		PerformanceRating:            p.PerformanceRating,
	}
	if p.LastReviewDate != nil {
		v := p.LastReviewDate.Format("2006-01-02")
		resp.LastReviewDate = &v
	}
	if p.NextReviewDate != nil {
		v := p.NextReviewDate.Format("2006-01-02")
		resp.NextReviewDate = &v
	}
	return resp
}
