package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/masad-stock/mutech-civil-hrm/internal/events"
	"github.com/masad-stock/mutech-civil-hrm/internal/messaging/kafka"
	"github.com/masad-stock/mutech-civil-hrm/internal/mpesa"
	paymenterrors "github.com/masad-stock/mutech-civil-hrm/internal/payment/errors"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/contextutil"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paymentCounterType = "payment_reference"

// Gateway is the slice of the MPESA client this service needs.
type Gateway interface {
	InitiateSTKPush(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error)
	QuerySTKStatus(ctx context.Context, checkoutRequestID string) (mpesa.STKQueryResult, error)
	InitiateB2C(ctx context.Context, phone string, amount int64, remarks string) (mpesa.B2CResult, error)
}

type Service interface {
	Create(ctx context.Context, userID string, req CreatePaymentRequest) (PaymentResponse, error)
	Disburse(ctx context.Context, initiatorID string, req DisbursePaymentRequest) (PaymentResponse, error)
	GetAll(ctx context.Context, status string) ([]PaymentResponse, error)
	GetMine(ctx context.Context, userID string) ([]PaymentResponse, error)
	GetByID(ctx context.Context, id string) (PaymentResponse, error)
	QueryStatus(ctx context.Context, id string) (PaymentStatusResponse, error)
	Approve(ctx context.Context, id string, approverID string) (PaymentResponse, error)
	Cancel(ctx context.Context, id string, approverID string) (PaymentResponse, error)
	HandleCallback(ctx context.Context, cb mpesa.CallbackResult) error
}

type service struct {
	db      *gorm.DB
	repo    Repository
	counter counter.Repository
	gateway Gateway
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	counterRepo counter.Repository,
	gateway Gateway,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payment.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		gateway: gateway,
		outbox:  outbox,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreatePaymentRequest) (PaymentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if req.Amount <= 0 {
		return PaymentResponse{}, paymenterrors.ErrInvalidAmount
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return PaymentResponse{}, paymenterrors.ErrPaymentNotFound
	}

	nextVal, err := s.counter.GetNextValue(ctx, paymentCounterType)
	if err != nil {
		s.logger.Error("allocate payment reference failed", zap.String("request_id", rid), zap.Error(err))
		return PaymentResponse{}, err
	}

	method := req.Method
	if method == "" {
		method = MethodMpesa
	}

	p := &Payment{
		ID:              uuid.New(),
		ReferenceNumber: fmt.Sprintf("PAY-%06d", nextVal),
		UserID:          uid,
		PhoneNumber:     mpesa.NormalizePhone(req.PhoneNumber),
		Amount:          req.Amount,
		Description:     req.Description,
		Method:          method,
		Status:          StatusPending,
	}
	if req.PayrollID != "" {
		payrollID, err := uuid.Parse(req.PayrollID)
		if err != nil {
			return PaymentResponse{}, paymenterrors.ErrPayrollNotFound
		}
		p.PayrollID = &payrollID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create payment failed", zap.String("request_id", rid), zap.Error(err))
		return PaymentResponse{}, err
	}

	// Bank and cash settlements are record-keeping only; they stay PENDING
	// until an approver confirms the money moved.
	if method != MethodMpesa {
		s.logger.Info("payment recorded",
			zap.String("request_id", rid),
			zap.String("payment_id", p.ID.String()),
			zap.String("reference", p.ReferenceNumber),
			zap.String("method", method),
		)
		return mapToResponse(*p), nil
	}

	result, err := s.gateway.InitiateSTKPush(ctx, p.PhoneNumber, p.Amount, p.ReferenceNumber, p.Description)
	if err != nil {
		// The row stays PENDING: the push never reached the gateway, so
		// an operator can retry or cancel it.
		s.logger.Error("stk push failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("reference", p.ReferenceNumber),
			zap.Error(err),
		)
		return mapToResponse(*p), paymenterrors.ErrGatewayRejected
	}

	p.CheckoutRequestID = result.CheckoutRequestID
	p.MerchantRequestID = result.MerchantRequestID
	if !result.Success {
		p.Status = StatusFailed
		p.ResultDesc = result.Message
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return PaymentResponse{}, err
	}

	s.logger.Info("payment created",
		zap.String("request_id", rid),
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.ReferenceNumber),
		zap.Int64("amount", p.Amount),
		zap.String("status", p.Status),
	)
	return mapToResponse(*p), nil
}

// Disburse pays out from the business shortcode to an employee's phone,
// used for salary settlement. The row stays PENDING until the gateway's
// result notification confirms the transfer.
func (s *service) Disburse(ctx context.Context, initiatorID string, req DisbursePaymentRequest) (PaymentResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if req.Amount <= 0 {
		return PaymentResponse{}, paymenterrors.ErrInvalidAmount
	}

	uid, err := uuid.Parse(initiatorID)
	if err != nil {
		return PaymentResponse{}, paymenterrors.ErrPaymentNotFound
	}

	nextVal, err := s.counter.GetNextValue(ctx, paymentCounterType)
	if err != nil {
		s.logger.Error("allocate payment reference failed", zap.String("request_id", rid), zap.Error(err))
		return PaymentResponse{}, err
	}

	p := &Payment{
		ID:              uuid.New(),
		ReferenceNumber: fmt.Sprintf("PAY-%06d", nextVal),
		UserID:          uid,
		PhoneNumber:     mpesa.NormalizePhone(req.PhoneNumber),
		Amount:          req.Amount,
		Description:     req.Remarks,
		Method:          MethodB2C,
		Status:          StatusPending,
	}
	if req.PayrollID != "" {
		payrollID, err := uuid.Parse(req.PayrollID)
		if err != nil {
			return PaymentResponse{}, paymenterrors.ErrPayrollNotFound
		}
		p.PayrollID = &payrollID
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("create disbursement failed", zap.String("request_id", rid), zap.Error(err))
		return PaymentResponse{}, err
	}

	result, err := s.gateway.InitiateB2C(ctx, p.PhoneNumber, p.Amount, req.Remarks)
	if err != nil {
		s.logger.Error("b2c request failed",
			zap.String("payment_id", p.ID.String()),
			zap.String("reference", p.ReferenceNumber),
			zap.Error(err),
		)
		return mapToResponse(*p), paymenterrors.ErrGatewayRejected
	}

	p.ConversationID = result.ConversationID
	if result.ResponseCode != "0" {
		p.Status = StatusFailed
		p.ResultDesc = result.ResponseDescription
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return PaymentResponse{}, err
	}

	s.logger.Info("disbursement initiated",
		zap.String("request_id", rid),
		zap.String("payment_id", p.ID.String()),
		zap.String("reference", p.ReferenceNumber),
		zap.Int64("amount", p.Amount),
		zap.String("status", p.Status),
	)
	return mapToResponse(*p), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]PaymentResponse, error) {
	rows, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetMine(ctx context.Context, userID string) ([]PaymentResponse, error) {
	rows, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetByID(ctx context.Context, id string) (PaymentResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentResponse{}, paymenterrors.ErrPaymentNotFound
		}
		return PaymentResponse{}, err
	}
	return mapToResponse(*p), nil
}

func (s *service) QueryStatus(ctx context.Context, id string) (PaymentStatusResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaymentStatusResponse{}, paymenterrors.ErrPaymentNotFound
		}
		return PaymentStatusResponse{}, err
	}

	resp := PaymentStatusResponse{Payment: mapToResponse(*p)}
	if p.CheckoutRequestID == "" || p.IsTerminal() {
		return resp, nil
	}

	result, err := s.gateway.QuerySTKStatus(ctx, p.CheckoutRequestID)
	if err != nil {
		s.logger.Warn("query stk status failed",
			zap.String("payment_id", id),
			zap.Error(err),
		)
		return resp, nil
	}

	resp.GatewayResult = result.ResultCode
	resp.GatewayDesc = result.ResultDesc
	return resp, nil
}

// Approve completes a pending payment by hand, for settlements made outside
// the gateway (cash, bank transfer).
func (s *service) Approve(ctx context.Context, id string, approverID string) (PaymentResponse, error) {
	return s.finalize(ctx, id, approverID, StatusCompleted)
}

func (s *service) Cancel(ctx context.Context, id string, approverID string) (PaymentResponse, error) {
	return s.finalize(ctx, id, approverID, StatusCancelled)
}

func (s *service) finalize(ctx context.Context, id, approverID, target string) (PaymentResponse, error) {
	var finalized *Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return paymenterrors.ErrPaymentNotFound
			}
			return err
		}
		if !canTransition(p.Status, target) {
			return paymenterrors.ErrInvalidTransition
		}

		p.Status = target
		if approver, err := uuid.Parse(approverID); err == nil {
			p.ApprovedBy = &approver
		}
		if target == StatusCompleted {
			now := time.Now()
			p.CompletedAt = &now
		}

		if err := qtx.Update(ctx, p); err != nil {
			return err
		}

		if target == StatusCompleted {
			if err := s.enqueueLifecycleEvent(ctx, tx, p); err != nil {
				return err
			}
		}

		finalized = p
		return nil
	})
	if err != nil {
		return PaymentResponse{}, err
	}

	s.logger.Info("payment finalized",
		zap.String("payment_id", id),
		zap.String("status", target),
		zap.String("approver_id", approverID),
	)
	return mapToResponse(*finalized), nil
}

// HandleCallback reconciles a gateway callback against the matching payment.
// Unmatched callbacks are dropped; callbacks against a terminal payment are
// ignored so replays cannot flip a settled state.
func (s *service) HandleCallback(ctx context.Context, cb mpesa.CallbackResult) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		p, err := qtx.FindByCheckoutRequestID(ctx, cb.CheckoutRequestID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logger.Warn("callback for unknown checkout request",
					zap.String("checkout_request_id", cb.CheckoutRequestID),
				)
				return nil
			}
			return err
		}

		if p.IsTerminal() {
			s.logger.Info("callback replay ignored",
				zap.String("payment_id", p.ID.String()),
				zap.String("status", p.Status),
			)
			return nil
		}

		p.ResultDesc = cb.ResultDesc
		if cb.Success() {
			// The gateway's transaction date is when the money actually
			// moved; server time is only a fallback.
			completedAt := time.Now()
			if cb.TransactionDate != nil {
				completedAt = *cb.TransactionDate
			}
			p.Status = StatusCompleted
			p.MpesaReceipt = cb.MpesaReceipt
			p.CompletedAt = &completedAt
		} else {
			p.Status = StatusFailed
		}

		if err := qtx.Update(ctx, p); err != nil {
			return err
		}

		if p.Status == StatusCompleted {
			if err := s.enqueueLifecycleEvent(ctx, tx, p); err != nil {
				return err
			}
		}

		s.logger.Info("payment callback processed",
			zap.String("payment_id", p.ID.String()),
			zap.String("reference", p.ReferenceNumber),
			zap.String("status", p.Status),
			zap.Int("result_code", cb.ResultCode),
		)
		return nil
	})
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *gorm.DB, p *Payment) error {
	if s.outbox == nil {
		return nil
	}

	payload := events.PaymentLifecyclePayload{
		PaymentID:       p.ID.String(),
		ReferenceNumber: p.ReferenceNumber,
		Status:          p.Status,
		Amount:          p.Amount,
		MpesaReceipt:    p.MpesaReceipt,
		OccurredAt:      time.Now().UTC(),
	}
	if p.PayrollID != nil {
		payload.PayrollID = p.PayrollID.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "payment",
		AggregateID:   p.ID.String(),
		EventType:     events.PaymentCompletedEventType,
		Topic:         events.PaymentLifecycleTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(p Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                p.ID.String(),
		ReferenceNumber:   p.ReferenceNumber,
		UserID:            p.UserID.String(),
		PhoneNumber:       p.PhoneNumber,
		Amount:            p.Amount,
		Description:       p.Description,
		Method:            p.Method,
		Status:            p.Status,
		CheckoutRequestID: p.CheckoutRequestID,
		ConversationID:    p.ConversationID,
		MpesaReceipt:      p.MpesaReceipt,
		ResultDesc:        p.ResultDesc,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
	}
	if p.PayrollID != nil {
		v := p.PayrollID.String()
		resp.PayrollID = &v
	}
	if p.CompletedAt != nil {
		v := p.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	return resp
}

func mapToListResponse(rows []Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(rows))
	for i, p := range rows {
		res[i] = mapToResponse(p)
	}
	return res
}
