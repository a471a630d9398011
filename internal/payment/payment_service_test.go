package payment_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/masad-stock/mutech-civil-hrm/internal/events"
	"github.com/masad-stock/mutech-civil-hrm/internal/messaging/kafka"
	"github.com/masad-stock/mutech-civil-hrm/internal/mpesa"
	"github.com/masad-stock/mutech-civil-hrm/internal/payment"
	paymenterrors "github.com/masad-stock/mutech-civil-hrm/internal/payment/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type fakePaymentRepo struct {
	payment.Repository
	CreateFn                  func(ctx context.Context, p *payment.Payment) error
	FindByIDFn                func(ctx context.Context, id string) (*payment.Payment, error)
	FindByCheckoutRequestIDFn func(ctx context.Context, checkoutRequestID string) (*payment.Payment, error)
	UpdateFn                  func(ctx context.Context, p *payment.Payment) error
}

func (f *fakePaymentRepo) WithTx(tx *gorm.DB) payment.Repository { return f }
func (f *fakePaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	return f.CreateFn(ctx, p)
}
func (f *fakePaymentRepo) FindByID(ctx context.Context, id string) (*payment.Payment, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakePaymentRepo) FindByCheckoutRequestID(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
	return f.FindByCheckoutRequestIDFn(ctx, checkoutRequestID)
}
func (f *fakePaymentRepo) Update(ctx context.Context, p *payment.Payment) error {
	return f.UpdateFn(ctx, p)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeGateway struct {
	InitiateSTKPushFn func(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error)
	QuerySTKStatusFn  func(ctx context.Context, checkoutRequestID string) (mpesa.STKQueryResult, error)
	InitiateB2CFn     func(ctx context.Context, phone string, amount int64, remarks string) (mpesa.B2CResult, error)
}

func (f *fakeGateway) InitiateSTKPush(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error) {
	return f.InitiateSTKPushFn(ctx, phone, amount, accountRef, description)
}
func (f *fakeGateway) QuerySTKStatus(ctx context.Context, checkoutRequestID string) (mpesa.STKQueryResult, error) {
	return f.QuerySTKStatusFn(ctx, checkoutRequestID)
}
func (f *fakeGateway) InitiateB2C(ctx context.Context, phone string, amount int64, remarks string) (mpesa.B2CResult, error) {
	return f.InitiateB2CFn(ctx, phone, amount, remarks)
}

type fakeOutbox struct {
	kafka.OutboxRepository
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return db, mock
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	okGateway := &fakeGateway{
		InitiateSTKPushFn: func(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error) {
			return mpesa.STKPushResult{
				Success:           true,
				CheckoutRequestID: "ws_CO_16032026",
				MerchantRequestID: "mr-1",
				ResponseCode:      "0",
			}, nil
		},
	}

	t.Run("allocates a sequential reference and pushes to the gateway", func(t *testing.T) {
		db, _ := newTestDB(t)

		var created *payment.Payment
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error {
				created = p
				return nil
			},
			UpdateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
		}

		var pushedPhone string
		gateway := &fakeGateway{
			InitiateSTKPushFn: func(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error) {
				pushedPhone = phone
				assert.Equal(t, created.ReferenceNumber, accountRef)
				return mpesa.STKPushResult{Success: true, CheckoutRequestID: "ws_CO_1"}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{next: 41}, gateway, &fakeOutbox{})
		resp, err := svc.Create(ctx, userID, payment.CreatePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      47100,
			Description: "March salary",
		})

		assert.NoError(t, err)
		assert.Equal(t, "PAY-000042", resp.ReferenceNumber)
		assert.Equal(t, "254712345678", pushedPhone)
		assert.Equal(t, payment.MethodMpesa, resp.Method)
		assert.Equal(t, payment.StatusPending, resp.Status)
		assert.Equal(t, "ws_CO_1", resp.CheckoutRequestID)
	})

	t.Run("cash settlement is recorded without touching the gateway", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
		}
		gateway := &fakeGateway{
			InitiateSTKPushFn: func(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error) {
				t.Fatal("a cash settlement must not trigger an STK prompt")
				return mpesa.STKPushResult{}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.Create(ctx, userID, payment.CreatePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      5000,
			Method:      payment.MethodCash,
			Description: "advance repayment in cash",
		})

		assert.NoError(t, err)
		assert.Equal(t, payment.MethodCash, resp.Method)
		assert.Equal(t, payment.StatusPending, resp.Status)
		assert.Empty(t, resp.CheckoutRequestID)
	})

	t.Run("bank settlement waits pending for approval", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, &fakeOutbox{})
		resp, err := svc.Create(ctx, userID, payment.CreatePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      75000,
			Method:      payment.MethodBank,
		})

		assert.NoError(t, err)
		assert.Equal(t, payment.MethodBank, resp.Method)
		assert.Equal(t, payment.StatusPending, resp.Status)
	})

	t.Run("transport failure leaves the payment pending", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				t.Fatal("row must not be rewritten when the push never left")
				return nil
			},
		}
		gateway := &fakeGateway{
			InitiateSTKPushFn: func(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error) {
				return mpesa.STKPushResult{}, errors.New("connection refused")
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.Create(ctx, userID, payment.CreatePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      100,
		})

		assert.ErrorIs(t, err, paymenterrors.ErrGatewayRejected)
		assert.Equal(t, payment.StatusPending, resp.Status)
	})

	t.Run("gateway rejection marks the payment failed", func(t *testing.T) {
		db, _ := newTestDB(t)
		var updated *payment.Payment
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				updated = p
				return nil
			},
		}
		gateway := &fakeGateway{
			InitiateSTKPushFn: func(ctx context.Context, phone string, amount int64, accountRef, description string) (mpesa.STKPushResult, error) {
				return mpesa.STKPushResult{Success: false, ResponseCode: "1", Message: "Invalid PhoneNumber"}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.Create(ctx, userID, payment.CreatePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      100,
		})

		assert.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, resp.Status)
		assert.Equal(t, "Invalid PhoneNumber", updated.ResultDesc)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		db, _ := newTestDB(t)
		svc := payment.NewService(db, &fakePaymentRepo{}, &fakeCounter{}, okGateway, &fakeOutbox{})
		_, err := svc.Create(ctx, userID, payment.CreatePaymentRequest{PhoneNumber: "0712345678", Amount: 0})
		assert.ErrorIs(t, err, paymenterrors.ErrInvalidAmount)
	})
}

func TestDisburse(t *testing.T) {
	ctx := context.Background()
	initiatorID := uuid.NewString()

	t.Run("pays out over b2c and stays pending for the result", func(t *testing.T) {
		db, _ := newTestDB(t)
		payrollID := uuid.NewString()

		var created *payment.Payment
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error {
				created = p
				return nil
			},
			UpdateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
		}

		var paidPhone string
		gateway := &fakeGateway{
			InitiateB2CFn: func(ctx context.Context, phone string, amount int64, remarks string) (mpesa.B2CResult, error) {
				paidPhone = phone
				assert.Equal(t, int64(47100), amount)
				return mpesa.B2CResult{ConversationID: "AG_20260316_1234", ResponseCode: "0"}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{next: 99}, gateway, &fakeOutbox{})
		resp, err := svc.Disburse(ctx, initiatorID, payment.DisbursePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      47100,
			Remarks:     "March salary",
			PayrollID:   payrollID,
		})

		assert.NoError(t, err)
		assert.Equal(t, "PAY-000100", resp.ReferenceNumber)
		assert.Equal(t, payment.MethodB2C, resp.Method)
		assert.Equal(t, payment.StatusPending, resp.Status)
		assert.Equal(t, "254712345678", paidPhone)
		assert.Equal(t, "AG_20260316_1234", resp.ConversationID)
		assert.Equal(t, payrollID, created.PayrollID.String())
	})

	t.Run("gateway rejection marks the disbursement failed", func(t *testing.T) {
		db, _ := newTestDB(t)
		var updated *payment.Payment
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				updated = p
				return nil
			},
		}
		gateway := &fakeGateway{
			InitiateB2CFn: func(ctx context.Context, phone string, amount int64, remarks string) (mpesa.B2CResult, error) {
				return mpesa.B2CResult{ResponseCode: "1", ResponseDescription: "Insufficient funds"}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.Disburse(ctx, initiatorID, payment.DisbursePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      47100,
		})

		assert.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, resp.Status)
		assert.Equal(t, "Insufficient funds", updated.ResultDesc)
	})

	t.Run("transport failure leaves the disbursement pending", func(t *testing.T) {
		db, _ := newTestDB(t)
		repo := &fakePaymentRepo{
			CreateFn: func(ctx context.Context, p *payment.Payment) error { return nil },
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				t.Fatal("row must not be rewritten when the request never left")
				return nil
			},
		}
		gateway := &fakeGateway{
			InitiateB2CFn: func(ctx context.Context, phone string, amount int64, remarks string) (mpesa.B2CResult, error) {
				return mpesa.B2CResult{}, errors.New("connection refused")
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.Disburse(ctx, initiatorID, payment.DisbursePaymentRequest{
			PhoneNumber: "0712345678",
			Amount:      47100,
		})

		assert.ErrorIs(t, err, paymenterrors.ErrGatewayRejected)
		assert.Equal(t, payment.StatusPending, resp.Status)
	})
}

func TestHandleCallback(t *testing.T) {
	ctx := context.Background()

	pendingPayment := func() *payment.Payment {
		payrollID := uuid.New()
		return &payment.Payment{
			ID:                uuid.New(),
			ReferenceNumber:   "PAY-000042",
			UserID:            uuid.New(),
			Amount:            47100,
			Status:            payment.StatusPending,
			CheckoutRequestID: "ws_CO_16032026",
			PayrollID:         &payrollID,
		}
	}

	t.Run("successful callback completes the payment and queues the event", func(t *testing.T) {
		db, mock := newTestDB(t)
		p := pendingPayment()

		var updated *payment.Payment
		repo := &fakePaymentRepo{
			FindByCheckoutRequestIDFn: func(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
				return p, nil
			},
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				updated = p
				return nil
			},
		}
		outbox := &fakeOutbox{}

		mock.ExpectBegin()
		mock.ExpectCommit()

		settledAt := time.Date(2026, 3, 16, 8, 5, 0, 0, time.UTC)
		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, outbox)
		err := svc.HandleCallback(ctx, mpesa.CallbackResult{
			CheckoutRequestID: "ws_CO_16032026",
			ResultCode:        0,
			ResultDesc:        "The service request is processed successfully.",
			Amount:            47100,
			MpesaReceipt:      "RCH4X8T2LQ",
			TransactionDate:   &settledAt,
		})

		assert.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, updated.Status)
		assert.Equal(t, "RCH4X8T2LQ", updated.MpesaReceipt)
		// Completion is stamped with the gateway's settlement time, not ours.
		assert.Equal(t, settledAt, *updated.CompletedAt)

		assert.Len(t, outbox.created, 1)
		event := outbox.created[0]
		assert.Equal(t, events.PaymentLifecycleTopic, event.Topic)
		assert.Equal(t, events.PaymentCompletedEventType, event.EventType)

		var payload events.PaymentLifecyclePayload
		assert.NoError(t, json.Unmarshal(event.Payload, &payload))
		assert.Equal(t, p.ID.String(), payload.PaymentID)
		assert.Equal(t, p.PayrollID.String(), payload.PayrollID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed callback marks the payment failed without an event", func(t *testing.T) {
		db, mock := newTestDB(t)
		p := pendingPayment()

		var updated *payment.Payment
		repo := &fakePaymentRepo{
			FindByCheckoutRequestIDFn: func(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
				return p, nil
			},
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				updated = p
				return nil
			},
		}
		outbox := &fakeOutbox{}

		mock.ExpectBegin()
		mock.ExpectCommit()

		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, outbox)
		err := svc.HandleCallback(ctx, mpesa.CallbackResult{
			CheckoutRequestID: "ws_CO_16032026",
			ResultCode:        1032,
			ResultDesc:        "Request cancelled by user",
		})

		assert.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, updated.Status)
		assert.Equal(t, "Request cancelled by user", updated.ResultDesc)
		assert.Empty(t, outbox.created)
	})

	t.Run("unknown checkout request is dropped", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := &fakePaymentRepo{
			FindByCheckoutRequestIDFn: func(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		mock.ExpectBegin()
		mock.ExpectCommit()

		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, &fakeOutbox{})
		err := svc.HandleCallback(ctx, mpesa.CallbackResult{CheckoutRequestID: "ws_CO_unknown", ResultCode: 0})
		assert.NoError(t, err)
	})

	t.Run("replay against a settled payment is ignored", func(t *testing.T) {
		db, mock := newTestDB(t)
		p := pendingPayment()
		p.Status = payment.StatusCompleted
		p.MpesaReceipt = "RCH4X8T2LQ"

		repo := &fakePaymentRepo{
			FindByCheckoutRequestIDFn: func(ctx context.Context, checkoutRequestID string) (*payment.Payment, error) {
				return p, nil
			},
			UpdateFn: func(ctx context.Context, p *payment.Payment) error {
				t.Fatal("settled payment must not be rewritten")
				return nil
			},
		}

		mock.ExpectBegin()
		mock.ExpectCommit()

		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, &fakeOutbox{})
		err := svc.HandleCallback(ctx, mpesa.CallbackResult{
			CheckoutRequestID: "ws_CO_16032026",
			ResultCode:        1032,
		})
		assert.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, p.Status)
	})
}

func TestApproveCancel(t *testing.T) {
	ctx := context.Background()
	approverID := uuid.NewString()

	t.Run("manual approval completes and keeps the original method", func(t *testing.T) {
		db, mock := newTestDB(t)
		p := &payment.Payment{ID: uuid.New(), UserID: uuid.New(), Status: payment.StatusPending, Method: payment.MethodBank}

		repo := &fakePaymentRepo{
			FindByIDFn: func(ctx context.Context, id string) (*payment.Payment, error) { return p, nil },
			UpdateFn:   func(ctx context.Context, p *payment.Payment) error { return nil },
		}
		outbox := &fakeOutbox{}

		mock.ExpectBegin()
		mock.ExpectCommit()

		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, outbox)
		resp, err := svc.Approve(ctx, p.ID.String(), approverID)

		assert.NoError(t, err)
		assert.Equal(t, payment.StatusCompleted, resp.Status)
		assert.Equal(t, payment.MethodBank, resp.Method)
		assert.Equal(t, approverID, p.ApprovedBy.String())
		assert.Len(t, outbox.created, 1)
	})

	t.Run("cancel is only valid from pending", func(t *testing.T) {
		db, mock := newTestDB(t)
		p := &payment.Payment{ID: uuid.New(), UserID: uuid.New(), Status: payment.StatusCompleted}

		repo := &fakePaymentRepo{
			FindByIDFn: func(ctx context.Context, id string) (*payment.Payment, error) { return p, nil },
		}

		mock.ExpectBegin()
		mock.ExpectRollback()

		svc := payment.NewService(db, repo, &fakeCounter{}, &fakeGateway{}, &fakeOutbox{})
		_, err := svc.Cancel(ctx, p.ID.String(), approverID)
		assert.ErrorIs(t, err, paymenterrors.ErrInvalidTransition)
	})
}

func TestQueryStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("terminal payment skips the gateway", func(t *testing.T) {
		db, _ := newTestDB(t)
		p := &payment.Payment{
			ID:                uuid.New(),
			UserID:            uuid.New(),
			Status:            payment.StatusCompleted,
			CheckoutRequestID: "ws_CO_1",
		}
		repo := &fakePaymentRepo{
			FindByIDFn: func(ctx context.Context, id string) (*payment.Payment, error) { return p, nil },
		}
		gateway := &fakeGateway{
			QuerySTKStatusFn: func(ctx context.Context, checkoutRequestID string) (mpesa.STKQueryResult, error) {
				t.Fatal("gateway must not be queried for a settled payment")
				return mpesa.STKQueryResult{}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.QueryStatus(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.Empty(t, resp.GatewayResult)
	})

	t.Run("pending payment is checked with the gateway", func(t *testing.T) {
		db, _ := newTestDB(t)
		p := &payment.Payment{
			ID:                uuid.New(),
			UserID:            uuid.New(),
			Status:            payment.StatusPending,
			CheckoutRequestID: "ws_CO_1",
		}
		repo := &fakePaymentRepo{
			FindByIDFn: func(ctx context.Context, id string) (*payment.Payment, error) { return p, nil },
		}
		gateway := &fakeGateway{
			QuerySTKStatusFn: func(ctx context.Context, checkoutRequestID string) (mpesa.STKQueryResult, error) {
				assert.Equal(t, "ws_CO_1", checkoutRequestID)
				return mpesa.STKQueryResult{ResultCode: "1032", ResultDesc: "Request cancelled by user"}, nil
			},
		}

		svc := payment.NewService(db, repo, &fakeCounter{}, gateway, &fakeOutbox{})
		resp, err := svc.QueryStatus(ctx, p.ID.String())
		assert.NoError(t, err)
		assert.Equal(t, "1032", resp.GatewayResult)
	})
}
