package payment

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/masad-stock/mutech-civil-hrm/internal/middleware"
	"github.com/masad-stock/mutech-civil-hrm/internal/mpesa"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/apperror"
	"github.com/masad-stock/mutech-civil-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("payment.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payment.handler")
	}
	return &Handler{service: service, logger: l}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, logger...)
	h.rdb = rdb
	return h
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	if h.rdb != nil {
		if lockKey := c.GetString(middleware.IdempotencyLockKey); lockKey != "" {
			defer h.rdb.Del(c.Request.Context(), lockKey)
		}
	}

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// Close the idempotency loop: a replay with the same key gets this
	// response back instead of creating a second payment.
	if h.rdb != nil {
		if cacheKey := c.GetString(middleware.IdempotencyCacheKey); cacheKey != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), cacheKey, string(payload), 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Disburse(c *gin.Context) {
	var req DisbursePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Disburse(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context(), c.Query("status"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetMine(c *gin.Context) {
	resp, err := h.service.GetMine(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) QueryStatus(c *gin.Context) {
	resp, err := h.service.QueryStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	resp, err := h.service.Cancel(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// mpesaAck is the body the gateway expects on every callback response.
// Anything other than ResultCode 0 makes the gateway retry the callback.
func mpesaAck(c *gin.Context, code int, desc string) {
	c.JSON(http.StatusOK, gin.H{"ResultCode": code, "ResultDesc": desc})
}

// HandleCallback receives the STK push outcome. The gateway is always acked
// with 200 so it stops retrying; reconciliation problems are our own to
// resolve from logs.
func (h *Handler) HandleCallback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		mpesaAck(c, 1, "Failed")
		return
	}

	cb, err := mpesa.ParseCallback(body)
	if err != nil {
		h.logger.Error("parse mpesa callback failed", zap.Error(err))
		mpesaAck(c, 0, "Success")
		return
	}

	if err := h.service.HandleCallback(c.Request.Context(), cb); err != nil {
		h.logger.Error("handle mpesa callback failed",
			zap.String("checkout_request_id", cb.CheckoutRequestID),
			zap.Error(err),
		)
		mpesaAck(c, 1, "Failed")
		return
	}

	mpesaAck(c, 0, "Success")
}

// HandleTimeout receives B2C queue-timeout notifications. Logged and acked.
func (h *Handler) HandleTimeout(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	h.logger.Warn("mpesa timeout notification", zap.ByteString("body", body))
	mpesaAck(c, 0, "Success")
}

// HandleResult receives B2C result notifications. Logged and acked.
func (h *Handler) HandleResult(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	h.logger.Info("mpesa result notification", zap.ByteString("body", body))
	mpesaAck(c, 0, "Success")
}
