package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	app "github.com/payhub-id/payment-service/internal/application"
	"github.com/payhub-id/payment-service/internal/domain/repository"
	"github.com/payhub-id/payment-service/pkg/response"
	"github.com/payhub-id/payment-service/pkg/validation"
)

type TransactionHandler struct {
	Svc    *app.TransferService
	Logger *logrus.Logger
}

func NewTransactionHandler(svc *app.TransferService, logger *logrus.Logger) *TransactionHandler {
	return &TransactionHandler{Svc: svc, Logger: logger}
}

type transferRequest struct {
	ReceiverEmail string  `json:"receiver_email" binding:"required,email"`
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	Description   string  `json:"description" binding:"omitempty,max=255"`
	RequestID     string  `json:"request_id" binding:"omitempty,uuid"`
}

// List returns the caller's transaction history, newest first.
func (h *TransactionHandler) List(c *gin.Context) {
	uid := c.GetString("userID")
	txns, err := h.Svc.History(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list transactions failed")
		response.Error[any](c, http.StatusInternalServerError, "failed to load transactions", nil)
		return
	}
	response.Success(c, http.StatusOK, txns, "transactions", map[string]any{"count": len(txns)})
}

// Create executes a balance transfer from the caller to the receiver.
func (h *TransactionHandler) Create(c *gin.Context) {
	uid := c.GetString("userID")
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	txn, err := h.Svc.Transfer(c.Request.Context(), app.TransferInput{
		SenderID:      uid,
		ReceiverEmail: req.ReceiverEmail,
		Amount:        req.Amount,
		Description:   req.Description,
		RequestID:     req.RequestID,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidAmount):
			response.Error[any](c, http.StatusBadRequest, "amount must be a positive number", nil)
		case errors.Is(err, app.ErrReceiverRequired):
			response.Error[any](c, http.StatusBadRequest, "receiver email is required", nil)
		case errors.Is(err, app.ErrBadRequestID):
			response.Error[any](c, http.StatusBadRequest, "request_id must be a valid UUID", nil)
		case errors.Is(err, app.ErrSelfTransfer):
			response.Error[any](c, http.StatusBadRequest, "cannot transfer to your own account", nil)
		case errors.Is(err, app.ErrReceiverNotFound):
			response.Error[any](c, http.StatusNotFound, "receiver not found", nil)
		case errors.Is(err, repository.ErrInsufficientBalance):
			response.Error[any](c, http.StatusBadRequest, "insufficient balance", nil)
		case errors.Is(err, repository.ErrDuplicateRequest):
			response.Error[any](c, http.StatusConflict, "duplicate transfer request", nil)
		case errors.Is(err, repository.ErrCommitConflict):
			response.Error[any](c, http.StatusConflict, "transfer conflicted, please retry", nil)
		case errors.Is(err, repository.ErrCommitTimeout):
			// the commit may or may not have landed; the client must
			// check history before retrying
			response.Error[any](c, http.StatusRequestTimeout, "transfer timed out with unknown outcome", nil)
		default:
			h.Logger.WithError(err).Error("transfer failed")
			response.Error[any](c, http.StatusInternalServerError, "transfer failed", nil)
		}
		return
	}
	response.Success(c, http.StatusCreated, txn, "transfer completed", nil)
}
