package handlers

import (
	"net/http"
	"time"

	"investplan/middleware"
	"investplan/models"
	"investplan/services/settlement"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentHandler serves the storefront payment endpoints.
type PaymentHandler struct {
	Service settlement.SettlementService
}

func NewPaymentHandler(svc settlement.SettlementService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

type initiateRequest struct {
	ProductID     string          `json:"productId"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transactionId"`
	UPIID         string          `json:"upiId"`
	PaymentMethod string          `json:"paymentMethod"`
}

type statusResponse struct {
	TransactionID string                   `json:"transactionId"`
	Status        models.TransactionStatus `json:"status"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
}

// InitiatePaymentHandler records a PENDING transaction for the authenticated user.
// The user id always comes from the token, never the body.
func (h *PaymentHandler) InitiatePaymentHandler(c *gin.Context) {
	var req initiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		getLogger(c).Debug("Invalid initiate payload", zap.Error(err))
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	tx, err := h.Service.Initiate(c.Request.Context(), settlement.InitiateRequest{
		UserID:        middleware.UserID(c),
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		UPIID:         req.UPIID,
		PaymentMethod: req.PaymentMethod,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transactionId": tx.TransactionID})
}

// PaymentStatusHandler answers only for the owner or an admin; anyone else sees 404.
func (h *PaymentHandler) PaymentStatusHandler(c *gin.Context) {
	id := c.Param("transactionId")
	ctx := c.Request.Context()

	tx, err := h.Service.GetTransaction(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if tx.UserID != middleware.UserID(c) && !middleware.IsAdmin(c) {
		utils.JSONError(c, http.StatusNotFound, "transaction not found")
		return
	}

	if !tx.Status.IsTerminal() {
		if tx, err = h.Service.CheckStatus(ctx, id); err != nil {
			writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, statusResponse{
		TransactionID: tx.TransactionID,
		Status:        tx.Status,
		CompletedAt:   tx.CompletedAt,
	})
}
