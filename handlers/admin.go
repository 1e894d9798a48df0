package handlers

import (
	"net/http"
	"strconv"

	"investplan/models"
	"investplan/services/settlement"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	Service settlement.SettlementService
}

func NewAdminHandler(svc settlement.SettlementService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// ListTransactionsHandler supports ?status=, ?userId= and ?limit=.
func (ah *AdminHandler) ListTransactionsHandler(c *gin.Context) {
	var filter models.TransactionFilter
	if s := c.Query("status"); s != "" {
		status, ok := models.ParseTransactionStatus(s)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "invalid status")
			return
		}
		filter.Status = status
	}
	filter.UserID = c.Query("userId")
	if l := c.Query("limit"); l != "" {
		limit, err := strconv.Atoi(l)
		if err != nil || limit < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = limit
	}

	txs, err := ah.Service.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, txs)
}

type failRequest struct {
	Reason string `json:"reason"`
}

func (ah *AdminHandler) FailTransactionHandler(c *gin.Context) {
	var req failRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	tx, err := ah.Service.Fail(c.Request.Context(), c.Param("transactionId"), req.Reason)
	if err != nil {
		writeError(c, err)
		return
	}
	getLogger(c).Info("Admin failed transaction", zap.String("transactionId", tx.TransactionID))
	c.JSON(http.StatusOK, gin.H{"transactionId": tx.TransactionID, "status": tx.Status})
}
