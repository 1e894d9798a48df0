package handlers

import (
	"investplan/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Auth middleware.Authenticator

	// Catalog endpoints
	ListProductsHandler gin.HandlerFunc

	// Payment endpoints
	InitiatePaymentHandler gin.HandlerFunc
	PaymentStatusHandler   gin.HandlerFunc

	// User endpoints
	GetProfileHandler gin.HandlerFunc

	// Admin endpoints
	ListTransactionsHandler gin.HandlerFunc
	FailTransactionHandler  gin.HandlerFunc
}
