package poller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"investplan/models"

	"github.com/go-resty/resty/v2"
)

type statusBody struct {
	TransactionID string `json:"transactionId"`
	Status        string `json:"status"`
	Error         string `json:"error"`
}

// HTTPChecker asks the payments API for a transaction's status.
type HTTPChecker struct {
	client *resty.Client
}

func NewHTTPChecker(baseURL, token string, timeout time.Duration) *HTTPChecker {
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &HTTPChecker{client: c}
}

func (h *HTTPChecker) Check(ctx context.Context, transactionID string) (models.TransactionStatus, error) {
	var body statusBody
	resp, err := h.client.R().
		SetContext(ctx).
		SetPathParam("transactionId", transactionID).
		SetResult(&body).
		SetError(&body).
		Get("/api/payments/status/{transactionId}")
	if err != nil {
		return "", fmt.Errorf("status request: %w", err)
	}
	switch resp.StatusCode() {
	case http.StatusOK:
	case http.StatusNotFound:
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("status request: %s: %s", resp.Status(), body.Error)
	}

	status, ok := models.ParseTransactionStatus(body.Status)
	if !ok {
		return "", fmt.Errorf("unexpected status %q", body.Status)
	}
	return status, nil
}
