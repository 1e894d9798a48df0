package verifier

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"investplan/models"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// gatewayStatusResponse is the UPI gateway's transaction status body.
type gatewayStatusResponse struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Message   string `json:"message"`
}

// HTTPVerifier asks the UPI gateway's status API about a transaction reference.
type HTTPVerifier struct {
	client *resty.Client
	logger *zap.Logger
}

// HTTPConfig configures HTTPVerifier.
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Retries int
}

func NewHTTPVerifier(cfg HTTPConfig, logger *zap.Logger) *HTTPVerifier {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		}).
		SetHeader("Accept", "application/json")
	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}
	return &HTTPVerifier{client: client, logger: logger}
}

func (v *HTTPVerifier) Verify(ctx context.Context, transactionRef string) (models.VerificationResult, error) {
	var body gatewayStatusResponse
	resp, err := v.client.R().
		SetContext(ctx).
		SetPathParam("ref", transactionRef).
		SetResult(&body).
		Get("/transactions/{ref}/status")
	if err != nil {
		return models.VerificationResult{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		// The gateway has not seen the payment yet.
		return models.VerificationResult{}, nil
	case resp.IsError():
		return models.VerificationResult{}, fmt.Errorf("%w: gateway returned %s", ErrUnavailable, resp.Status())
	}

	result := mapGatewayStatus(body.Status)
	result.GatewayRef = body.Reference
	if !result.Definitive && !isPendingStatus(body.Status) {
		v.logger.Warn("verifier: unrecognized gateway status, treating as inconclusive",
			zap.String("transactionId", transactionRef),
			zap.String("gatewayStatus", body.Status))
	}
	return result, nil
}

func mapGatewayStatus(status string) models.VerificationResult {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "SUCCESS", "COMPLETED", "PAID", "CAPTURED":
		return models.VerificationResult{Paid: true, Definitive: true}
	case "FAILED", "DECLINED", "EXPIRED", "CANCELLED", "REJECTED":
		return models.VerificationResult{Paid: false, Definitive: true}
	}
	return models.VerificationResult{}
}

func isPendingStatus(status string) bool {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "PENDING", "INITIATED", "PROCESSING":
		return true
	}
	return false
}
