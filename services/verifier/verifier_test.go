package verifier

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"investplan/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func gateway(t *testing.T, handler http.HandlerFunc) *HTTPVerifier {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPVerifier(HTTPConfig{
		BaseURL: srv.URL,
		APIKey:  "key-1",
		Timeout: time.Second,
		Retries: 1,
	}, zap.NewNop())
}

func TestHTTPVerifierStatusMapping(t *testing.T) {
	cases := []struct {
		body string
		want models.VerificationResult
	}{
		{`{"status":"SUCCESS","reference":"UTR1"}`, models.VerificationResult{Paid: true, Definitive: true, GatewayRef: "UTR1"}},
		{`{"status":"completed"}`, models.VerificationResult{Paid: true, Definitive: true}},
		{`{"status":"FAILED"}`, models.VerificationResult{Definitive: true}},
		{`{"status":"EXPIRED"}`, models.VerificationResult{Definitive: true}},
		{`{"status":"PENDING"}`, models.VerificationResult{}},
		{`{"status":"SOMETHING_NEW"}`, models.VerificationResult{}},
	}
	for _, tc := range cases {
		v := gateway(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/transactions/TXN42/status", r.URL.Path)
			assert.Equal(t, "key-1", r.Header.Get("X-API-Key"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(tc.body))
		})
		got, err := v.Verify(context.Background(), "TXN42")
		require.NoError(t, err, tc.body)
		assert.Equal(t, tc.want, got, tc.body)
	}
}

func TestHTTPVerifierNotFoundIsInconclusive(t *testing.T) {
	v := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	got, err := v.Verify(context.Background(), "TXN42")
	require.NoError(t, err)
	assert.True(t, got.Inconclusive())
}

func TestHTTPVerifierServerErrorIsUnavailable(t *testing.T) {
	var calls int32
	v := gateway(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := v.Verify(context.Background(), "TXN42")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "one retry on 5xx")
}

func TestHTTPVerifierTransportErrorIsUnavailable(t *testing.T) {
	v := NewHTTPVerifier(HTTPConfig{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond}, zap.NewNop())
	_, err := v.Verify(context.Background(), "TXN42")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSimulatedVerifier(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	v := NewSimulatedVerifier(10 * time.Second)
	v.now = func() time.Time { return now }
	ctx := context.Background()

	r, err := v.Verify(ctx, "A")
	require.NoError(t, err)
	assert.True(t, r.Inconclusive())

	now = now.Add(10 * time.Second)
	r, err = v.Verify(ctx, "A")
	require.NoError(t, err)
	assert.True(t, r.Paid)
	assert.Equal(t, "SIM-A", r.GatewayRef)

	v.Set("B", models.VerificationResult{Definitive: true})
	r, err = v.Verify(ctx, "B")
	require.NoError(t, err)
	assert.False(t, r.Paid)
	assert.True(t, r.Definitive)
}
