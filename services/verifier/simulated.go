package verifier

import (
	"context"
	"sync"
	"time"

	"investplan/models"
)

// SimulatedVerifier stands in for a gateway during development: a reference is
// reported paid once settleAfter has elapsed since it was first checked.
// Outcomes forced with Set take precedence.
type SimulatedVerifier struct {
	settleAfter time.Duration
	now         func() time.Time

	mu        sync.Mutex
	firstSeen map[string]time.Time
	forced    map[string]models.VerificationResult
}

func NewSimulatedVerifier(settleAfter time.Duration) *SimulatedVerifier {
	return &SimulatedVerifier{
		settleAfter: settleAfter,
		now:         time.Now,
		firstSeen:   make(map[string]time.Time),
		forced:      make(map[string]models.VerificationResult),
	}
}

// Set forces the outcome reported for ref.
func (v *SimulatedVerifier) Set(ref string, result models.VerificationResult) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.forced[ref] = result
}

func (v *SimulatedVerifier) Verify(_ context.Context, ref string) (models.VerificationResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if r, ok := v.forced[ref]; ok {
		return r, nil
	}
	now := v.now()
	first, seen := v.firstSeen[ref]
	if !seen {
		v.firstSeen[ref] = now
		first = now
	}
	if now.Sub(first) >= v.settleAfter {
		return models.VerificationResult{Paid: true, Definitive: true, GatewayRef: "SIM-" + ref}, nil
	}
	return models.VerificationResult{}, nil
}
