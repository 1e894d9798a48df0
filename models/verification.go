package models

// VerificationResult is the verifier's answer for one transaction reference.
// Paid=false with Definitive=false means inconclusive.
type VerificationResult struct {
	Paid       bool   `json:"paid"`
	Definitive bool   `json:"definitive"`
	GatewayRef string `json:"gatewayRef,omitempty"`
}

// Inconclusive reports whether the result must not change the transaction.
func (r VerificationResult) Inconclusive() bool {
	return !r.Paid && !r.Definitive
}
