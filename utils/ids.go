package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var transactionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// NewTransactionID returns a server-generated correlation key.
func NewTransactionID() string {
	return "TXN" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:24])
}

// ValidTransactionID reports whether a client-supplied id is acceptable.
func ValidTransactionID(id string) bool {
	return transactionIDPattern.MatchString(id)
}
