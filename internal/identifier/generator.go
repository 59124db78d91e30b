// Package identifier produces ticket and transaction identifiers and
// guards them against storage collisions.
package identifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrIDExhausted is returned when every generation attempt collided with
// an existing identifier. With an 8-hex random suffix this is practically
// unreachable, but callers still have to handle it.
var ErrIDExhausted = errors.New("identifier space exhausted after retries")

const maxAttempts = 5

// NewTicketID returns a ticket identifier: TKT-<yyyymmddhhmmss>-<8 hex>.
func NewTicketID() string {
	return fmt.Sprintf("TKT-%s-%s", time.Now().Format("20060102150405"), randomSuffix())
}

// NewTransactionID returns a transaction identifier: TXN-<unix millis>-<8 hex>.
func NewTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), randomSuffix())
}

func randomSuffix() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// ExistsFunc reports whether an identifier is already taken in storage.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Allocator generates identifiers and verifies uniqueness against storage,
// regenerating on collision up to a small bounded retry count.
type Allocator struct {
	generate func() string
	exists   ExistsFunc
}

// NewAllocator builds an allocator from a generator and a uniqueness check.
func NewAllocator(generate func() string, exists ExistsFunc) *Allocator {
	return &Allocator{generate: generate, exists: exists}
}

// Next returns a fresh identifier that did not exist in storage at check
// time. Returns ErrIDExhausted once the retry budget is spent.
func (a *Allocator) Next(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := a.generate()
		taken, err := a.exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("uniqueness check: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}
