// Package lockout throttles repeated credential failures against a passport
// so short PINs cannot be brute forced through the disclosure endpoint.
package lockout

import (
	"context"
	"time"
)

const (
	// DefaultThreshold is how many failures within the window trigger a lock.
	DefaultThreshold = 10
	// DefaultWindow bounds how long failures accumulate before they expire.
	DefaultWindow = 5 * time.Minute
)

// Guard tracks credential failures per key and reports when a key is locked
// out. Implementations are advisory: an unreachable backend must fail open.
type Guard interface {
	// Locked reports whether the key has exhausted its failure budget.
	Locked(ctx context.Context, key string) (bool, error)

	// RegisterFailure counts one failed credential attempt.
	RegisterFailure(ctx context.Context, key string) error

	// Clear resets the failure count after a successful attempt.
	Clear(ctx context.Context, key string) error
}

// Nop never locks. Used when no guard is configured.
type Nop struct{}

func (Nop) Locked(context.Context, string) (bool, error)  { return false, nil }
func (Nop) RegisterFailure(context.Context, string) error { return nil }
func (Nop) Clear(context.Context, string) error           { return nil }
