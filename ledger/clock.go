package ledger

import "time"

// =============================================================================
// CLOCK - Injected time source
// =============================================================================

// Clock supplies "now" for overdue/status derivation. It is injected rather
// than read from a global so recomputation is deterministic and testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock. Production default.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant. For tests and replays.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
