package order

import "errors"

// Placement validation errors. These are the only errors a caller sees
// synchronously besides a failed sell-side approval; everything that
// happens inside a monitor tick stays inside the monitor.
var (
	ErrInvalidToken  = errors.New("invalid token address")
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidPrice  = errors.New("price must be positive")
)
