package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user name already taken")

	// Precondition errors — callers abort the calculation, no partial award
	ErrInconsistentSnapshot = errors.New("aggregate snapshot is inconsistent")
	ErrInvalidAction        = errors.New("action is malformed")

	// Configuration errors — caught at startup, never per-request
	ErrInvalidCatalog = errors.New("rule catalog is invalid")

	// Leaderboard errors
	ErrUnknownWindow = errors.New("unknown leaderboard window")
)
