package session

import (
	"errors"
	"fmt"
)

var (
	// ErrNotDurable the change is live in memory but the store did not take it;
	// it will not survive a reload
	ErrNotDurable = errors.New("change applied but not persisted")

	// ErrRolledBack the store did not take the change and memory was restored to match it
	ErrRolledBack = errors.New("change rolled back")
)

// Policy decides what a session does when a write to the store fails
type Policy string

const (
	// PolicyKeep keeps the in-memory change and reports ErrNotDurable
	PolicyKeep Policy = "keep"

	// PolicyRollback restores the previous state and reports ErrRolledBack
	PolicyRollback Policy = "rollback"
)

func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyKeep:
		return PolicyKeep, nil
	case PolicyRollback:
		return PolicyRollback, nil
	default:
		return "", fmt.Errorf("unknown persistence policy %q", s)
	}
}

// IsDegraded reports a write failure the session kept in memory
func IsDegraded(err error) bool {
	return errors.Is(err, ErrNotDurable)
}
