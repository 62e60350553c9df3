// Package review encodes the locking and review-transition rules for goals
// and action plans. Every operation is a pure function over a loaded row:
// it returns the column updates to persist plus a RuleError when the
// transition is not allowed. Nothing here touches the database.
package review

import "github.com/gofiber/fiber/v2"

// RuleError is an expected business refusal, carrying the HTTP status the
// handler should answer with.
type RuleError struct {
	Status  int
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

func conflict(msg string) *RuleError {
	return &RuleError{Status: fiber.StatusConflict, Message: msg}
}

func locked(msg string) *RuleError {
	return &RuleError{Status: fiber.StatusLocked, Message: msg}
}

// decisionLocksEntity: a leader decision unlocks only on a terminal value;
// anything else (including an explicit "Pending") keeps the entity locked.
func decisionLocksEntity(decision string) bool {
	switch decision {
	case "Approved", "Rejected", "Cancelled":
		return false
	default:
		return true
	}
}

// normalizeDecision maps unknown decision values to Pending.
func normalizeDecision(decision string) string {
	switch decision {
	case "Approved", "Rejected", "Cancelled":
		return decision
	default:
		return "Pending"
	}
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
