package core

import "fmt"

// ValidationError rejects a request before any mutation. The caller can
// correct the input and resubmit. LineID/ArticleID identify the offending
// allocation target when one applies; Pending carries the pending quantity
// observed at validation time so the caller can re-render an accurate retry
// form instead of guessing the cap.
type ValidationError struct {
	Message   string
	LineID    int
	ArticleID int
	Pending   int
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError rejects an operation that is invalid in the entity's current
// state: receiving against an order that is not SENT/PARTIALLY_RECEIVED,
// deleting an order that already has receptions, or registering against an
// article with nothing pending. The caller must refresh and reconsider.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError reports an unknown order/line/article/supplier reference.
// Terminal for the request that carried it.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
