package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrLinkFailed indicates a child record was created but linking it to
// the guardian failed. Match with errors.Is; the concrete
// *LinkFailedError carries the orphaned child's id for retry.
var ErrLinkFailed = errors.New("child created but guardian link failed")

// LinkFailedError reports a partially-completed add-child: the child
// row exists and ChildID identifies it, but no guardian link was
// written. Callers retry with ResumeLink rather than creating a
// duplicate child.
type LinkFailedError struct {
	ChildID uuid.UUID
	Err     error
}

func (e *LinkFailedError) Error() string {
	return fmt.Sprintf("child %s created but guardian link failed: %v", e.ChildID, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause, so
// errors.Is(err, ErrLinkFailed) and errors.Is(err, <store error>) both
// hold.
func (e *LinkFailedError) Unwrap() []error {
	return []error{ErrLinkFailed, e.Err}
}
