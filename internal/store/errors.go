package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in
	// the store. This is the generic version of the entity-specific not
	// found errors below.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a guardian with the same email).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored, or references a row that does not exist. Check the
	// wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	// ErrGuardianNotFound indicates that the requested guardian does not exist.
	ErrGuardianNotFound = fmt.Errorf("%w: guardian", ErrNotFound)

	// ErrChildNotFound indicates that the requested child does not exist.
	ErrChildNotFound = fmt.Errorf("%w: child", ErrNotFound)

	// ErrSchoolNotFound indicates that no school matches the given id or code.
	ErrSchoolNotFound = fmt.Errorf("%w: school", ErrNotFound)

	// ErrActivityNotFound indicates that the requested activity does not exist.
	ErrActivityNotFound = fmt.Errorf("%w: activity", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrEmailExists indicates that a guardian with the given email
	// already exists.
	ErrEmailExists = fmt.Errorf("%w: email", ErrDuplicate)

	// ErrLinkExists indicates that the guardian/child link already exists.
	// Callers resuming an interrupted add-child sequence treat this as
	// success.
	ErrLinkExists = fmt.Errorf("%w: guardian-child link", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateError checks if the error is any kind of "duplicate" error.
func IsDuplicateError(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
