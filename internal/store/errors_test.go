package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntityErrorsWrapGenericSentinels(t *testing.T) {
	notFound := []error{
		ErrGuardianNotFound,
		ErrChildNotFound,
		ErrSchoolNotFound,
		ErrActivityNotFound,
	}
	for _, err := range notFound {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%v should wrap ErrNotFound", err)
		}
		if !IsNotFoundError(err) {
			t.Errorf("IsNotFoundError(%v) = false", err)
		}
	}

	duplicates := []error{ErrEmailExists, ErrLinkExists}
	for _, err := range duplicates {
		if !errors.Is(err, ErrDuplicate) {
			t.Errorf("%v should wrap ErrDuplicate", err)
		}
		if !IsDuplicateError(err) {
			t.Errorf("IsDuplicateError(%v) = false", err)
		}
	}
}

func TestErrorClassifiersRejectOtherErrors(t *testing.T) {
	err := errors.New("connection reset")
	if IsNotFoundError(err) {
		t.Error("IsNotFoundError matched an unrelated error")
	}
	if IsDuplicateError(err) {
		t.Error("IsDuplicateError matched an unrelated error")
	}

	wrapped := fmt.Errorf("looking up guardian: %w", ErrGuardianNotFound)
	if !IsNotFoundError(wrapped) {
		t.Error("IsNotFoundError should see through wrapping")
	}
}
