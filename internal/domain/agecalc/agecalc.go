// Package agecalc computes a child's age in whole calendar months.
// It is pure and deterministic: no clocks are read unless the caller
// asks for the current time explicitly.
package agecalc

import (
	"time"

	"github.com/bambini-app/bambini-api/internal/domain"
)

// AgeInMonths returns the number of whole calendar months elapsed between
// the date of birth and the reference instant. The count is the number of
// month boundaries crossed, decremented by one when the reference's
// day-of-month precedes the birth day-of-month (the month in progress is
// not yet complete). Only calendar dates are compared; time-of-day is
// ignored.
//
// Returns domain.ErrInvalidDate if the date of birth is after the
// reference instant.
func AgeInMonths(dob, ref time.Time) (int, error) {
	by, bm, bd := dob.Date()
	ry, rm, rd := ref.Date()

	months := (ry-by)*12 + int(rm) - int(bm)
	if rd < bd {
		months--
	}

	// A negative count means the birth date lies beyond the reference:
	// every strictly-future calendar date lands below zero, while a
	// partial first month lands exactly on zero.
	if months < 0 {
		return 0, domain.ErrInvalidDate
	}

	return months, nil
}

// AgeInMonthsNow is AgeInMonths with the current time as the reference
// instant.
func AgeInMonthsNow(dob time.Time) (int, error) {
	return AgeInMonths(dob, time.Now())
}
