package domain

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Activity validation errors.
var (
	ErrEmptyActivityID       = errors.New("activity ID cannot be empty")
	ErrEmptyActivityTitle    = errors.New("activity title cannot be empty")
	ErrEmptyInstructions     = errors.New("activity must have at least one instruction step")
	ErrInvalidAgeRange       = errors.New("activity minimum age must not exceed maximum age")
	ErrNegativeActivityAge   = errors.New("activity age bounds cannot be negative")
	ErrInvalidActivityDomain = ErrInvalidDomain
)

// DevelopmentalDomain classifies an activity into one of the five fixed
// developmental domains.
type DevelopmentalDomain string

const (
	DomainCognitive DevelopmentalDomain = "Cognitive"
	DomainPhysical  DevelopmentalDomain = "Physical"
	DomainLanguage  DevelopmentalDomain = "Language"
	DomainCreative  DevelopmentalDomain = "Creative"
	DomainSocial    DevelopmentalDomain = "Social"
)

// domainOrder fixes the enumeration order used as a sort tie-break.
var domainOrder = map[DevelopmentalDomain]int{
	DomainCognitive: 0,
	DomainPhysical:  1,
	DomainLanguage:  2,
	DomainCreative:  3,
	DomainSocial:    4,
}

// IsValid reports whether the domain is one of the fixed enumeration
// values.
func (d DevelopmentalDomain) IsValid() bool {
	_, ok := domainOrder[d]
	return ok
}

// Order returns the domain's position in the fixed enumeration
// (Cognitive, Physical, Language, Creative, Social). Unknown domains
// sort last.
func (d DevelopmentalDomain) Order() int {
	if n, ok := domainOrder[d]; ok {
		return n
	}
	return len(domainOrder)
}

// Activity is a developmental activity from the catalog, tagged with the
// age range (in whole months) it is appropriate for.
type Activity struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Domain       DevelopmentalDomain `json:"domain"`
	AgeBand      string              `json:"age_band"`
	Instructions []string            `json:"instructions"`
	Materials    []string            `json:"materials"`
	MinAgeMonths int                 `json:"min_age_months"`
	MaxAgeMonths int                 `json:"max_age_months"`
	CreatedAt    time.Time           `json:"created_at"`
}

// Validate checks if the Activity has valid data.
func (a *Activity) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyActivityID
	}
	if a.Title == "" {
		return ErrEmptyActivityTitle
	}
	if !a.Domain.IsValid() {
		return ErrInvalidDomain
	}
	if len(a.Instructions) == 0 {
		return ErrEmptyInstructions
	}
	if a.MinAgeMonths < 0 || a.MaxAgeMonths < 0 {
		return ErrNegativeActivityAge
	}
	if a.MinAgeMonths > a.MaxAgeMonths {
		return ErrInvalidAgeRange
	}
	return nil
}

// MatchesAge reports whether ageMonths falls within the activity's
// inclusive age range.
func (a *Activity) MatchesAge(ageMonths int) bool {
	return a.MinAgeMonths <= ageMonths && ageMonths <= a.MaxAgeMonths
}

// MatchActivities selects every activity from the catalog whose age range
// contains ageMonths, ordered ascending by minimum age, then by domain
// enumeration order, then by title. The ordering is fully deterministic;
// an empty result is a valid outcome, not an error. The input slice is
// not modified.
func MatchActivities(catalog []Activity, ageMonths int) []Activity {
	matched := make([]Activity, 0, len(catalog))
	for _, a := range catalog {
		if a.MatchesAge(ageMonths) {
			matched = append(matched, a)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].MinAgeMonths != matched[j].MinAgeMonths {
			return matched[i].MinAgeMonths < matched[j].MinAgeMonths
		}
		if matched[i].Domain.Order() != matched[j].Domain.Order() {
			return matched[i].Domain.Order() < matched[j].Domain.Order()
		}
		return matched[i].Title < matched[j].Title
	})

	return matched
}
