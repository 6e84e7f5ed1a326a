package domain

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func activity(title string, d DevelopmentalDomain, min, max int) Activity {
	return Activity{
		ID:           uuid.New(),
		Title:        title,
		Domain:       d,
		Instructions: []string{"step one"},
		MinAgeMonths: min,
		MaxAgeMonths: max,
	}
}

func titles(activities []Activity) []string {
	out := make([]string, len(activities))
	for i, a := range activities {
		out[i] = a.Title
	}
	return out
}

func TestActivityValidate(t *testing.T) {
	valid := activity("Peek-a-Boo", DomainCognitive, 6, 12)
	if err := valid.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Activity)
		wantErr error
	}{
		{"nil ID", func(a *Activity) { a.ID = uuid.Nil }, ErrEmptyActivityID},
		{"empty title", func(a *Activity) { a.Title = "" }, ErrEmptyActivityTitle},
		{"unknown domain", func(a *Activity) { a.Domain = "Emotional" }, ErrInvalidDomain},
		{"no instructions", func(a *Activity) { a.Instructions = nil }, ErrEmptyInstructions},
		{"negative min age", func(a *Activity) { a.MinAgeMonths = -1 }, ErrNegativeActivityAge},
		{"inverted range", func(a *Activity) { a.MinAgeMonths = 13 }, ErrInvalidAgeRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := valid
			tc.mutate(&a)
			if err := a.Validate(); err != tc.wantErr {
				t.Errorf("Expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestMatchActivitiesFiltersByAge(t *testing.T) {
	catalog := []Activity{
		activity("Tummy Time Reach", DomainPhysical, 1, 6),
		activity("Peek-a-Boo", DomainCognitive, 6, 12),
		activity("Color Sorting Game", DomainCognitive, 24, 36),
		activity("Passing the Ball", DomainSocial, 18, 36),
	}

	matched := MatchActivities(catalog, 6)

	want := []string{"Tummy Time Reach", "Peek-a-Boo"}
	if !reflect.DeepEqual(titles(matched), want) {
		t.Errorf("Expected %v, got %v", want, titles(matched))
	}

	for _, a := range matched {
		if !a.MatchesAge(6) {
			t.Errorf("Activity %q does not match age 6", a.Title)
		}
	}
}

func TestMatchActivitiesEmptyResult(t *testing.T) {
	catalog := []Activity{activity("Color Sorting Game", DomainCognitive, 24, 36)}

	matched := MatchActivities(catalog, 3)
	if matched == nil {
		t.Fatal("Expected empty slice, got nil")
	}
	if len(matched) != 0 {
		t.Errorf("Expected no matches, got %v", titles(matched))
	}
}

func TestMatchActivitiesOrdering(t *testing.T) {
	// Same min age across domains, plus a title tie-break within a domain.
	catalog := []Activity{
		activity("Passing the Ball", DomainSocial, 18, 36),
		activity("Sensory Bin Exploration", DomainCreative, 18, 24),
		activity("Animal Sounds", DomainLanguage, 18, 24),
		activity("Block Tower", DomainCognitive, 18, 24),
		activity("Balance Beam", DomainPhysical, 18, 24),
		activity("Nursery Rhyme Sing-Along", DomainLanguage, 12, 18),
		activity("Alphabet Song", DomainLanguage, 18, 24),
	}

	matched := MatchActivities(catalog, 18)

	want := []string{
		"Nursery Rhyme Sing-Along", // min age 12 first
		"Block Tower",              // then by domain order at min age 18
		"Balance Beam",
		"Alphabet Song", // Language ties broken by title
		"Animal Sounds",
		"Sensory Bin Exploration",
		"Passing the Ball",
	}
	if !reflect.DeepEqual(titles(matched), want) {
		t.Errorf("Expected order %v, got %v", want, titles(matched))
	}
}

func TestMatchActivitiesDeterministic(t *testing.T) {
	catalog := []Activity{
		activity("B", DomainCognitive, 0, 48),
		activity("A", DomainCognitive, 0, 48),
		activity("C", DomainSocial, 0, 48),
	}

	first := MatchActivities(catalog, 10)
	for i := 0; i < 10; i++ {
		again := MatchActivities(catalog, 10)
		if !reflect.DeepEqual(titles(first), titles(again)) {
			t.Fatalf("Run %d: order changed from %v to %v", i, titles(first), titles(again))
		}
	}
}

func TestMatchActivitiesDoesNotMutateInput(t *testing.T) {
	catalog := []Activity{
		activity("Z", DomainSocial, 0, 48),
		activity("A", DomainCognitive, 0, 48),
	}
	before := titles(catalog)

	MatchActivities(catalog, 10)

	if !reflect.DeepEqual(titles(catalog), before) {
		t.Errorf("Input catalog was reordered: %v", titles(catalog))
	}
}
