package service

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/store"
)

// fakeActivityStore serves a fixed catalog.
type fakeActivityStore struct {
	catalog []domain.Activity
}

func (f *fakeActivityStore) Create(ctx context.Context, activity *domain.Activity) error {
	f.catalog = append(f.catalog, *activity)
	return nil
}

func (f *fakeActivityStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Activity, error) {
	for i := range f.catalog {
		if f.catalog[i].ID == id {
			a := f.catalog[i]
			return &a, nil
		}
	}
	return nil, store.ErrActivityNotFound
}

func (f *fakeActivityStore) List(ctx context.Context) ([]domain.Activity, error) {
	out := make([]domain.Activity, len(f.catalog))
	copy(out, f.catalog)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinAgeMonths < out[j].MinAgeMonths
	})
	return out, nil
}

func (f *fakeActivityStore) WithTx(tx *sql.Tx) store.ActivityStore { return f }

func catalogActivity(title string, d domain.DevelopmentalDomain, minAge, maxAge int) domain.Activity {
	return domain.Activity{
		ID:           uuid.New(),
		Title:        title,
		Domain:       d,
		Instructions: []string{"step one"},
		MinAgeMonths: minAge,
		MaxAgeMonths: maxAge,
	}
}

func newTestActivityService(t *testing.T, catalog ...domain.Activity) (*ActivityService, *fakeChildStore) {
	t.Helper()
	children := newFakeChildStore()
	registry := newTestRegistry(t, children, nil)
	svc, err := NewActivityService(&fakeActivityStore{catalog: catalog}, registry, nil)
	require.NoError(t, err)
	return svc, children
}

func TestMatchForAge(t *testing.T) {
	svc, _ := newTestActivityService(t,
		catalogActivity("Tummy Time Reach", domain.DomainPhysical, 1, 6),
		catalogActivity("Peek-a-Boo", domain.DomainCognitive, 6, 12),
		catalogActivity("Nursery Rhyme Sing-Along", domain.DomainLanguage, 12, 18),
	)

	matched, err := svc.MatchForAge(context.Background(), 6)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Tummy Time Reach", matched[0].Title)
	assert.Equal(t, "Peek-a-Boo", matched[1].Title)
}

func TestMatchForAgeNoMatches(t *testing.T) {
	svc, _ := newTestActivityService(t,
		catalogActivity("Tummy Time Reach", domain.DomainPhysical, 1, 6),
	)

	matched, err := svc.MatchForAge(context.Background(), 48)
	require.NoError(t, err)
	assert.NotNil(t, matched)
	assert.Empty(t, matched)
}

func TestMatchForAgeNegative(t *testing.T) {
	svc, _ := newTestActivityService(t)

	_, err := svc.MatchForAge(context.Background(), -1)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestMatchForChild(t *testing.T) {
	svc, _ := newTestActivityService(t,
		catalogActivity("Color Sorting Game", domain.DomainCognitive, 24, 36),
		catalogActivity("Tummy Time Reach", domain.DomainPhysical, 1, 6),
	)
	guardianID := uuid.New()

	// A child a few months old today.
	dob := time.Now().AddDate(0, -3, 0)
	result, err := svc.registry.AddChild(context.Background(), guardianID, AddChildInput{
		Draft: domain.ChildDraft{Name: "Mia", DOB: dob},
	})
	require.NoError(t, err)

	matched, err := svc.MatchForChild(context.Background(), guardianID, result.Child.ID)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "Tummy Time Reach", matched[0].Title)
}

func TestMatchForChildUnknownChild(t *testing.T) {
	svc, _ := newTestActivityService(t)

	_, err := svc.MatchForChild(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrChildNotFound)
}

func TestDetail(t *testing.T) {
	activity := catalogActivity("Passing the Ball", domain.DomainSocial, 18, 36)
	svc, _ := newTestActivityService(t, activity)

	got, err := svc.Detail(context.Background(), activity.ID)
	require.NoError(t, err)
	assert.Equal(t, activity.Title, got.Title)

	_, err = svc.Detail(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrActivityNotFound)
}
