package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bambini-app/bambini-api/internal/domain"
	"github.com/bambini-app/bambini-api/internal/service"
)

func testCatalog() []domain.Activity {
	mk := func(title string, d domain.DevelopmentalDomain, minAge, maxAge int) domain.Activity {
		return domain.Activity{
			ID:           uuid.New(),
			Title:        title,
			Domain:       d,
			Instructions: []string{"step one"},
			MinAgeMonths: minAge,
			MaxAgeMonths: maxAge,
		}
	}
	return []domain.Activity{
		mk("Color Sorting Game", domain.DomainCognitive, 24, 36),
		mk("Tummy Time Reach", domain.DomainPhysical, 1, 6),
		mk("Peek-a-Boo", domain.DomainCognitive, 6, 12),
		mk("Sensory Bin Exploration", domain.DomainCreative, 18, 24),
		mk("Nursery Rhyme Sing-Along", domain.DomainLanguage, 12, 18),
		mk("Passing the Ball", domain.DomainSocial, 18, 36),
	}
}

func newActivityHandlerWithCatalog(t *testing.T, catalog []domain.Activity) (*ActivityHandler, *service.RegistryService) {
	t.Helper()
	registry := newTestRegistry(t, nil, nil)
	svc, err := service.NewActivityService(&memActivityStore{catalog: catalog}, registry, nil)
	require.NoError(t, err)
	return NewActivityHandler(svc, nil), registry
}

func TestActivityListByAge(t *testing.T) {
	handler, _ := newActivityHandlerWithCatalog(t, testCatalog())
	guardianID := uuid.New()

	t.Run("matches and orders", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/activities?age_months=18", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp []ActivityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		titles := make([]string, len(resp))
		for i, a := range resp {
			titles[i] = a.Title
		}
		// min age ascending, then domain enumeration order.
		assert.Equal(t, []string{
			"Nursery Rhyme Sing-Along",
			"Sensory Bin Exploration",
			"Passing the Ball",
		}, titles)
	})

	t.Run("no matches yields empty array", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/activities?age_months=120", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("negative age rejected", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/activities?age_months=-1", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-integer age rejected", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/activities?age_months=abc", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing selector rejected", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/activities", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestActivityListByChild(t *testing.T) {
	handler, registry := newActivityHandlerWithCatalog(t, testCatalog())
	guardianID := uuid.New()

	result, err := registry.AddChild(authedRequest(http.MethodPost, "/", "", guardianID).Context(),
		guardianID, service.AddChildInput{Draft: domain.ChildDraft{
			Name: "Mia",
			DOB:  monthsAgo(7),
		}})
	require.NoError(t, err)

	t.Run("matches by child age", func(t *testing.T) {
		r := authedRequest(http.MethodGet,
			"/api/activities?child_id="+result.Child.ID.String(), "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp []ActivityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Peek-a-Boo", resp[0].Title)
	})

	t.Run("another guardian's child is not found", func(t *testing.T) {
		r := authedRequest(http.MethodGet,
			"/api/activities?child_id="+result.Child.ID.String(), "", uuid.New())
		w := httptest.NewRecorder()

		handler.List(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("both selectors rejected", func(t *testing.T) {
		r := authedRequest(http.MethodGet,
			"/api/activities?child_id="+result.Child.ID.String()+"&age_months=6", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestActivityDetail(t *testing.T) {
	catalog := testCatalog()
	handler, _ := newActivityHandlerWithCatalog(t, catalog)
	guardianID := uuid.New()

	t.Run("found", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/activities/"+catalog[0].ID.String(), "", guardianID)
		r = withPathParam(r, "id", catalog[0].ID.String())
		w := httptest.NewRecorder()

		handler.Get(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp ActivityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, catalog[0].Title, resp.Title)
		assert.NotNil(t, resp.Materials)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New()
		r := authedRequest(http.MethodGet, "/api/activities/"+id.String(), "", guardianID)
		r = withPathParam(r, "id", id.String())
		w := httptest.NewRecorder()

		handler.Get(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
