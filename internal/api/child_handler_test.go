package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bambini-app/bambini-api/internal/domain"
)

func TestCreateChildHandler(t *testing.T) {
	guardianID := uuid.New()

	t.Run("success without school code", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		r := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2023-01-15"}`, guardianID)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp AddChildResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Mia", resp.Child.Name)
		assert.Equal(t, "2023-01-15", resp.Child.DOB)
		assert.Nil(t, resp.School)
		assert.False(t, resp.SchoolCodeUnknown)
	})

	t.Run("success with school code", func(t *testing.T) {
		school := &domain.School{ID: uuid.New(), Code: "SUN123", Name: "Sunshine Preschool"}
		schools := &memSchoolStore{byCode: map[string]*domain.School{"SUN123": school}}
		handler := NewChildHandler(newTestRegistry(t, nil, schools), nil)
		r := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2023-01-15","school_code":"SUN123"}`, guardianID)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp AddChildResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.School)
		assert.Equal(t, "Sunshine Preschool", resp.School.Name)
	})

	t.Run("unknown school code is reported, not fatal", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		r := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2023-01-15","school_code":"NOPE99"}`, guardianID)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		require.Equal(t, http.StatusCreated, w.Code)
		var resp AddChildResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.SchoolCodeUnknown)
		assert.Nil(t, resp.School)
	})

	t.Run("link failure returns orphaned child id", func(t *testing.T) {
		children := newMemChildStore()
		children.linkErr = errors.New("connection reset")
		handler := NewChildHandler(newTestRegistry(t, children, nil), nil)
		r := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2023-01-15"}`, guardianID)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var resp LinkFailedResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, uuid.Nil, resp.ChildID)

		// The orphaned child exists under the reported id.
		_, err := children.GetByID(r.Context(), resp.ChildID)
		assert.NoError(t, err)
	})

	t.Run("future dob rejected", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		r := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2099-01-15"}`, guardianID)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing name rejected", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		r := authedRequest(http.MethodPost, "/api/children",
			`{"dob":"2023-01-15"}`, guardianID)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		r := httptest.NewRequest(http.MethodPost, "/api/children", nil)
		w := httptest.NewRecorder()

		handler.Create(w, r)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestListChildrenHandler(t *testing.T) {
	guardianID := uuid.New()
	registry := newTestRegistry(t, nil, nil)
	handler := NewChildHandler(registry, nil)

	t.Run("empty for new guardian", func(t *testing.T) {
		r := authedRequest(http.MethodGet, "/api/children", "", guardianID)
		w := httptest.NewRecorder()

		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String())
	})

	t.Run("lists created children with ages", func(t *testing.T) {
		create := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2023-01-15"}`, guardianID)
		cw := httptest.NewRecorder()
		handler.Create(cw, create)
		require.Equal(t, http.StatusCreated, cw.Code)

		r := authedRequest(http.MethodGet, "/api/children", "", guardianID)
		w := httptest.NewRecorder()
		handler.List(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		var resp []ChildResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp, 1)
		assert.Equal(t, "Mia", resp[0].Name)
		require.NotNil(t, resp[0].AgeMonths)
		assert.GreaterOrEqual(t, *resp[0].AgeMonths, 0)
	})
}

func TestResumeLinkHandler(t *testing.T) {
	guardianID := uuid.New()

	t.Run("relinks an orphaned child", func(t *testing.T) {
		children := newMemChildStore()
		children.linkErr = errors.New("connection reset")
		registry := newTestRegistry(t, children, nil)
		handler := NewChildHandler(registry, nil)

		create := authedRequest(http.MethodPost, "/api/children",
			`{"name":"Mia","dob":"2023-01-15"}`, guardianID)
		cw := httptest.NewRecorder()
		handler.Create(cw, create)
		require.Equal(t, http.StatusInternalServerError, cw.Code)

		var failed LinkFailedResponse
		require.NoError(t, json.Unmarshal(cw.Body.Bytes(), &failed))

		children.linkErr = nil
		r := authedRequest(http.MethodPost, "/api/children/"+failed.ChildID.String()+"/link", "", guardianID)
		r = withPathParam(r, "id", failed.ChildID.String())
		w := httptest.NewRecorder()

		handler.ResumeLink(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("unknown child", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		id := uuid.New()
		r := authedRequest(http.MethodPost, "/api/children/"+id.String()+"/link", "", guardianID)
		r = withPathParam(r, "id", id.String())
		w := httptest.NewRecorder()

		handler.ResumeLink(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		handler := NewChildHandler(newTestRegistry(t, nil, nil), nil)
		r := authedRequest(http.MethodPost, "/api/children/not-a-uuid/link", "", guardianID)
		r = withPathParam(r, "id", "not-a-uuid")
		w := httptest.NewRecorder()

		handler.ResumeLink(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
