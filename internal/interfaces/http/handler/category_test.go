package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
)

// mockCategoryRepo is a mock implementation of catalog.CategoryRepository
type mockCategoryRepo struct {
	mock.Mock
}

func (m *mockCategoryRepo) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) Update(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *mockCategoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCategoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *mockCategoryRepo) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *mockCategoryRepo) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*catalog.Category, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

func newCategoryHandler(repo *mockCategoryRepo) *CategoryHandler {
	return NewCategoryHandler(appcatalog.NewCategoryService(repo, zap.NewNop()))
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(raw)
}

func TestCategoryHandler_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates category", func(t *testing.T) {
		repo := new(mockCategoryRepo)
		h := newCategoryHandler(repo)

		repo.On("FindBySlug", mock.Anything, tenantID, "pottery").Return(nil, shared.ErrNotFound)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*catalog.Category")).Return(nil)

		c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/categories")
		setAuthContext(c, tenantID, uuid.New(), "admin")
		req, err := http.NewRequest(http.MethodPost, "/api/v1/admin/categories",
			jsonBody(t, CreateCategoryRequest{Name: "Pottery", Slug: "pottery", Description: "Clay work"}))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)

		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		var created CategoryResponse
		require.NoError(t, json.Unmarshal(raw, &created))
		assert.Equal(t, "pottery", created.Slug)
		assert.True(t, created.Active)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid body", func(t *testing.T) {
		h := newCategoryHandler(new(mockCategoryRepo))

		c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/categories")
		req, err := http.NewRequest(http.MethodPost, "/api/v1/admin/categories",
			bytes.NewReader([]byte(`{"name":""}`)))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects malformed slug", func(t *testing.T) {
		h := newCategoryHandler(new(mockCategoryRepo))

		c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/categories")
		req, err := http.NewRequest(http.MethodPost, "/api/v1/admin/categories",
			jsonBody(t, CreateCategoryRequest{Name: "Pottery", Slug: "Not A Slug"}))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate slug maps to conflict", func(t *testing.T) {
		repo := new(mockCategoryRepo)
		h := newCategoryHandler(repo)

		existing, err := catalog.NewCategory(tenantID, "Pottery", "pottery", "")
		require.NoError(t, err)
		repo.On("FindBySlug", mock.Anything, tenantID, "pottery").Return(existing, nil)

		c, w := newTestContext(t, http.MethodPost, "/api/v1/admin/categories")
		setAuthContext(c, tenantID, uuid.New(), "admin")
		req, reqErr := http.NewRequest(http.MethodPost, "/api/v1/admin/categories",
			jsonBody(t, CreateCategoryRequest{Name: "Pottery", Slug: "pottery"}))
		require.NoError(t, reqErr)
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "ERR_ALREADY_EXISTS", resp.Error.Code)
	})
}

func TestCategoryHandler_Get(t *testing.T) {
	tenantID := uuid.New()

	t.Run("returns category by slug", func(t *testing.T) {
		repo := new(mockCategoryRepo)
		h := newCategoryHandler(repo)

		category, err := catalog.NewCategory(tenantID, "Textiles", "textiles", "Woven goods")
		require.NoError(t, err)
		repo.On("FindBySlug", mock.Anything, tenantID, "textiles").Return(category, nil)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/catalog/categories/textiles")
		c.Set(middleware.TenantIDKey, tenantID)
		c.Params = []gin.Param{{Key: "slug", Value: "textiles"}}

		h.Get(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
	})

	t.Run("missing category returns 404", func(t *testing.T) {
		repo := new(mockCategoryRepo)
		h := newCategoryHandler(repo)

		repo.On("FindBySlug", mock.Anything, tenantID, "ghost").Return(nil, shared.ErrNotFound)

		c, w := newTestContext(t, http.MethodGet, "/api/v1/catalog/categories/ghost")
		c.Set(middleware.TenantIDKey, tenantID)
		c.Params = []gin.Param{{Key: "slug", Value: "ghost"}}

		h.Get(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCategoryHandler_List(t *testing.T) {
	tenantID := uuid.New()
	repo := new(mockCategoryRepo)
	h := newCategoryHandler(repo)

	first, err := catalog.NewCategory(tenantID, "Pottery", "pottery", "")
	require.NoError(t, err)
	second, err := catalog.NewCategory(tenantID, "Textiles", "textiles", "")
	require.NoError(t, err)
	repo.On("FindAll", mock.Anything, tenantID).Return([]*catalog.Category{first, second}, nil)

	c, w := newTestContext(t, http.MethodGet, "/api/v1/catalog/categories")
	c.Set(middleware.TenantIDKey, tenantID)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var listed []CategoryResponse
	require.NoError(t, json.Unmarshal(raw, &listed))
	assert.Len(t, listed, 2)
}

func TestCategoryHandler_Delete(t *testing.T) {
	repo := new(mockCategoryRepo)
	h := newCategoryHandler(repo)

	category, err := catalog.NewCategory(uuid.New(), "Pottery", "pottery", "")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	repo.On("Delete", mock.Anything, category.ID).Return(nil)

	c, w := newTestContext(t, http.MethodDelete, "/api/v1/admin/categories/"+category.ID.String())
	c.Params = []gin.Param{{Key: "id", Value: category.ID.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
