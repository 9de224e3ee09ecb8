package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cafeHttp "github.com/Raghav1000000000/cafe/internal/handler/http"
	"github.com/Raghav1000000000/cafe/internal/menu"
)

type stubMenuService struct {
	createFunc func(ctx context.Context, input menu.CreateInput) (*menu.Item, error)
	getFunc    func(ctx context.Context, id string) (*menu.Item, error)
	listFunc   func(ctx context.Context) ([]menu.Item, error)
	updateFunc func(ctx context.Context, id string, input menu.UpdateInput) (*menu.Item, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (s *stubMenuService) Create(ctx context.Context, input menu.CreateInput) (*menu.Item, error) {
	return s.createFunc(ctx, input)
}

func (s *stubMenuService) Get(ctx context.Context, id string) (*menu.Item, error) {
	return s.getFunc(ctx, id)
}

func (s *stubMenuService) List(ctx context.Context) ([]menu.Item, error) {
	return s.listFunc(ctx)
}

func (s *stubMenuService) Update(ctx context.Context, id string, input menu.UpdateInput) (*menu.Item, error) {
	return s.updateFunc(ctx, id, input)
}

func (s *stubMenuService) Delete(ctx context.Context, id string) error {
	return s.deleteFunc(ctx, id)
}

func newMenuRouter(service menu.Service) *chi.Mux {
	router := chi.NewRouter()
	cafeHttp.NewMenuHandler(service).RegisterRoutes(router)
	return router
}

func TestMenuHandler_handleCreateMenuItem(t *testing.T) {
	t.Run("creates an item", func(t *testing.T) {
		service := &stubMenuService{
			createFunc: func(ctx context.Context, input menu.CreateInput) (*menu.Item, error) {
				assert.Equal(t, "Masala Chai", input.Name)
				assert.Equal(t, int64(40), input.Price)
				assert.Nil(t, input.Available)
				return &menu.Item{ID: "item-1", Name: input.Name, Price: input.Price, Available: true}, nil
			},
		}

		body := []byte(`{"name":"Masala Chai","price":40,"category":"beverages"}`)
		req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)

		var payload struct {
			Success bool       `json:"success"`
			Item    *menu.Item `json:"item"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.True(t, payload.Success)
		assert.True(t, payload.Item.Available)
	})

	t.Run("rejects a negative price", func(t *testing.T) {
		service := &stubMenuService{
			createFunc: func(ctx context.Context, input menu.CreateInput) (*menu.Item, error) {
				t.Fatal("service should not be called for a negative price")
				return nil, nil
			},
		}

		body := []byte(`{"name":"Masala Chai","price":-1}`)
		req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeEnvelope(t, rr).Message, "price")
	})

	t.Run("rejects a missing name", func(t *testing.T) {
		service := &stubMenuService{}

		body := []byte(`{"price":40}`)
		req := httptest.NewRequest(http.MethodPost, "/menu", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeEnvelope(t, rr).Message, "name")
	})
}

func TestMenuHandler_handleUpdateMenuItem(t *testing.T) {
	t.Run("applies a partial update", func(t *testing.T) {
		service := &stubMenuService{
			updateFunc: func(ctx context.Context, id string, input menu.UpdateInput) (*menu.Item, error) {
				assert.Equal(t, "item-1", id)
				require.NotNil(t, input.Price)
				assert.Equal(t, int64(45), *input.Price)
				assert.Nil(t, input.Name)
				return &menu.Item{ID: id, Name: "Masala Chai", Price: *input.Price, Available: true}, nil
			},
		}

		body := []byte(`{"price":45}`)
		req := httptest.NewRequest(http.MethodPut, "/menu/item-1", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var payload struct {
			Success bool       `json:"success"`
			Item    *menu.Item `json:"item"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.Equal(t, int64(45), payload.Item.Price)
	})

	t.Run("maps a missing item to not found", func(t *testing.T) {
		service := &stubMenuService{
			updateFunc: func(ctx context.Context, id string, input menu.UpdateInput) (*menu.Item, error) {
				return nil, menu.ErrNotFound
			},
		}

		body := []byte(`{"price":45}`)
		req := httptest.NewRequest(http.MethodPut, "/menu/missing", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.False(t, decodeEnvelope(t, rr).Success)
	})
}

func TestMenuHandler_handleDeleteMenuItem(t *testing.T) {
	t.Run("deletes an item", func(t *testing.T) {
		var gotID string
		service := &stubMenuService{
			deleteFunc: func(ctx context.Context, id string) error {
				gotID = id
				return nil
			},
		}

		req := httptest.NewRequest(http.MethodDelete, "/menu/item-1", nil)
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "item-1", gotID)
		assert.True(t, decodeEnvelope(t, rr).Success)
	})

	t.Run("maps a missing item to not found", func(t *testing.T) {
		service := &stubMenuService{
			deleteFunc: func(ctx context.Context, id string) error {
				return menu.ErrNotFound
			},
		}

		req := httptest.NewRequest(http.MethodDelete, "/menu/missing", nil)
		rr := httptest.NewRecorder()

		newMenuRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestMenuHandler_handleListMenu(t *testing.T) {
	service := &stubMenuService{
		listFunc: func(ctx context.Context) ([]menu.Item, error) {
			return []menu.Item{
				{ID: "item-1", Name: "Masala Chai", Price: 40, Available: true},
				{ID: "item-2", Name: "Samosa", Price: 30, Available: false},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	rr := httptest.NewRecorder()

	newMenuRouter(service).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var payload struct {
		Success bool        `json:"success"`
		Items   []menu.Item `json:"items"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	require.Len(t, payload.Items, 2)
	assert.False(t, payload.Items[1].Available)
}
