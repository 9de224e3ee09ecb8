package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raghav1000000000/cafe/internal/bill"
	cafeHttp "github.com/Raghav1000000000/cafe/internal/handler/http"
	"github.com/Raghav1000000000/cafe/internal/order"
	"github.com/Raghav1000000000/cafe/internal/phone"
)

type stubBillService struct {
	createFunc func(ctx context.Context, in bill.CreateInput) (*bill.Bill, error)
	getFunc    func(ctx context.Context, id string) (*bill.Bill, error)
	listFunc   func(ctx context.Context, rawPhone string) ([]bill.Bill, error)
}

func (s *stubBillService) Create(ctx context.Context, in bill.CreateInput) (*bill.Bill, error) {
	return s.createFunc(ctx, in)
}

func (s *stubBillService) Get(ctx context.Context, id string) (*bill.Bill, error) {
	return s.getFunc(ctx, id)
}

func (s *stubBillService) List(ctx context.Context, rawPhone string) ([]bill.Bill, error) {
	return s.listFunc(ctx, rawPhone)
}

func newBillRouter(service bill.Service) *chi.Mux {
	router := chi.NewRouter()
	cafeHttp.NewBillHandler(service).RegisterRoutes(router)
	return router
}

func TestBillHandler_handleCreateBill_Success(t *testing.T) {
	var gotInput bill.CreateInput
	service := &stubBillService{
		createFunc: func(ctx context.Context, in bill.CreateInput) (*bill.Bill, error) {
			gotInput = in
			return &bill.Bill{
				ID:           "bill-1",
				CustomerName: "Asha",
				Items:        in.Items,
				Totals:       bill.Totals{Subtotal: 170, Tax: 9, Service: 3, Total: 182},
				CreatedAt:    1000,
			}, nil
		},
	}

	body := []byte(`{"customerName":"Asha","orderId":"order-1","items":[{"name":"Chai","price":40,"quantity":2},{"name":"Samosa","price":30,"quantity":3}]}`)
	req := httptest.NewRequest(http.MethodPost, "/bills", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newBillRouter(service).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)

	var payload struct {
		Success bool       `json:"success"`
		Bill    *bill.Bill `json:"bill"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.True(t, payload.Success)
	require.NotNil(t, payload.Bill)
	assert.Equal(t, int64(182), payload.Bill.Total)
	assert.Equal(t, "order-1", gotInput.OrderID)
	assert.Len(t, gotInput.Items, 2)
}

func TestBillHandler_handleCreateBill_EmptyItems(t *testing.T) {
	service := &stubBillService{
		createFunc: func(ctx context.Context, in bill.CreateInput) (*bill.Bill, error) {
			t.Fatal("service should not be called for an empty item list")
			return nil, nil
		},
	}

	body := []byte(`{"customerName":"Asha","items":[]}`)
	req := httptest.NewRequest(http.MethodPost, "/bills", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newBillRouter(service).ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, decodeEnvelope(t, rr).Success)
}

func TestBillHandler_handleCreateBill_UnbillableOrder(t *testing.T) {
	service := &stubBillService{
		createFunc: func(ctx context.Context, in bill.CreateInput) (*bill.Bill, error) {
			return nil, fmt.Errorf("%w: status PENDING", bill.ErrOrderNotBillable)
		},
	}

	body := []byte(`{"orderId":"order-1","items":[{"name":"Chai","price":40,"quantity":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/bills", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newBillRouter(service).ServeHTTP(rr, req)

	require.Equal(t, http.StatusConflict, rr.Code)
	payload := decodeEnvelope(t, rr)
	assert.False(t, payload.Success)
	assert.Contains(t, payload.Message, "cannot be billed")
}

func TestBillHandler_handleCreateBill_MissingSourceOrder(t *testing.T) {
	service := &stubBillService{
		createFunc: func(ctx context.Context, in bill.CreateInput) (*bill.Bill, error) {
			return nil, order.ErrNotFound
		},
	}

	body := []byte(`{"orderId":"missing","items":[{"name":"Chai","price":40,"quantity":1}]}`)
	req := httptest.NewRequest(http.MethodPost, "/bills", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	newBillRouter(service).ServeHTTP(rr, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBillHandler_handleGetBill(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		service := &stubBillService{
			getFunc: func(ctx context.Context, id string) (*bill.Bill, error) {
				return &bill.Bill{ID: id, Totals: bill.Totals{Total: 43}}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/bills/bill-1", nil)
		rr := httptest.NewRecorder()

		newBillRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)

		var payload struct {
			Success bool       `json:"success"`
			Bill    *bill.Bill `json:"bill"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.Equal(t, "bill-1", payload.Bill.ID)
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubBillService{
			getFunc: func(ctx context.Context, id string) (*bill.Bill, error) {
				return nil, bill.ErrNotFound
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/bills/missing", nil)
		rr := httptest.NewRecorder()

		newBillRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.False(t, decodeEnvelope(t, rr).Success)
	})
}

func TestBillHandler_handleListBills(t *testing.T) {
	t.Run("passes the phone filter through raw", func(t *testing.T) {
		var gotPhone string
		service := &stubBillService{
			listFunc: func(ctx context.Context, rawPhone string) ([]bill.Bill, error) {
				gotPhone = rawPhone
				return []bill.Bill{{ID: "bill-1"}}, nil
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/bills?phone=%2B14155551234", nil)
		rr := httptest.NewRecorder()

		newBillRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "+14155551234", gotPhone)

		var payload struct {
			Success bool        `json:"success"`
			Bills   []bill.Bill `json:"bills"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.Len(t, payload.Bills, 1)
	})

	t.Run("rejects an unparseable phone filter", func(t *testing.T) {
		service := &stubBillService{
			listFunc: func(ctx context.Context, rawPhone string) ([]bill.Bill, error) {
				return nil, fmt.Errorf("bill: %w", phone.ErrInvalidPhone)
			},
		}

		req := httptest.NewRequest(http.MethodGet, "/bills?phone=12", nil)
		rr := httptest.NewRecorder()

		newBillRouter(service).ServeHTTP(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
