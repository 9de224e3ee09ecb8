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
	"github.com/Raghav1000000000/cafe/internal/otp"
	"github.com/Raghav1000000000/cafe/internal/phone"
)

type stubOTPManager struct {
	requestFunc func(ctx context.Context, rawPhone string) (otp.Challenge, error)
	verifyFunc  func(ctx context.Context, rawPhone, code string) (string, error)
}

func (s *stubOTPManager) Request(ctx context.Context, rawPhone string) (otp.Challenge, error) {
	return s.requestFunc(ctx, rawPhone)
}

func (s *stubOTPManager) Verify(ctx context.Context, rawPhone, code string) (string, error) {
	return s.verifyFunc(ctx, rawPhone, code)
}

func newOTPRouter(manager cafeHttp.OTPManager) *chi.Mux {
	router := chi.NewRouter()
	cafeHttp.NewOTPHandler(manager).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *chi.Mux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestOTPHandler_handleRequestOTP(t *testing.T) {
	t.Run("issues a challenge", func(t *testing.T) {
		manager := &stubOTPManager{
			requestFunc: func(ctx context.Context, rawPhone string) (otp.Challenge, error) {
				assert.Equal(t, "whatsapp:+1 (415) 555-1234", rawPhone)
				return otp.Challenge{Code: "4821", Phone: "+14155551234"}, nil
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp", `{"phone":"whatsapp:+1 (415) 555-1234"}`)

		require.Equal(t, http.StatusOK, rr.Code)

		var payload struct {
			Success         bool   `json:"success"`
			Code            string `json:"code"`
			NormalizedPhone string `json:"normalizedPhone"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.True(t, payload.Success)
		assert.Equal(t, "4821", payload.Code)
		assert.Equal(t, "+14155551234", payload.NormalizedPhone)
	})

	t.Run("rejects an invalid phone", func(t *testing.T) {
		manager := &stubOTPManager{
			requestFunc: func(ctx context.Context, rawPhone string) (otp.Challenge, error) {
				return otp.Challenge{}, phone.ErrInvalidPhone
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp", `{"phone":"12"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, decodeEnvelope(t, rr).Success)
	})

	t.Run("rejects a missing phone field", func(t *testing.T) {
		manager := &stubOTPManager{
			requestFunc: func(ctx context.Context, rawPhone string) (otp.Challenge, error) {
				t.Fatal("manager should not be called without a phone")
				return otp.Challenge{}, nil
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp", `{}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeEnvelope(t, rr).Message, "phone")
	})
}

func TestOTPHandler_handleVerifyOTP(t *testing.T) {
	t.Run("verifies a matching code", func(t *testing.T) {
		manager := &stubOTPManager{
			verifyFunc: func(ctx context.Context, rawPhone, code string) (string, error) {
				assert.Equal(t, "4155551234", rawPhone)
				assert.Equal(t, "4821", code)
				return "+14155551234", nil
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp/verify", `{"phone":"4155551234","code":"4821"}`)

		require.Equal(t, http.StatusOK, rr.Code)

		var payload struct {
			Success         bool   `json:"success"`
			NormalizedPhone string `json:"normalizedPhone"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
		assert.True(t, payload.Success)
		assert.Equal(t, "+14155551234", payload.NormalizedPhone)
	})

	t.Run("maps a wrong code to a bad request", func(t *testing.T) {
		manager := &stubOTPManager{
			verifyFunc: func(ctx context.Context, rawPhone, code string) (string, error) {
				return "", otp.ErrInvalidCode
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp/verify", `{"phone":"4155551234","code":"0000"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.False(t, decodeEnvelope(t, rr).Success)
	})

	t.Run("maps a missing challenge to a bad request", func(t *testing.T) {
		manager := &stubOTPManager{
			verifyFunc: func(ctx context.Context, rawPhone, code string) (string, error) {
				return "", otp.ErrNoOTPRequested
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp/verify", `{"phone":"4155551234","code":"4821"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeEnvelope(t, rr).Message, "no otp requested")
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		manager := &stubOTPManager{
			verifyFunc: func(ctx context.Context, rawPhone, code string) (string, error) {
				t.Fatal("manager should not be called for a malformed payload")
				return "", nil
			},
		}

		rr := postJSON(t, newOTPRouter(manager), "/otp/verify", `{"phone":"4155551234","code":"4821","name":"Asha"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
