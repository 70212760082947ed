package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidaqr/internal/adapter/http/handlers/mocks"
	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase"
	"vidaqr/internal/usecase/interfaces"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newStatusRouter(uc usecase.IPaymentValidationUseCase) *gin.Engine {
	h := NewPaymentStatusHandler(uc)
	r := gin.New()
	r.GET("/v1/payments/:id/status", h.GetPaymentStatus)
	return r
}

func TestPaymentStatusHandler_GetPaymentStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentValidationUseCase(ctrl)
		r := newStatusRouter(uc)

		uc.EXPECT().ValidatePayment(gomock.Any(), "pay-1").Return(usecase.ValidationResult{}, usecase.ErrPaymentNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/pay-1/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("never submitted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentValidationUseCase(ctrl)
		r := newStatusRouter(uc)

		uc.EXPECT().ValidatePayment(gomock.Any(), "pay-1").Return(usecase.ValidationResult{}, usecase.ErrPaymentNotSubmitted)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/pay-1/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("missing at the provider", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentValidationUseCase(ctrl)
		r := newStatusRouter(uc)

		uc.EXPECT().ValidatePayment(gomock.Any(), "pay-1").Return(usecase.ValidationResult{}, interfaces.ErrProviderPaymentNotFound)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/pay-1/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPaymentValidationUseCase(ctrl)
		r := newStatusRouter(uc)

		uc.EXPECT().ValidatePayment(gomock.Any(), "pay-1").Return(usecase.ValidationResult{
			PaymentID:  "pay-1",
			ExternalID: "mp-1",
			Status:     entities.PaymentStatusApproved,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/payments/pay-1/status", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["status"] != "approved" || body["payment_id"] != "pay-1" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}
