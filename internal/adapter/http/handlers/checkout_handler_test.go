package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"vidaqr/internal/adapter/http/handlers/mocks"
	"vidaqr/internal/domain/entities"
	"vidaqr/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newCheckoutRouter(uc usecase.ICheckoutUseCase) *gin.Engine {
	h := NewCheckoutHandler(uc)
	r := gin.New()
	r.POST("/v1/checkout", h.CreateCheckout)
	return r
}

func TestCheckoutHandler_CreateCheckout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)

		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("usecase mapped error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)

		uc.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).Return(usecase.CheckoutResult{}, entities.ErrInvalidPlan)

		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString(`{"name":"Ana","plan":"gold","payment_method":"pix"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICheckoutUseCase(ctrl)
		r := newCheckoutRouter(uc)

		payment, _ := entities.NewPayment("prof-1", entities.PlanPremiumPrice, entities.PaymentMethodPix, nil)
		_ = payment.AttachProviderData("mp-1", "pix-code", "cGl4", "https://mp/ticket")
		uc.EXPECT().CreateCheckout(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, cmd usecase.CheckoutCommand) (usecase.CheckoutResult, error) {
				if cmd.Plan != "premium" || cmd.PaymentMethod != "pix" {
					t.Fatalf("unexpected command: %+v", cmd)
				}
				return usecase.CheckoutResult{Payment: payment, ProfileID: "prof-1"}, nil
			})

		body := `{"name":"Ana Souza","tax_id":"123","phone":"+55","blood_type":"O-","plan":"premium","payment_method":"pix","payer_email":"ana@example.com"}`
		req := httptest.NewRequest(http.MethodPost, "/v1/checkout", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d body=%s", w.Code, w.Body.String())
		}
		var resp map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["payment_id"] != payment.ID || resp["pix_qr_code"] != "pix-code" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestMapCheckoutError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{usecase.ErrInvalidProfileInput, http.StatusBadRequest},
		{entities.ErrInvalidPlan, http.StatusBadRequest},
		{entities.ErrInvalidPaymentMethod, http.StatusBadRequest},
		{usecase.ErrMissingCardToken, http.StatusBadRequest},
		{entities.ErrInvalidAmount, http.StatusBadRequest},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := mapCheckoutError(tc.err)
		if got.HTTPStatus != tc.code {
			t.Fatalf("for err %v expected %d got %d", tc.err, tc.code, got.HTTPStatus)
		}
	}
}
