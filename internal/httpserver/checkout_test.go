package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"gocart/internal/domain"
	"gocart/internal/identity"
	checkoutsvc "gocart/internal/service/checkout"
)

func TestPlaceOrderHandler_COD(t *testing.T) {
	svc := &stubCheckoutSvc{
		res: &checkoutsvc.PlaceOrderResult{
			OrderIDs:    []string{"o1", "o2"},
			TotalAmount: decimal.RequireFromString("45"),
		},
	}
	deps := testDeps()
	deps.CheckoutSvc = svc
	deps.Identity = &stubIdentity{ident: &identity.Identity{UserID: "u1", PremiumMember: true}}
	router := newTestRouter(t, deps)

	body := `{"addressId":"addr-1","items":[{"id":"p1","quantity":2}],"paymentMethod":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"orderIds":["o1","o2"]`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	if svc.input.UserID != "u1" || !svc.input.PremiumMember {
		t.Fatalf("identity not propagated: %+v", svc.input)
	}
	if svc.input.PaymentMethod != domain.PaymentCOD {
		t.Fatalf("expected COD, got %s", svc.input.PaymentMethod)
	}
	if len(svc.input.Items) != 1 || svc.input.Items[0].ProductID != "p1" || svc.input.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", svc.input.Items)
	}
}

func TestPlaceOrderHandler_OnlineReturnsSessionURL(t *testing.T) {
	svc := &stubCheckoutSvc{
		res: &checkoutsvc.PlaceOrderResult{
			OrderIDs:    []string{"o1"},
			TotalAmount: decimal.RequireFromString("25"),
			CheckoutURL: "https://pay.example/cs_1",
		},
	}
	deps := testDeps()
	deps.CheckoutSvc = svc
	router := newTestRouter(t, deps)

	body := `{"addressId":"addr-1","items":[{"id":"p1","quantity":1}],"paymentMethod":"ONLINE"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"checkoutSessionUrl":"https://pay.example/cs_1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestPlaceOrderHandler_ValidationError(t *testing.T) {
	deps := testDeps()
	deps.CheckoutSvc = &stubCheckoutSvc{err: checkoutsvc.ErrMissingAddress}
	router := newTestRouter(t, deps)

	body := `{"items":[{"id":"p1","quantity":1}],"paymentMethod":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestPlaceOrderHandler_UnknownProduct(t *testing.T) {
	deps := testDeps()
	deps.CheckoutSvc = &stubCheckoutSvc{err: &checkoutsvc.ProductNotFoundError{ProductID: "ghost"}}
	router := newTestRouter(t, deps)

	body := `{"addressId":"addr-1","items":[{"id":"ghost","quantity":1}],"paymentMethod":"COD"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "ghost") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestListOrdersHandler(t *testing.T) {
	deps := testDeps()
	deps.CheckoutSvc = &stubCheckoutSvc{orders: []domain.Order{{ID: "o1"}}}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"id":"o1"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
