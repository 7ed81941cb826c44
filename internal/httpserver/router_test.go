package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gocart/internal/domain"
	"gocart/internal/identity"
	"gocart/internal/payment"
	checkoutsvc "gocart/internal/service/checkout"
)

type stubIdentity struct {
	ident *identity.Identity
	err   error
}

func (s *stubIdentity) Resolve(_ context.Context, _ string) (*identity.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.ident, nil
}

type stubUserGetter struct {
	user *domain.User
	err  error
}

func (s *stubUserGetter) GetByID(_ context.Context, _ string) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

type stubProductSvc struct {
	products  []domain.Product
	toggleErr error
	toggled   []string
}

func (s *stubProductSvc) ListPublic(_ context.Context) ([]domain.Product, error) {
	return s.products, nil
}

func (s *stubProductSvc) ToggleStock(_ context.Context, _, productID string) error {
	if s.toggleErr != nil {
		return s.toggleErr
	}
	s.toggled = append(s.toggled, productID)
	return nil
}

type stubCartSvc struct {
	cart       map[string]int
	replaced   map[string]int
	replaceErr error
}

func (s *stubCartSvc) Get(_ context.Context, _ string) (map[string]int, error) {
	return s.cart, nil
}

func (s *stubCartSvc) Replace(_ context.Context, _ string, cart map[string]int) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.replaced = cart
	return nil
}

type stubCheckoutSvc struct {
	res    *checkoutsvc.PlaceOrderResult
	err    error
	orders []domain.Order
	input  checkoutsvc.PlaceOrderInput
}

func (s *stubCheckoutSvc) PlaceOrder(_ context.Context, in checkoutsvc.PlaceOrderInput) (*checkoutsvc.PlaceOrderResult, error) {
	s.input = in
	return s.res, s.err
}

func (s *stubCheckoutSvc) ListOrders(_ context.Context, _ string) ([]domain.Order, error) {
	return s.orders, nil
}

type stubCouponSvc struct {
	created   *domain.Coupon
	createErr error
	coupons   []domain.Coupon
	deleted   []string
	deleteErr error
}

func (s *stubCouponSvc) Create(_ context.Context, c *domain.Coupon) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = c
	return nil
}

func (s *stubCouponSvc) List(_ context.Context) ([]domain.Coupon, error) {
	return s.coupons, nil
}

func (s *stubCouponSvc) Delete(_ context.Context, code string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, code)
	return nil
}

type stubParser struct {
	evt *payment.Event
	err error
}

func (s *stubParser) ParseEvent(_ []byte, _ string) (*payment.Event, error) {
	return s.evt, s.err
}

type stubSettlementSvc struct {
	handled []*payment.Event
	err     error
}

func (s *stubSettlementSvc) HandleEvent(_ context.Context, evt *payment.Event) error {
	if s.err != nil {
		return s.err
	}
	s.handled = append(s.handled, evt)
	return nil
}

func testDeps() Deps {
	return Deps{
		Identity:      &stubIdentity{ident: &identity.Identity{UserID: "u1"}},
		Users:         &stubUserGetter{user: &domain.User{ID: "u1", Email: "u1@example.com"}},
		ProductSvc:    &stubProductSvc{},
		CartSvc:       &stubCartSvc{},
		CheckoutSvc:   &stubCheckoutSvc{},
		CouponSvc:     &stubCouponSvc{},
		WebhookParser: &stubParser{},
		SettlementSvc: &stubSettlementSvc{},
	}
}

func newTestRouter(t *testing.T, deps Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := buildRouter(zap.NewNop(), nil, deps)
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return router
}

func TestBuildRouter_MissingDeps(t *testing.T) {
	deps := testDeps()
	deps.CheckoutSvc = nil
	gin.SetMode(gin.TestMode)
	if _, err := buildRouter(zap.NewNop(), nil, deps); err == nil {
		t.Fatalf("expected error for missing checkout service")
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_MissingToken(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	deps := testDeps()
	deps.Identity = &stubIdentity{err: identity.ErrInvalidToken}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_ForbiddenForRegularUser(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupon", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdmin_AllowedForAdmin(t *testing.T) {
	deps := testDeps()
	deps.Identity = &stubIdentity{ident: &identity.Identity{UserID: "u1", Admin: true}}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/coupon", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMe(t *testing.T) {
	router := newTestRouter(t, testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestListProducts_Public(t *testing.T) {
	deps := testDeps()
	deps.ProductSvc = &stubProductSvc{products: []domain.Product{{ID: "p1", Name: "Keyboard"}}}
	router := newTestRouter(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
