package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"gocart/internal/domain"
	"gocart/internal/identity"
	"gocart/internal/metrics"
	"gocart/internal/payment"
	"gocart/internal/service/checkout"
)

type userGetter interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type productService interface {
	ListPublic(ctx context.Context) ([]domain.Product, error)
	ToggleStock(ctx context.Context, ownerUserID, productID string) error
}

type cartService interface {
	Get(ctx context.Context, userID string) (map[string]int, error)
	Replace(ctx context.Context, userID string, cart map[string]int) error
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, in checkout.PlaceOrderInput) (*checkout.PlaceOrderResult, error)
	ListOrders(ctx context.Context, userID string) ([]domain.Order, error)
}

type couponService interface {
	Create(ctx context.Context, c *domain.Coupon) error
	List(ctx context.Context) ([]domain.Coupon, error)
	Delete(ctx context.Context, code string) error
}

type settlementService interface {
	HandleEvent(ctx context.Context, evt *payment.Event) error
}

// Deps carries everything the router needs.
type Deps struct {
	Identity    identity.Provider
	Users       userGetter
	ProductSvc  productService
	CartSvc     cartService
	CheckoutSvc checkoutService
	CouponSvc   couponService

	// Webhook pipeline: parser verifies the signature, settlement applies
	// the outcome.
	WebhookParser payment.WebhookParser
	SettlementSvc settlementService

	Metrics *metrics.ServerMetrics
}

// buildRouter wires routes for the API.
func buildRouter(log *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	switch {
	case deps.Identity == nil:
		return nil, errors.New("identity provider is required")
	case deps.Users == nil:
		return nil, errors.New("user repository is required")
	case deps.ProductSvc == nil:
		return nil, errors.New("product service is required")
	case deps.CartSvc == nil:
		return nil, errors.New("cart service is required")
	case deps.CheckoutSvc == nil:
		return nil, errors.New("checkout service is required")
	case deps.CouponSvc == nil:
		return nil, errors.New("coupon service is required")
	case deps.WebhookParser == nil:
		return nil, errors.New("webhook parser is required")
	case deps.SettlementSvc == nil:
		return nil, errors.New("settlement service is required")
	}

	router := gin.New()
	router.Use(requestLogger(log), gin.Recovery())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.Middleware())
	}
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "Stripe-Signature"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api")
	api.GET("/products", listProductsHandler(deps.ProductSvc))
	api.POST("/stripe", stripeWebhookHandler(deps.WebhookParser, deps.SettlementSvc, log))

	authed := api.Group("", authMiddleware(deps.Identity))
	authed.GET("/me", meHandler(deps.Users))
	authed.GET("/cart", getCartHandler(deps.CartSvc))
	authed.POST("/cart", updateCartHandler(deps.CartSvc))
	authed.POST("/orders", placeOrderHandler(deps.CheckoutSvc))
	authed.GET("/orders", listOrdersHandler(deps.CheckoutSvc))
	authed.POST("/store/stock-toggle", toggleStockHandler(deps.ProductSvc))

	admin := authed.Group("/admin", adminMiddleware())
	admin.POST("/coupon", createCouponHandler(deps.CouponSvc))
	admin.GET("/coupon", listCouponsHandler(deps.CouponSvc))
	admin.DELETE("/coupon", deleteCouponHandler(deps.CouponSvc))

	return router, nil
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
