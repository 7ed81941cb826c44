package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"gocart/internal/config"
	"gocart/internal/db"
	"gocart/internal/events"
	"gocart/internal/httpserver"
	"gocart/internal/identity"
	"gocart/internal/metrics"
	"gocart/internal/payment"
	couponrepo "gocart/internal/repository/coupon"
	orderrepo "gocart/internal/repository/order"
	productrepo "gocart/internal/repository/product"
	storerepo "gocart/internal/repository/store"
	userrepo "gocart/internal/repository/user"
	cartsvc "gocart/internal/service/cart"
	checkoutsvc "gocart/internal/service/checkout"
	couponsvc "gocart/internal/service/coupon"
	productsvc "gocart/internal/service/product"
	settlementsvc "gocart/internal/service/settlement"
)

func main() {
	cfg := config.FromEnv()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatal("connect to db", zap.Error(err))
	}
	defer pool.Close()

	publisher := events.NewPublisher(cfg.KafkaBrokers, cfg.EventsTopic, logger)
	defer publisher.Close()

	userRepo := userrepo.NewPostgres(pool)
	storeRepo := storerepo.NewPostgres(pool)
	productRepo := productrepo.NewPostgres(pool, logger)
	couponRepo := couponrepo.NewPostgres(pool)
	orderRepo := orderrepo.NewPostgres(pool, logger)

	stripeClient := payment.NewStripeClient(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	checkoutService := checkoutsvc.New(productRepo, couponRepo, orderRepo, userRepo, stripeClient, publisher, checkoutsvc.Config{
		ShippingFee:   cfg.ShippingFee,
		Currency:      cfg.Currency,
		SuccessURL:    cfg.CheckoutSuccessURL,
		CancelURL:     cfg.CheckoutCancelURL,
		SessionExpiry: cfg.SessionExpiry,
	}, logger)
	settlementService := settlementsvc.New(stripeClient, orderRepo, userRepo, publisher, logger)
	cartService := cartsvc.New(userRepo, logger)
	couponService := couponsvc.New(couponRepo, publisher, logger)
	productService := productsvc.New(productRepo, storeRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, pool, httpserver.Deps{
		Identity:      identity.NewTokenStore(pool, cfg.TokenTTL),
		Users:         userRepo,
		ProductSvc:    productService,
		CartSvc:       cartService,
		CheckoutSvc:   checkoutService,
		CouponSvc:     couponService,
		WebhookParser: stripeClient,
		SettlementSvc: settlementService,
		Metrics:       metrics.New("api"),
	})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
