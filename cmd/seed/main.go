package main

import (
	"context"

	"go.uber.org/zap"

	"gocart/internal/config"
	"gocart/internal/db"
	"gocart/internal/identity"
	"gocart/internal/seed"
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
		logger.Fatal("connect db", zap.Error(err))
	}
	defer pool.Close()

	if err := seed.Apply(ctx, pool); err != nil {
		logger.Fatal("seed apply", zap.Error(err))
	}

	// Dev tokens for poking the API by hand.
	tokens := identity.NewTokenStore(pool, cfg.TokenTTL)
	for _, userID := range []string{"user_admin", "user_buyer", "user_plus", "user_seller_a"} {
		token, err := tokens.Issue(ctx, userID)
		if err != nil {
			logger.Fatal("issue token", zap.String("user_id", userID), zap.Error(err))
		}
		logger.Info("issued dev token", zap.String("user_id", userID), zap.String("token", token))
	}

	logger.Info("seed applied")
}
