package httpserver

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gocart/internal/payment"
)

// stripeWebhookHandler receives payment notifications. The raw body is needed
// for signature verification, so it bypasses gin's JSON binding.
func stripeWebhookHandler(parser payment.WebhookParser, svc settlementService, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
			return
		}

		evt, err := parser.ParseEvent(body, c.GetHeader("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, payment.ErrInvalidSignature) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
				return
			}
			log.Error("webhook: parse event", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}

		if err := svc.HandleEvent(c.Request.Context(), evt); err != nil {
			// Non-2xx makes the processor redeliver; settlement is idempotent.
			log.Error("webhook: handle event",
				zap.String("type", evt.Type),
				zap.String("payment_intent_id", evt.PaymentIntentID),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}
