package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartsvc "gocart/internal/service/cart"
)

func getCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), identityFrom(c).UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if cart == nil {
			cart = map[string]int{}
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

type updateCartRequest struct {
	Cart map[string]int `json:"cart"`
}

func updateCartHandler(svc cartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		err := svc.Replace(c.Request.Context(), identityFrom(c).UserID, req.Cart)
		if err != nil {
			var qtyErr *cartsvc.InvalidQuantityError
			if errors.As(err, &qtyErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": qtyErr.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
	}
}
