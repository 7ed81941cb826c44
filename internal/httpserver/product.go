package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	productsvc "gocart/internal/service/product"
)

func listProductsHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListPublic(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": products})
	}
}

type toggleStockRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func toggleStockHandler(svc productService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toggleStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
			return
		}

		err := svc.ToggleStock(c.Request.Context(), identityFrom(c).UserID, req.ProductID)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "stock updated"})
		case errors.Is(err, productsvc.ErrNotSeller):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, productsvc.ErrProductNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, productsvc.ErrMissingProduct):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}
}
