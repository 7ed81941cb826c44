package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gocart/internal/domain"
)

func meHandler(users userGetter) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(c.Request.Context(), identityFrom(c).UserID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": u})
	}
}
