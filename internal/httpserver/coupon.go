package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"gocart/internal/domain"
	couponsvc "gocart/internal/service/coupon"
)

type createCouponRequest struct {
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount"`
	ForNewUser  bool            `json:"forNewUser"`
	ForMember   bool            `json:"forMember"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

func createCouponHandler(svc couponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		coupon := &domain.Coupon{
			Code:        req.Code,
			Description: req.Description,
			Discount:    req.Discount,
			ForNewUser:  req.ForNewUser,
			ForMember:   req.ForMember,
			ExpiresAt:   req.ExpiresAt,
		}
		err := svc.Create(c.Request.Context(), coupon)
		switch {
		case err == nil:
			c.JSON(http.StatusCreated, gin.H{"coupon": coupon})
		case errors.Is(err, couponsvc.ErrMissingCode),
			errors.Is(err, couponsvc.ErrInvalidDiscount),
			errors.Is(err, couponsvc.ErrExpiryInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrAlreadyExists):
			c.JSON(http.StatusConflict, gin.H{"error": "coupon already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}
}

func listCouponsHandler(svc couponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if coupons == nil {
			coupons = []domain.Coupon{}
		}
		c.JSON(http.StatusOK, gin.H{"coupons": coupons})
	}
}

func deleteCouponHandler(svc couponService) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		err := svc.Delete(c.Request.Context(), code)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, gin.H{"message": "coupon deleted"})
		case errors.Is(err, couponsvc.ErrMissingCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "coupon not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
	}
}
