package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"gocart/internal/domain"
	checkoutsvc "gocart/internal/service/checkout"
)

type placeOrderRequest struct {
	AddressID     string             `json:"addressId"`
	Items         []orderItemRequest `json:"items"`
	CouponCode    string             `json:"couponCode"`
	PaymentMethod string             `json:"paymentMethod"`
}

type orderItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

func placeOrderHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req placeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		ident := identityFrom(c)
		items := make([]checkoutsvc.ItemInput, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, checkoutsvc.ItemInput{ProductID: item.ID, Quantity: item.Quantity})
		}

		res, err := svc.PlaceOrder(c.Request.Context(), checkoutsvc.PlaceOrderInput{
			UserID:        ident.UserID,
			PremiumMember: ident.PremiumMember,
			AddressID:     req.AddressID,
			Items:         items,
			CouponCode:    req.CouponCode,
			PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		})
		if err != nil {
			status := checkoutErrorStatus(err)
			if status == http.StatusInternalServerError {
				c.JSON(status, gin.H{"error": "internal error"})
				return
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		if res.CheckoutURL != "" {
			c.JSON(http.StatusOK, gin.H{"checkoutSessionUrl": res.CheckoutURL})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     "order placed",
			"orderIds":    res.OrderIDs,
			"totalAmount": res.TotalAmount.InexactFloat64(),
		})
	}
}

func checkoutErrorStatus(err error) int {
	var (
		notFound *checkoutsvc.ProductNotFoundError
		badQty   *checkoutsvc.InvalidQuantityError
	)
	switch {
	case errors.Is(err, checkoutsvc.ErrMissingAddress),
		errors.Is(err, checkoutsvc.ErrAddressNotFound),
		errors.Is(err, checkoutsvc.ErrEmptyItems),
		errors.Is(err, checkoutsvc.ErrInvalidPaymentMethod),
		errors.Is(err, checkoutsvc.ErrCouponNotFound),
		errors.Is(err, checkoutsvc.ErrCouponNewUsersOnly),
		errors.Is(err, checkoutsvc.ErrCouponMembersOnly),
		errors.As(err, &notFound),
		errors.As(err, &badQty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func listOrdersHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context(), identityFrom(c).UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
