package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"gocart/internal/domain"
	"gocart/internal/events"
	"gocart/internal/payment"
)

// Validation errors, all raised before any order is persisted.
var (
	ErrMissingAddress       = errors.New("address required")
	ErrAddressNotFound      = errors.New("address not found")
	ErrEmptyItems           = errors.New("items required")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponNewUsersOnly   = errors.New("coupon valid for new users only")
	ErrCouponMembersOnly    = errors.New("coupon valid for members only")
)

// ProductNotFoundError indicates a submitted item references no product.
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %s", e.ProductID)
}

type productRepo interface {
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
}

type couponRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type orderRepo interface {
	CreateWithItems(ctx context.Context, o *domain.Order) error
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type userRepo interface {
	GetAddress(ctx context.Context, userID, addressID string) (*domain.Address, error)
	SetCart(ctx context.Context, userID string, cart map[string]int) error
}

// Config holds the pricing and payment-session knobs.
type Config struct {
	// ShippingFee is added to exactly one store group per checkout when the
	// buyer is not a premium member.
	ShippingFee   decimal.Decimal
	Currency      string
	SuccessURL    string
	CancelURL     string
	SessionExpiry time.Duration
}

// Service is the checkout orchestrator: it validates a checkout, splits it
// into one order per store, computes totals, and either finalizes a
// cash-on-delivery checkout or opens a payment session.
type Service struct {
	products productRepo
	coupons  couponRepo
	orders   orderRepo
	users    userRepo
	payments payment.Client
	events   *events.Publisher
	cfg      Config
	log      *zap.Logger
	newID    func() string
}

func New(
	products productRepo,
	coupons couponRepo,
	orders orderRepo,
	users userRepo,
	payments payment.Client,
	publisher *events.Publisher,
	cfg Config,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		products: products,
		coupons:  coupons,
		orders:   orders,
		users:    users,
		payments: payments,
		events:   publisher,
		cfg:      cfg,
		log:      log,
		newID:    func() string { return uuid.New().String() },
	}
}

// ItemInput is one submitted cart line.
type ItemInput struct {
	ProductID string
	Quantity  int
}

// PlaceOrderInput carries a fully resolved checkout request. PremiumMember
// comes from the identity layer so the service needs no identity dependency.
type PlaceOrderInput struct {
	UserID        string
	PremiumMember bool
	AddressID     string
	Items         []ItemInput
	CouponCode    string
	PaymentMethod domain.PaymentMethod
}

// PlaceOrderResult is the checkout outcome. CheckoutURL is set only for
// online payment; the orders then stay unpaid until settlement.
type PlaceOrderResult struct {
	OrderIDs    []string
	TotalAmount decimal.Decimal
	CheckoutURL string
}

// storeGroup collects one store's share of a checkout.
type storeGroup struct {
	storeID string
	items   []domain.OrderItem
}

var hundred = decimal.NewFromInt(100)

// PlaceOrder runs the checkout algorithm. All reads and validations complete
// before the first write, so a validation failure never leaves partial
// orders behind. A persistence failure mid-loop leaves earlier orders
// committed; that window is accepted and documented, not compensated.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*PlaceOrderResult, error) {
	if strings.TrimSpace(in.AddressID) == "" {
		return nil, ErrMissingAddress
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyItems
	}
	if !in.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	for _, item := range in.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{ProductID: item.ProductID}
		}
	}

	// The address must belong to the buyer; orders reference it by id.
	if _, err := s.users.GetAddress(ctx, in.UserID, in.AddressID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("lookup address: %w", err)
	}

	coupon, err := s.resolveCoupon(ctx, in)
	if err != nil {
		return nil, err
	}

	groups, err := s.groupByStore(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	// Per-store totals. The shipping fee is consumed by the first group, a
	// local flag rather than shared state, and each group total is rounded
	// to 2 decimal places before entering the aggregate.
	shippingApplied := false
	total := decimal.Zero
	orderIDs := make([]string, 0, len(groups))
	placed := make([]*domain.Order, 0, len(groups))

	for _, g := range groups {
		subtotal := decimal.Zero
		for _, item := range g.items {
			subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if coupon != nil {
			subtotal = subtotal.Sub(subtotal.Mul(coupon.Discount).Div(hundred))
		}
		if !in.PremiumMember && !shippingApplied {
			subtotal = subtotal.Add(s.cfg.ShippingFee)
			shippingApplied = true
		}
		groupTotal := subtotal.Round(2)
		total = total.Add(groupTotal)

		o := &domain.Order{
			ID:            s.newID(),
			UserID:        in.UserID,
			StoreID:       g.storeID,
			AddressID:     in.AddressID,
			Total:         groupTotal,
			PaymentMethod: in.PaymentMethod,
			IsCouponUsed:  coupon != nil,
			Coupon:        coupon,
			Items:         g.items,
		}
		if err := s.orders.CreateWithItems(ctx, o); err != nil {
			s.log.Error("checkout: create order",
				zap.String("user_id", in.UserID),
				zap.String("store_id", g.storeID),
				zap.Strings("committed_order_ids", orderIDs),
				zap.Error(err))
			return nil, fmt.Errorf("create order: %w", err)
		}
		orderIDs = append(orderIDs, o.ID)
		placed = append(placed, o)
	}

	for _, o := range placed {
		s.events.Publish(ctx, events.TypeOrderPlaced, o.ID, map[string]any{
			"orderId": o.ID,
			"userId":  o.UserID,
			"storeId": o.StoreID,
			"total":   o.Total,
		})
	}

	if in.PaymentMethod == domain.PaymentOnline {
		sess, err := s.payments.CreateSession(ctx, payment.CreateSessionInput{
			Amount:     total,
			Currency:   s.cfg.Currency,
			OrderIDs:   orderIDs,
			UserID:     in.UserID,
			SuccessURL: s.cfg.SuccessURL,
			CancelURL:  s.cfg.CancelURL,
			ExpiresIn:  s.cfg.SessionExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("create payment session: %w", err)
		}
		return &PlaceOrderResult{
			OrderIDs:    orderIDs,
			TotalAmount: total,
			CheckoutURL: sess.URL,
		}, nil
	}

	// Cash on delivery: the checkout is final, clear the cart now. Online
	// carts survive until settlement confirms payment.
	if err := s.users.SetCart(ctx, in.UserID, map[string]int{}); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	return &PlaceOrderResult{OrderIDs: orderIDs, TotalAmount: total}, nil
}

// ListOrders returns the user's visible order history.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) resolveCoupon(ctx context.Context, in PlaceOrderInput) (*domain.Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(in.CouponCode))
	if code == "" {
		return nil, nil
	}
	coupon, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, fmt.Errorf("lookup coupon: %w", err)
	}
	if coupon.ForNewUser {
		count, err := s.orders.CountByUser(ctx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("count orders: %w", err)
		}
		if count > 0 {
			return nil, ErrCouponNewUsersOnly
		}
	}
	if coupon.ForMember && !in.PremiumMember {
		return nil, ErrCouponMembersOnly
	}
	return coupon, nil
}

// groupByStore resolves every submitted product in one batch and partitions
// the items by owning store, preserving first-seen store order. Resolution is
// a closed loop preceding all writes: one missing product aborts the whole
// checkout before any order exists. Repeated product ids collapse into one
// line item with the quantities summed, keeping one line item per distinct
// product within an order.
func (s *Service) groupByStore(ctx context.Context, items []ItemInput) ([]storeGroup, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if !seen[item.ProductID] {
			seen[item.ProductID] = true
			ids = append(ids, item.ProductID)
		}
	}

	fetched, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	byID := make(map[string]domain.Product, len(fetched))
	for _, p := range fetched {
		byID[p.ID] = p
	}

	var groups []storeGroup
	index := make(map[string]int)
	itemAt := make(map[string][2]int, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, &ProductNotFoundError{ProductID: item.ProductID}
		}
		if at, ok := itemAt[p.ID]; ok {
			groups[at[0]].items[at[1]].Quantity += item.Quantity
			continue
		}
		i, ok := index[p.StoreID]
		if !ok {
			i = len(groups)
			index[p.StoreID] = i
			groups = append(groups, storeGroup{storeID: p.StoreID})
		}
		itemAt[p.ID] = [2]int{i, len(groups[i].items)}
		groups[i].items = append(groups[i].items, domain.OrderItem{
			ProductID: p.ID,
			Quantity:  item.Quantity,
			Price:     p.Price,
		})
	}
	return groups, nil
}
