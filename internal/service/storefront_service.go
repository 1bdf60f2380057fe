package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-service/internal/catalog"
	"storefront-service/internal/checkout"
	"storefront-service/internal/filter"
	"storefront-service/internal/models"
	"storefront-service/internal/session"
	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrProductNotFound is returned when adding a product that is not in the catalog
var ErrProductNotFound = errors.New("product not found")

// OrderPublisher publishes placed orders to downstream consumers
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error
}

// StorefrontService handles catalog browsing, cart and checkout logic
type StorefrontService struct {
	catalog       *catalog.Catalog
	sessions      *session.Manager
	publisher     OrderPublisher
	featuredCount int
	logger        *zap.Logger
	now           func() time.Time
	newID         func() string
}

// NewStorefrontService creates a new storefront service. publisher may be nil,
// in which case placed orders are not published.
func NewStorefrontService(
	cat *catalog.Catalog,
	sessions *session.Manager,
	publisher OrderPublisher,
	featuredCount int,
) *StorefrontService {
	return &StorefrontService{
		catalog:       cat,
		sessions:      sessions,
		publisher:     publisher,
		featuredCount: featuredCount,
		logger:        util.GetLogger(),
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// BrowseResult is the catalog screen model
type BrowseResult struct {
	Products   []models.Product `json:"products"`
	Criteria   filter.Criteria  `json:"criteria"`
	Categories []string         `json:"categories"`
	MaxPrice   int64            `json:"max_price"`
}

// CartView is the cart screen model
type CartView struct {
	SessionID string            `json:"session_id"`
	Items     []models.LineItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Subtotal  int64             `json:"subtotal"`
	Saturated bool              `json:"saturated,omitempty"`
}

// CheckoutView is the checkout screen model
type CheckoutView struct {
	State checkout.State `json:"state"`
	Cart  CartView       `json:"cart"`
	Order *models.Order  `json:"order,omitempty"`
}

// Catalog returns the catalog
func (s *StorefrontService) Catalog() *catalog.Catalog {
	return s.catalog
}

// DefaultCriteria returns criteria matching the whole catalog
func (s *StorefrontService) DefaultCriteria() filter.Criteria {
	return filter.Default(s.catalog)
}

// Featured returns the products shown on the home screen
func (s *StorefrontService) Featured() []models.Product {
	return s.catalog.Featured(s.featuredCount)
}

// Browse filters the catalog
func (s *StorefrontService) Browse(ctx context.Context, criteria filter.Criteria) BrowseResult {
	_, span := util.StartSpan(ctx, "StorefrontService.Browse")
	defer span.End()

	products := filter.Apply(s.catalog.Products(), criteria)
	util.FilterResultSize.Observe(float64(len(products)))

	return BrowseResult{
		Products:   products,
		Criteria:   criteria,
		Categories: filter.CategoryOptions(s.catalog),
		MaxPrice:   s.catalog.MaxPrice(),
	}
}

// Product resolves a product by id. The boolean is false for unknown ids.
func (s *StorefrontService) Product(ctx context.Context, id string) (models.Product, bool) {
	_, span := util.StartSpan(ctx, "StorefrontService.Product")
	defer span.End()

	p, ok := s.catalog.FindByID(id)
	if ok {
		util.ProductLookupsTotal.WithLabelValues("found").Inc()
	} else {
		util.ProductLookupsTotal.WithLabelValues("not_found").Inc()
	}
	return p, ok
}

// Cart returns the cart of a session
func (s *StorefrontService) Cart(ctx context.Context, sessionID string) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.Cart")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newCartView(sess), nil
}

// AddItem adds quantity units of a product to the session cart. Adding after
// an order was placed starts a new checkout.
func (s *StorefrontService) AddItem(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.AddItem")
	defer span.End()

	product, ok := s.catalog.FindByID(productID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	var saturated bool
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		if sess.Checkout.State(sess.Cart) == checkout.StatePlaced {
			sess.Checkout.Reset()
		}
		saturated = sess.Cart.Add(product, quantity)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("add").Inc()
	if saturated {
		util.CartSaturationsTotal.Inc()
		s.logger.Info("Cart line saturated",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID))
	}

	view := newCartView(sess)
	view.Saturated = saturated
	return view, nil
}

// UpdateQuantity sets the quantity of a line. Unknown ids are ignored.
func (s *StorefrontService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.UpdateQuantity")
	defer span.End()

	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.UpdateQuantity(productID, quantity)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("update").Inc()
	return newCartView(sess), nil
}

// RemoveItem deletes a line. Unknown ids are ignored.
func (s *StorefrontService) RemoveItem(ctx context.Context, sessionID, productID string) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.RemoveItem")
	defer span.End()

	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Remove(productID)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to remove item: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("remove").Inc()
	return newCartView(sess), nil
}

// ClearCart empties the session cart
func (s *StorefrontService) ClearCart(ctx context.Context, sessionID string) (*CartView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.ClearCart")
	defer span.End()

	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		sess.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	util.CartMutationsTotal.WithLabelValues("clear").Inc()
	return newCartView(sess), nil
}

// Checkout returns the checkout state of a session
func (s *StorefrontService) Checkout(ctx context.Context, sessionID string) (*CheckoutView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.Checkout")
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return newCheckoutView(sess), nil
}

// PlaceOrder places the session's order. It returns checkout.ErrCartEmpty
// when there is nothing to place; placing twice returns the same order.
func (s *StorefrontService) PlaceOrder(ctx context.Context, sessionID string) (*CheckoutView, error) {
	ctx, span := util.StartSpan(ctx, "StorefrontService.PlaceOrder")
	defer span.End()

	var (
		order       models.Order
		newlyPlaced bool
	)
	sess, err := s.sessions.Update(ctx, sessionID, func(sess *session.Session) error {
		newlyPlaced = sess.Checkout.State(sess.Cart) == checkout.StateReviewing

		var err error
		order, err = sess.Checkout.PlaceOrder(sess.Cart, s.newID(), s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, checkout.ErrCartEmpty) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if newlyPlaced {
		util.OrdersPlacedTotal.Inc()
		util.OrderValueCents.Observe(float64(order.Subtotal))
		s.logger.Info("Order placed",
			zap.String("order_id", order.ID),
			zap.String("session_id", sessionID),
			zap.Int("item_count", order.ItemCount),
			zap.Int64("subtotal", order.Subtotal))

		s.publishOrderPlaced(ctx, sessionID, order)
	}

	return newCheckoutView(sess), nil
}

func (s *StorefrontService) publishOrderPlaced(ctx context.Context, sessionID string, order models.Order) {
	if s.publisher == nil {
		return
	}

	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   s.newID(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: s.now(),
		},
		OrderID:   order.ID,
		SessionID: sessionID,
		ItemCount: order.ItemCount,
		Subtotal:  order.Subtotal,
		Items:     models.NewOrderItemData(order.Items),
	}

	if err := s.publisher.PublishOrderPlaced(ctx, event); err != nil {
		util.OrderEventsPublishFailed.Inc()
		s.logger.Error("Failed to publish OrderPlaced event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

func newCartView(sess *session.Session) *CartView {
	return &CartView{
		SessionID: sess.ID,
		Items:     sess.Cart.Items(),
		ItemCount: sess.Cart.ItemCount(),
		Subtotal:  sess.Cart.Subtotal(),
	}
}

func newCheckoutView(sess *session.Session) *CheckoutView {
	view := &CheckoutView{
		State: sess.Checkout.State(sess.Cart),
		Cart:  *newCartView(sess),
	}
	if order, ok := sess.Checkout.Order(); ok {
		view.Order = &order
	}
	return view
}
