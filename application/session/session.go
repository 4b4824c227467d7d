/*
Package session is the application layer of one ordering session: one cart and
one order history, for one table or device.

A Session is the only writer of its two persisted collections. Every operation
runs under the session mutex and finishes its store write before the next one
starts, so observers never see a half-applied change. In particular PlaceOrder
never exposes a state where the new order and the old cart both exist.

Write failures are handled by the configured Policy:

	PolicyKeep      memory keeps the change; error matches ErrNotDurable and shared.ErrPersistence
	PolicyRollback  memory is restored;      error matches ErrRolledBack and shared.ErrPersistence

Two sessions (or two processes) over the same keys are not coordinated: the
store is last writer wins.
*/
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"scanorder/domain/billing"
	"scanorder/domain/cart"
	"scanorder/domain/order"
	"scanorder/domain/shared"
	"scanorder/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Session cart store, order history and order placement for one session
type Session struct {
	mu sync.Mutex

	id        string
	cart      cart.Cart
	history   order.History
	cartRepo  cart.Repository
	orderRepo order.Repository

	publisher  shared.EventPublisher
	policy     Policy
	newID      func() (string, error)
	now        func() time.Time
	dateLayout string
	log        *zap.Logger

	recoveries []string

	// UI-only, never persisted
	sidebarOpen   bool
	selectedTable string
}

// Open loads both collections. Missing keys give empty collections; corrupt data
// is logged, cleared and replaced by an empty collection. Any other read failure
// is returned.
func Open(ctx context.Context, cartRepo cart.Repository, orderRepo order.Repository, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	log := o.logger
	if log == nil {
		log = logger.WithSession(o.id)
	} else {
		log = log.Named("session").With(zap.String("session_id", o.id))
	}

	s := &Session{
		id:         o.id,
		cartRepo:   cartRepo,
		orderRepo:  orderRepo,
		publisher:  o.publisher,
		policy:     o.policy,
		newID:      o.newID,
		now:        o.now,
		dateLayout: o.dateLayout,
		log:        log,
	}

	c, err := cartRepo.Load(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrCorruptState) {
			return nil, fmt.Errorf("open session %s: load cart: %w", s.id, err)
		}
		s.resetCorrupt(ctx, "cart", keyOf(cartRepo, "cart"), err, cartRepo.Clear)
		c = cart.Empty()
	}

	h, err := orderRepo.Load(ctx)
	if err != nil {
		if !errors.Is(err, shared.ErrCorruptState) {
			return nil, fmt.Errorf("open session %s: load order history: %w", s.id, err)
		}
		s.resetCorrupt(ctx, "order_history", keyOf(orderRepo, "orders"), err, orderRepo.Clear)
		h = order.EmptyHistory()
	}

	s.cart = c
	s.history = h
	s.log.Debug("Session opened",
		zap.Int("cart_items", c.Len()),
		zap.Int("orders", h.Len()))
	return s, nil
}

func (s *Session) resetCorrupt(ctx context.Context, entity, key string, cause error, reset func(context.Context) error) {
	s.recoveries = append(s.recoveries, key)
	s.log.Warn("recovered: corrupt state reset",
		zap.String("entity", entity),
		zap.String("key", key),
		zap.Error(cause))
	if err := reset(ctx); err != nil {
		s.log.Warn("Failed to clear corrupt state", zap.String("key", key), zap.Error(err))
	}
}

func keyOf(repo any, fallback string) string {
	if k, ok := repo.(interface{ Key() string }); ok {
		return k.Key()
	}
	return fallback
}

func (s *Session) ID() string { return s.id }

// Recoveries keys that held corrupt data when the session was opened
func (s *Session) Recoveries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.recoveries...)
}

// ============================================================================
// Cart operations
// ============================================================================

// AddToCart adds one unit of item. Invalid items are rejected and nothing is written.
func (s *Session) AddToCart(ctx context.Context, item cart.LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.cart.Add(item)
	if err != nil {
		return err
	}
	return s.commitCart(ctx, next, "add_to_cart", zap.String("item_id", item.ID))
}

// RemoveFromCart removes the line item; an unknown id leaves the cart as it is
func (s *Session) RemoveFromCart(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitCart(ctx, s.cart.Remove(id), "remove_from_cart", zap.String("item_id", id))
}

// UpdateQuantity adds delta to the item's quantity; reaching zero removes it
func (s *Session) UpdateQuantity(ctx context.Context, id string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.commitCart(ctx, s.cart.UpdateQuantity(id, delta), "update_quantity",
		zap.String("item_id", id), zap.Int("delta", delta))
}

// ClearCart empties the cart and deletes its key
func (s *Session) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.cart
	s.cart = cart.Empty()
	if err := s.cartRepo.Clear(ctx); err != nil {
		return s.writeFailed("clear_cart", err, func() { s.cart = prev })
	}
	return nil
}

func (s *Session) commitCart(ctx context.Context, next cart.Cart, op string, fields ...zap.Field) error {
	prev := s.cart
	s.cart = next

	if err := s.cartRepo.Save(ctx, next); err != nil {
		return s.writeFailed(op, err, func() { s.cart = prev }, fields...)
	}
	return nil
}

// ============================================================================
// Order lifecycle
// ============================================================================

// PlaceOrder turns the cart into an order at the head of the history and empties
// the cart. An empty cart is not an error: nothing happens and (nil, nil) is returned.
//
// The history is written before the cart is cleared, so a crash in between
// leaves a duplicate cart rather than a lost order.
func (s *Session) PlaceOrder(ctx context.Context) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return nil, nil
	}

	id, err := s.newID()
	if err != nil {
		return nil, err
	}
	if _, dup := s.history.Find(id); dup {
		return nil, order.NewDuplicateOrderError(id)
	}
	placed, err := order.New(id, s.now(), s.cart, s.dateLayout)
	if err != nil {
		return nil, err
	}

	prevCart, prevHistory := s.cart, s.history
	restore := func() {
		s.cart = prevCart
		s.history = prevHistory
	}

	s.history = s.history.Record(placed)
	s.cart = cart.Empty()

	if err := s.orderRepo.Save(ctx, s.history); err != nil {
		err = s.writeFailed("place_order", err, restore, zap.String("order_id", id))
		if errors.Is(err, ErrRolledBack) {
			return nil, err
		}
		s.publish(placed.PullEvents()...)
		return placed, err
	}

	if err := s.cartRepo.Clear(ctx); err != nil {
		err = s.writeFailed("place_order", err, restore, zap.String("order_id", id))
		if errors.Is(err, ErrRolledBack) {
			s.compensateHistory(ctx, prevHistory)
			return nil, err
		}
		s.publish(placed.PullEvents()...)
		return placed, err
	}

	s.log.Info("Order placed",
		zap.String("order_id", placed.ID()),
		zap.String("total", placed.Total().String()),
		zap.Int("items", placed.ItemCount()))
	s.publish(placed.PullEvents()...)
	return placed, nil
}

// compensateHistory puts the previous history back after the cart could not be cleared
func (s *Session) compensateHistory(ctx context.Context, prev order.History) {
	var err error
	if prev.IsEmpty() {
		err = s.orderRepo.Clear(ctx)
	} else {
		err = s.orderRepo.Save(ctx, prev)
	}
	if err != nil {
		s.log.Error("Failed to restore order history after rollback", zap.Error(err))
	}
}

// ClearOrders empties the history and deletes its key
func (s *Session) ClearOrders(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.history
	s.history = order.EmptyHistory()
	if err := s.orderRepo.Clear(ctx); err != nil {
		err = s.writeFailed("clear_orders", err, func() { s.history = prev })
		if errors.Is(err, ErrRolledBack) {
			return err
		}
		s.publishCleared(prev.Len())
		return err
	}
	s.publishCleared(prev.Len())
	return nil
}

func (s *Session) publishCleared(n int) {
	if n > 0 {
		s.publish(order.NewHistoryClearedEvent(s.id, n))
	}
}

// writeFailed applies the persistence policy to a failed store write
func (s *Session) writeFailed(op string, err error, restore func(), fields ...zap.Field) error {
	fields = append(fields, zap.String("op", op), zap.String("policy", string(s.policy)), zap.Error(err))

	if s.policy == PolicyRollback {
		restore()
		s.log.Warn("Store write failed, change rolled back", fields...)
		return fmt.Errorf("%s: %w: %w", op, ErrRolledBack, err)
	}
	s.log.Warn("Store write failed, change kept in memory only", fields...)
	return fmt.Errorf("%s: %w: %w", op, ErrNotDurable, err)
}

func (s *Session) publish(events ...shared.DomainEvent) {
	if s.publisher == nil {
		return
	}
	for _, e := range events {
		if err := s.publisher.Publish(e); err != nil {
			s.log.Warn("Failed to publish event",
				zap.String("event", e.EventName()),
				zap.String("aggregate_id", e.GetAggregateID()),
				zap.Error(err))
		}
	}
}

// ============================================================================
// Reads, always derived from the current state
// ============================================================================

// Cart current cart value; it is immutable, so holding it is safe
func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

func (s *Session) Items() []cart.LineItem {
	return s.Cart().Items()
}

func (s *Session) CartTotal() decimal.Decimal {
	return s.Cart().Total()
}

func (s *Session) ItemCount() int {
	return s.Cart().ItemCount()
}

func (s *Session) History() order.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history
}

// Orders newest first
func (s *Session) Orders() []*order.Order {
	return s.History().Orders()
}

// Order looks up a placed order by id
func (s *Session) Order(id string) (*order.Order, error) {
	if o, ok := s.History().Find(id); ok {
		return o, nil
	}
	return nil, shared.NewNotFoundError("order")
}

// Bill consolidated view of the cart and the history, computed on each call
func (s *Session) Bill() billing.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return billing.Aggregate(s.cart, s.history)
}

// ============================================================================
// UI flags
// ============================================================================

func (s *Session) SidebarOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarOpen
}

func (s *Session) SetSidebarOpen(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = open
}

// ToggleSidebar flips the flag and returns the new value
func (s *Session) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarOpen = !s.sidebarOpen
	return s.sidebarOpen
}

func (s *Session) SelectedTable() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedTable
}

func (s *Session) SelectTable(table string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedTable = table
}
