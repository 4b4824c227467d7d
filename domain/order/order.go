/*
Package order Order subdomain

An Order is created once, from a snapshot of the cart at placement time, and is
never modified afterwards. The items are deep-copied and the total is stored, so
a historical bill stays stable whatever happens to the live cart or to pricing.

All fields are private and exposed through getters; the repository layer
rebuilds orders through Reconstruct.
*/
package order

import (
	"fmt"
	"time"

	"scanorder/domain/cart"
	"scanorder/domain/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status order lifecycle tag
type Status string

// StatusProcessing every order starts here; nothing in this package moves it on
const StatusProcessing Status = "Processing"

// DefaultDateLayout layout of the human-readable Date
const DefaultDateLayout = "2006-01-02 15:04:05"

// Order aggregate root
type Order struct {
	id       string
	date     string
	placedAt time.Time
	items    []cart.LineItem
	total    decimal.Decimal
	status   Status

	events []shared.DomainEvent
}

// NewID time-ordered order id
func NewID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate order ID: %w", err)
	}
	return id.String(), nil
}

// New snapshots c into a new order placed at placedAt.
// An empty cart cannot become an order.
func New(id string, placedAt time.Time, c cart.Cart, dateLayout string) (*Order, error) {
	if id == "" {
		return nil, shared.NewValidationError(entityOrder, "id", "order id is required")
	}
	if c.IsEmpty() {
		return nil, NewEmptyOrderItemsError()
	}
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}

	o := &Order{
		id:       id,
		date:     placedAt.Format(dateLayout),
		placedAt: placedAt,
		items:    c.Items(),
		total:    c.Total(),
		status:   StatusProcessing,
	}
	o.events = append(o.events, NewPlacedEvent(o.id, o.total, c.ItemCount(), placedAt))
	return o, nil
}

// ReconstructionDTO persisted form of an order, for repository use only
type ReconstructionDTO struct {
	ID       string
	Date     string
	PlacedAt time.Time
	Items    []cart.LineItem
	Total    decimal.Decimal
	Status   Status
}

// Reconstruct rebuilds an order from storage. The stored total is kept as is,
// never recomputed from the items.
func Reconstruct(dto ReconstructionDTO) (*Order, error) {
	if dto.ID == "" {
		return nil, fmt.Errorf("order without id")
	}
	items, err := cart.Rebuild(dto.Items)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", dto.ID, err)
	}
	if items.IsEmpty() {
		return nil, fmt.Errorf("order %s: %w", dto.ID, ErrEmptyOrderItems)
	}
	if dto.Total.IsNegative() {
		return nil, fmt.Errorf("order %s: negative total", dto.ID)
	}
	status := dto.Status
	if status == "" {
		status = StatusProcessing
	}

	return &Order{
		id:       dto.ID,
		date:     dto.Date,
		placedAt: dto.PlacedAt,
		items:    items.Items(),
		total:    dto.Total,
		status:   status,
	}, nil
}

func (o *Order) ID() string             { return o.id }
func (o *Order) Date() string           { return o.date }
func (o *Order) PlacedAt() time.Time    { return o.placedAt }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) Status() Status         { return o.status }

// Items deep copy of the snapshot
func (o *Order) Items() []cart.LineItem {
	out := make([]cart.LineItem, len(o.items))
	for i, item := range o.items {
		out[i] = item.Clone()
	}
	return out
}

// ItemCount Σ quantity over the snapshot
func (o *Order) ItemCount() int {
	n := 0
	for _, item := range o.items {
		n += item.Quantity
	}
	return n
}

// PullEvents returns and clears the recorded events
func (o *Order) PullEvents() []shared.DomainEvent {
	events := o.events
	o.events = nil
	return events
}

var _ shared.AggregateRoot = (*Order)(nil)
