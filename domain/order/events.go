package order

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventPlaced         = "order.placed"
	EventHistoryCleared = "order.history_cleared"
)

type PlacedEvent struct {
	orderID    string
	total      decimal.Decimal
	itemCount  int
	occurredOn time.Time
}

func NewPlacedEvent(orderID string, total decimal.Decimal, itemCount int, at time.Time) *PlacedEvent {
	return &PlacedEvent{
		orderID:    orderID,
		total:      total,
		itemCount:  itemCount,
		occurredOn: at,
	}
}

func (e *PlacedEvent) EventName() string      { return EventPlaced }
func (e *PlacedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *PlacedEvent) GetAggregateID() string { return e.orderID }
func (e *PlacedEvent) OrderID() string        { return e.orderID }
func (e *PlacedEvent) Total() decimal.Decimal { return e.total }
func (e *PlacedEvent) ItemCount() int         { return e.itemCount }

// HistoryClearedEvent aggregate id is the owner of the history (the session)
type HistoryClearedEvent struct {
	ownerID    string
	cleared    int
	occurredOn time.Time
}

func NewHistoryClearedEvent(ownerID string, cleared int) *HistoryClearedEvent {
	return &HistoryClearedEvent{
		ownerID:    ownerID,
		cleared:    cleared,
		occurredOn: time.Now(),
	}
}

func (e *HistoryClearedEvent) EventName() string      { return EventHistoryCleared }
func (e *HistoryClearedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *HistoryClearedEvent) GetAggregateID() string { return e.ownerID }
func (e *HistoryClearedEvent) Cleared() int           { return e.cleared }
