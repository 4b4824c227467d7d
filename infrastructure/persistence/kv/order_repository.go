package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"scanorder/domain/cart"
	"scanorder/domain/order"
	"scanorder/domain/shared"
	"scanorder/infrastructure/persistence"

	"github.com/shopspring/decimal"
)

const entityOrders = "order_history"

// orderRecord persisted shape of one order
// Note: Only used for serialisation, does not contain any business logic
type orderRecord struct {
	ID       string          `json:"id"`
	Date     string          `json:"date"`
	PlacedAt *time.Time      `json:"placedAt,omitempty"`
	Items    []cart.LineItem `json:"items"`
	Total    json.Number     `json:"total"`
	Status   string          `json:"status"`
}

func fromOrderDomain(o *order.Order) orderRecord {
	rec := orderRecord{
		ID:     o.ID(),
		Date:   o.Date(),
		Items:  o.Items(),
		Total:  json.Number(o.Total().String()),
		Status: string(o.Status()),
	}
	if at := o.PlacedAt(); !at.IsZero() {
		rec.PlacedAt = &at
	}
	return rec
}

func (rec orderRecord) toDomain() (*order.Order, error) {
	total, err := decimal.NewFromString(rec.Total.String())
	if err != nil {
		return nil, fmt.Errorf("order %s: total: %w", rec.ID, err)
	}
	dto := order.ReconstructionDTO{
		ID:     rec.ID,
		Date:   rec.Date,
		Items:  rec.Items,
		Total:  total,
		Status: order.Status(rec.Status),
	}
	if rec.PlacedAt != nil {
		dto.PlacedAt = *rec.PlacedAt
	}
	return order.Reconstruct(dto)
}

// OrderRepository stores the history as a JSON array, newest first, under key
type OrderRepository struct {
	store persistence.Store
	key   string
}

func NewOrderRepository(store persistence.Store, key string) *OrderRepository {
	return &OrderRepository{store: store, key: key}
}

func (r *OrderRepository) Key() string { return r.key }

func (r *OrderRepository) Load(ctx context.Context) (order.History, error) {
	raw, err := r.store.Get(ctx, r.key)
	if errors.Is(err, persistence.ErrKeyNotFound) {
		return order.EmptyHistory(), nil
	}
	if err != nil {
		return order.EmptyHistory(), err
	}

	var records []orderRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return order.EmptyHistory(), shared.NewCorruptStateError(entityOrders, r.key, err)
	}

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := rec.toDomain()
		if err != nil {
			return order.EmptyHistory(), shared.NewCorruptStateError(entityOrders, r.key, err)
		}
		orders = append(orders, o)
	}

	h, err := order.RebuildHistory(orders)
	if err != nil {
		return order.EmptyHistory(), shared.NewCorruptStateError(entityOrders, r.key, err)
	}
	return h, nil
}

func (r *OrderRepository) Save(ctx context.Context, h order.History) error {
	orders := h.Orders()
	records := make([]orderRecord, len(orders))
	for i, o := range orders {
		records[i] = fromOrderDomain(o)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return shared.NewPersistenceError(entityOrders, err)
	}
	if err := r.store.Set(ctx, r.key, string(data)); err != nil {
		return shared.NewPersistenceError(entityOrders, err)
	}
	return nil
}

func (r *OrderRepository) Clear(ctx context.Context) error {
	if err := r.store.Delete(ctx, r.key); err != nil {
		return shared.NewPersistenceError(entityOrders, err)
	}
	return nil
}

var _ order.Repository = (*OrderRepository)(nil)
