package session

import (
	"time"

	"scanorder/domain/order"
	"scanorder/domain/shared"

	"go.uber.org/zap"
)

type options struct {
	id         string
	logger     *zap.Logger
	publisher  shared.EventPublisher
	policy     Policy
	newID      func() (string, error)
	now        func() time.Time
	dateLayout string
}

func defaultOptions() options {
	return options{
		id:         "default",
		policy:     PolicyKeep,
		newID:      order.NewID,
		now:        time.Now,
		dateLayout: order.DefaultDateLayout,
	}
}

// Option configures a Session
type Option func(*options)

// WithID names the session in logs and events
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPublisher receives OrderPlaced and HistoryCleared after they are committed
func WithPublisher(p shared.EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithIDGenerator replaces the UUIDv7 order id generator
func WithIDGenerator(fn func() (string, error)) Option {
	return func(o *options) { o.newID = fn }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithDateLayout time layout of Order.Date
func WithDateLayout(layout string) Option {
	return func(o *options) {
		if layout != "" {
			o.dateLayout = layout
		}
	}
}
