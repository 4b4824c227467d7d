package shared

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type testEvent struct {
	name string
	id   string
	at   time.Time
}

func (e testEvent) EventName() string      { return e.name }
func (e testEvent) OccurredOn() time.Time  { return e.at }
func (e testEvent) GetAggregateID() string { return e.id }

func TestDomainErrorClassification(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := NewPersistenceError("cart", cause)

	if !errors.Is(err, ErrPersistence) {
		t.Error("expected errors.Is(err, ErrPersistence)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected the cause to be reachable through errors.Is")
	}
	if errors.Is(err, ErrCorruptState) {
		t.Error("persistence error must not match ErrCorruptState")
	}
	if !strings.Contains(err.Error(), "quota exceeded") {
		t.Errorf("Error() = %q, want cause in message", err.Error())
	}

	var stacker Stacker
	if !errors.As(err, &stacker) || len(stacker.Stack()) == 0 {
		t.Error("expected a captured stack")
	}

	validation := NewValidationError("line_item", "id", "line item id is required")
	var domainErr *DomainError
	if !errors.As(validation, &domainErr) || domainErr.Field != "id" {
		t.Errorf("validation error field = %+v", domainErr)
	}
	if !errors.Is(validation, ErrInvalidInput) {
		t.Error("expected errors.Is(validation, ErrInvalidInput)")
	}
}

func TestEventBusPublish(t *testing.T) {
	bus := NewEventBus()
	var got []string
	if err := bus.Subscribe("order.placed", NewFuncHandler("collector", func(e DomainEvent) error {
		got = append(got, e.GetAggregateID())
		return nil
	})); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if err := bus.Subscribe("order.placed", NewFuncHandler("collector", nil)); err == nil {
		t.Error("duplicate handler name should be rejected")
	}

	if err := bus.Publish(testEvent{name: "order.placed", id: "o-1", at: time.Now()}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if err := bus.Publish(testEvent{name: "order.placed", id: "", at: time.Now()}); err == nil {
		t.Error("event without aggregate id should be rejected")
	}

	if len(got) != 1 || got[0] != "o-1" {
		t.Errorf("handler saw %v", got)
	}

	history := bus.GetPublishHistory()
	if len(history) != 1 || !history[0].Success {
		t.Errorf("history = %+v", history)
	}
}

func TestEventBusHandlerFailure(t *testing.T) {
	bus := NewEventBus()
	boom := errors.New("boom")
	handler := NewFuncHandler("failing", func(DomainEvent) error { return boom })
	_ = bus.Subscribe("order.placed", handler)

	err := bus.Publish(testEvent{name: "order.placed", id: "o-1", at: time.Now()})
	if !errors.Is(err, boom) {
		t.Fatalf("Publish() error = %v, want wrapped boom", err)
	}
	if history := bus.GetPublishHistory(); history[0].Success {
		t.Error("failed publish recorded as success")
	}

	bus.Unsubscribe("order.placed", handler)
	if err := bus.Publish(testEvent{name: "order.placed", id: "o-2", at: time.Now()}); err != nil {
		t.Errorf("Publish() after unsubscribe error = %v", err)
	}
}
