package shared

// AggregateRoot is the entry point of a consistency boundary.
// It records domain events while it changes; the application layer pulls and
// publishes them once the change has been committed.
type AggregateRoot interface {
	ID() string
	PullEvents() []DomainEvent
}
