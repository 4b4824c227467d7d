package kv

import "scanorder/infrastructure/persistence"

// Keyspace names the two keys of a session: <Prefix><sessionID>:<CartKey> and
// <Prefix><sessionID>:<OrdersKey>. An empty session id uses the bare keys, which
// is the single-device layout.
type Keyspace struct {
	Prefix    string
	CartKey   string
	OrdersKey string
}

func (k Keyspace) CartKeyFor(sessionID string) string {
	return k.keyFor(sessionID, k.CartKey)
}

func (k Keyspace) OrdersKeyFor(sessionID string) string {
	return k.keyFor(sessionID, k.OrdersKey)
}

func (k Keyspace) keyFor(sessionID, key string) string {
	if sessionID == "" {
		return key
	}
	return k.Prefix + sessionID + ":" + key
}

// Repositories builds both repositories of a session over store
func (k Keyspace) Repositories(store persistence.Store, sessionID string) (*CartRepository, *OrderRepository) {
	return NewCartRepository(store, k.CartKeyFor(sessionID)), NewOrderRepository(store, k.OrdersKeyFor(sessionID))
}
