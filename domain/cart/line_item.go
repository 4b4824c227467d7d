package cart

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem Cart line item - value object identified by the purchasable item's id
// Title and Price are copied from the catalog when the item is first added and never re-fetched.
type LineItem struct {
	ID       string
	Title    string
	Price    decimal.Decimal
	Quantity int
	Image    string

	// Extras carries fields the cart does not interpret, keyed by their JSON name
	Extras map[string]json.RawMessage
}

// known JSON keys; everything else lands in Extras
const (
	keyID       = "id"
	keyTitle    = "title"
	keyName     = "name"
	keyPrice    = "price"
	keyQuantity = "quantity"
	keyImage    = "image"
)

// Subtotal price × quantity
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Clone deep copy, including the opaque extras
func (li LineItem) Clone() LineItem {
	out := li
	if li.Extras != nil {
		out.Extras = make(map[string]json.RawMessage, len(li.Extras))
		for k, v := range li.Extras {
			out.Extras[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}

// Equal value equality, extras compared byte-wise
func (li LineItem) Equal(other LineItem) bool {
	if li.ID != other.ID || li.Title != other.Title || li.Image != other.Image ||
		li.Quantity != other.Quantity || !li.Price.Equal(other.Price) {
		return false
	}
	if len(li.Extras) != len(other.Extras) {
		return false
	}
	for k, v := range li.Extras {
		ov, ok := other.Extras[k]
		if !ok || !bytes.Equal(v, ov) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the flat catalog shape: known fields plus extras at top level.
// Price is written as an unquoted JSON number.
func (li LineItem) MarshalJSON() ([]byte, error) {
	m := make(map[string]json.RawMessage, len(li.Extras)+5)
	for k, v := range li.Extras {
		m[k] = v
	}

	var err error
	if m[keyID], err = json.Marshal(li.ID); err != nil {
		return nil, err
	}
	if m[keyTitle], err = json.Marshal(li.Title); err != nil {
		return nil, err
	}
	m[keyPrice] = json.RawMessage(li.Price.String())
	if m[keyQuantity], err = json.Marshal(li.Quantity); err != nil {
		return nil, err
	}
	if li.Image != "" {
		if m[keyImage], err = json.Marshal(li.Image); err != nil {
			return nil, err
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts "title" or "name" for the display name, and a quoted or
// unquoted price. Unknown fields are kept in Extras.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	var out LineItem
	if raw, ok := m[keyID]; ok {
		if err := json.Unmarshal(raw, &out.ID); err != nil {
			return fmt.Errorf("line item id: %w", err)
		}
		delete(m, keyID)
	}
	if raw, ok := m[keyTitle]; ok {
		if err := json.Unmarshal(raw, &out.Title); err != nil {
			return fmt.Errorf("line item title: %w", err)
		}
		delete(m, keyTitle)
	}
	if raw, ok := m[keyName]; ok && out.Title == "" {
		if err := json.Unmarshal(raw, &out.Title); err != nil {
			return fmt.Errorf("line item name: %w", err)
		}
		delete(m, keyName)
	}
	if raw, ok := m[keyPrice]; ok {
		if err := out.Price.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("line item price: %w", err)
		}
		delete(m, keyPrice)
	}
	if raw, ok := m[keyQuantity]; ok {
		if err := json.Unmarshal(raw, &out.Quantity); err != nil {
			return fmt.Errorf("line item quantity: %w", err)
		}
		delete(m, keyQuantity)
	}
	if raw, ok := m[keyImage]; ok {
		if err := json.Unmarshal(raw, &out.Image); err != nil {
			return fmt.Errorf("line item image: %w", err)
		}
		delete(m, keyImage)
	}
	if len(m) > 0 {
		out.Extras = m
	}

	*li = out
	return nil
}
