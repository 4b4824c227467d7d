package cart

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestLineItemUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantTitle string
		wantPrice string
		extras    []string
	}{
		{"title and number price", `{"id":"A","title":"Soup","price":10,"quantity":2}`, "Soup", "10", nil},
		{"name alias", `{"id":"A","name":"Soup","price":10}`, "Soup", "10", nil},
		{"title beats name", `{"id":"A","title":"Soup","name":"Other","price":1}`, "Soup", "1", []string{"name"}},
		{"quoted price", `{"id":"A","title":"Tea","price":"2.50"}`, "Tea", "2.5", nil},
		{"opaque fields kept", `{"id":"A","title":"Tea","price":1,"category":"drinks","tags":["hot"]}`, "Tea", "1", []string{"category", "tags"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var li LineItem
			if err := json.Unmarshal([]byte(tt.input), &li); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if li.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", li.Title, tt.wantTitle)
			}
			if !li.Price.Equal(decimal.RequireFromString(tt.wantPrice)) {
				t.Errorf("Price = %s, want %s", li.Price, tt.wantPrice)
			}
			if len(li.Extras) != len(tt.extras) {
				t.Errorf("Extras = %v, want keys %v", li.Extras, tt.extras)
			}
			for _, k := range tt.extras {
				if _, ok := li.Extras[k]; !ok {
					t.Errorf("missing extra %q", k)
				}
			}
		})
	}
}

func TestLineItemMarshalWritesNumericPrice(t *testing.T) {
	li := LineItem{ID: "A", Title: "Soup", Price: decimal.RequireFromString("4.25"), Quantity: 3}
	data, err := json.Marshal(li)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"price":4.25`) {
		t.Errorf("price not written as a number: %s", data)
	}
	if strings.Contains(string(data), `"image"`) {
		t.Errorf("empty image should be omitted: %s", data)
	}
}

func TestCartRoundTrip(t *testing.T) {
	c := Empty()
	for _, li := range []LineItem{
		{ID: "A", Title: "Soup", Price: decimal.RequireFromString("3.10"), Image: "soup.png"},
		{ID: "B", Title: "Tea", Price: decimal.NewFromInt(2), Extras: map[string]json.RawMessage{"category": json.RawMessage(`"drinks"`)}},
		{ID: "A", Title: "Soup", Price: decimal.RequireFromString("3.10")},
	} {
		c = mustAdd(t, c, li)
	}

	data, err := json.Marshal(c.Items())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	restored, err := Rebuild(items)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if !restored.Equal(c) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", restored.Items(), c.Items())
	}
}
