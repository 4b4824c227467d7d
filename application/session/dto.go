package session

import (
	"encoding/json"
	"time"

	"scanorder/domain/billing"
	"scanorder/domain/cart"
	"scanorder/domain/order"

	"github.com/shopspring/decimal"
)

// ============================================================================
// Request DTOs
// ============================================================================

// UpdateQuantityRequest Delta may be negative; a pointer so that a missing field is rejected.
// A single request moves a quantity by at most 10000 units either way.
type UpdateQuantityRequest struct {
	Delta *int `json:"delta" binding:"required,min=-10000,max=10000"`
}

// UpdateUIRequest unset fields are left unchanged
type UpdateUIRequest struct {
	SidebarOpen   *bool   `json:"sidebarOpen"`
	SelectedTable *string `json:"selectedTable"`
	ToggleSidebar bool    `json:"toggleSidebar"`
}

// ============================================================================
// Response DTOs
// ============================================================================

type CartResponse struct {
	Items     []cart.LineItem `json:"items"`
	Total     json.Number     `json:"total"`
	ItemCount int             `json:"itemCount"`
}

type OrderResponse struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"`
	PlacedAt  *time.Time      `json:"placedAt,omitempty"`
	Items     []cart.LineItem `json:"items"`
	Total     json.Number     `json:"total"`
	Status    string          `json:"status"`
	ItemCount int             `json:"itemCount"`
}

type BillResponse struct {
	Lines        []cart.LineItem `json:"lines"`
	CartTotal    json.Number     `json:"cartTotal"`
	HistoryTotal json.Number     `json:"historyTotal"`
	Total        json.Number     `json:"total"`
	LinesTotal   json.Number     `json:"linesTotal"`
	Consistent   bool            `json:"consistent"`
	ItemCount    int             `json:"itemCount"`
	OrderCount   int             `json:"orderCount"`
}

type UIResponse struct {
	SidebarOpen   bool   `json:"sidebarOpen"`
	SelectedTable string `json:"selectedTable"`
}

// ============================================================================
// Mappers
// ============================================================================

func amount(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func ToCartResponse(c cart.Cart) CartResponse {
	return CartResponse{
		Items:     c.Items(),
		Total:     amount(c.Total()),
		ItemCount: c.ItemCount(),
	}
}

func ToOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		ID:        o.ID(),
		Date:      o.Date(),
		Items:     o.Items(),
		Total:     amount(o.Total()),
		Status:    string(o.Status()),
		ItemCount: o.ItemCount(),
	}
	if at := o.PlacedAt(); !at.IsZero() {
		resp.PlacedAt = &at
	}
	return resp
}

func ToOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = ToOrderResponse(o)
	}
	return out
}

func ToBillResponse(b billing.Bill) BillResponse {
	lines := b.Lines()
	if lines == nil {
		lines = []cart.LineItem{}
	}
	return BillResponse{
		Lines:        lines,
		CartTotal:    amount(b.CartTotal()),
		HistoryTotal: amount(b.HistoryTotal()),
		Total:        amount(b.Total()),
		LinesTotal:   amount(b.LinesTotal()),
		Consistent:   b.Consistent(),
		ItemCount:    b.ItemCount(),
		OrderCount:   b.OrderCount(),
	}
}

func (s *Session) UIState() UIResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return UIResponse{SidebarOpen: s.sidebarOpen, SelectedTable: s.selectedTable}
}

// ApplyUI applies the request fields that are set, toggle last
func (s *Session) ApplyUI(req UpdateUIRequest) UIResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.SidebarOpen != nil {
		s.sidebarOpen = *req.SidebarOpen
	}
	if req.SelectedTable != nil {
		s.selectedTable = *req.SelectedTable
	}
	if req.ToggleSidebar {
		s.sidebarOpen = !s.sidebarOpen
	}
	return UIResponse{SidebarOpen: s.sidebarOpen, SelectedTable: s.selectedTable}
}

// SnapshotResponse everything the ordering screens render for one session
type SnapshotResponse struct {
	ID         string          `json:"id"`
	Cart       CartResponse    `json:"cart"`
	Orders     []OrderResponse `json:"orders"`
	Bill       BillResponse    `json:"bill"`
	UI         UIResponse      `json:"ui"`
	Recoveries []string        `json:"recoveries,omitempty"`
}

// Snapshot reads the whole session under one lock
func (s *Session) Snapshot() SnapshotResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SnapshotResponse{
		ID:         s.id,
		Cart:       ToCartResponse(s.cart),
		Orders:     ToOrderResponses(s.history.Orders()),
		Bill:       ToBillResponse(billing.Aggregate(s.cart, s.history)),
		UI:         UIResponse{SidebarOpen: s.sidebarOpen, SelectedTable: s.selectedTable},
		Recoveries: append([]string(nil), s.recoveries...),
	}
}
