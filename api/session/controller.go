/*
Package session exposes one ordering session per table over HTTP.

Every route lives under /sessions/:sessionId; the session is opened from the
store on first use, except for DELETE on the session itself, which never reads
the store. Writes answer with the new state. A write the store did not
take is still answered with 200 and a warning when the persistence policy keeps
changes in memory, and with 507 when it rolls them back.
*/
package session

import (
	"net/http"

	"scanorder/api/ctxutil"
	"scanorder/api/middleware"
	"scanorder/api/response"
	sessionapp "scanorder/application/session"
	"scanorder/domain/cart"
	"scanorder/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller session controller
type Controller struct {
	manager *sessionapp.Manager
}

func NewController(manager *sessionapp.Manager) *Controller {
	return &Controller{manager: manager}
}

// RegisterRoutes registers the session routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.DELETE("/sessions/:"+middleware.SessionParam, c.EndSession)

	g := router.Group("/sessions/:"+middleware.SessionParam, middleware.SessionMiddleware(c.manager))
	{
		g.GET("", c.GetSession)

		g.GET("/cart", c.GetCart)
		g.DELETE("/cart", c.ClearCart)
		g.POST("/cart/items", c.AddItem)
		g.PATCH("/cart/items/:itemId", c.UpdateQuantity)
		g.DELETE("/cart/items/:itemId", c.RemoveItem)

		g.GET("/orders", c.ListOrders)
		g.GET("/orders/:orderId", c.GetOrder)
		g.POST("/orders", c.PlaceOrder)
		g.DELETE("/orders", c.ClearOrders)

		g.GET("/bill", c.GetBill)

		g.GET("/ui", c.GetUI)
		g.PUT("/ui", c.UpdateUI)
	}
}

func current(ctx *gin.Context) (*sessionapp.Session, bool) {
	s, ok := middleware.SessionFrom(ctx)
	if !ok {
		response.HandleAppError(ctx, errors.SessionNotFound())
	}
	return s, ok
}

// GetSession GET /api/v1/sessions/:sessionId
func (c *Controller) GetSession(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	response.HandleSuccess(ctx, s.Snapshot(), "session retrieved successfully")
}

// EndSession DELETE /api/v1/sessions/:sessionId
// The persisted cart and history are kept; only the open session is dropped.
func (c *Controller) EndSession(ctx *gin.Context) {
	id := ctx.Param(middleware.SessionParam)
	if err := sessionapp.ValidateID(id); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	c.manager.End(id)
	response.HandleNoContent(ctx)
}

// GetCart GET /api/v1/sessions/:sessionId/cart
func (c *Controller) GetCart(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	response.HandleSuccess(ctx, sessionapp.ToCartResponse(s.Cart()), "cart retrieved successfully")
}

// ClearCart DELETE /api/v1/sessions/:sessionId/cart
func (c *Controller) ClearCart(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	err := s.ClearCart(ctxutil.WithRequestID(ctx))
	response.HandleResult(ctx, err, http.StatusOK, sessionapp.ToCartResponse(s.Cart()), "cart cleared")
}

// AddItem POST /api/v1/sessions/:sessionId/cart/items
// The body is a menu item; quantity in the body is ignored, one unit is added.
func (c *Controller) AddItem(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}

	var item cart.LineItem
	if err := ctx.ShouldBindJSON(&item); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	err := s.AddToCart(ctxutil.WithRequestID(ctx), item)
	response.HandleResult(ctx, err, http.StatusOK, sessionapp.ToCartResponse(s.Cart()), "item added to cart")
}

// UpdateQuantity PATCH /api/v1/sessions/:sessionId/cart/items/:itemId
func (c *Controller) UpdateQuantity(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}

	var req sessionapp.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	err := s.UpdateQuantity(ctxutil.WithRequestID(ctx), ctx.Param("itemId"), *req.Delta)
	response.HandleResult(ctx, err, http.StatusOK, sessionapp.ToCartResponse(s.Cart()), "quantity updated")
}

// RemoveItem DELETE /api/v1/sessions/:sessionId/cart/items/:itemId
// Removing an item that is not in the cart is not an error.
func (c *Controller) RemoveItem(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	err := s.RemoveFromCart(ctxutil.WithRequestID(ctx), ctx.Param("itemId"))
	response.HandleResult(ctx, err, http.StatusOK, sessionapp.ToCartResponse(s.Cart()), "item removed from cart")
}

// ListOrders GET /api/v1/sessions/:sessionId/orders, newest first
func (c *Controller) ListOrders(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	response.HandleSuccess(ctx, sessionapp.ToOrderResponses(s.Orders()), "orders retrieved successfully")
}

// GetOrder GET /api/v1/sessions/:sessionId/orders/:orderId
func (c *Controller) GetOrder(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	o, err := s.Order(ctx.Param("orderId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, sessionapp.ToOrderResponse(o), "order retrieved successfully")
}

// PlaceOrder POST /api/v1/sessions/:sessionId/orders
//
//	non-empty cart        201 with the order
//	empty cart            200, no data, nothing placed
//	order id reused       409, nothing placed
//	store write failed    200 with warning (keep) or 507 (rollback)
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}

	placed, err := s.PlaceOrder(ctxutil.WithRequestID(ctx))
	if placed == nil && err == nil {
		response.HandleSuccess(ctx, nil, "cart is empty, no order placed")
		return
	}
	if placed == nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleResult(ctx, err, http.StatusCreated, sessionapp.ToOrderResponse(placed), "order placed")
}

// ClearOrders DELETE /api/v1/sessions/:sessionId/orders
func (c *Controller) ClearOrders(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	err := s.ClearOrders(ctxutil.WithRequestID(ctx))
	response.HandleResult(ctx, err, http.StatusOK, sessionapp.ToOrderResponses(s.Orders()), "order history cleared")
}

// GetBill GET /api/v1/sessions/:sessionId/bill
func (c *Controller) GetBill(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	response.HandleSuccess(ctx, sessionapp.ToBillResponse(s.Bill()), "bill retrieved successfully")
}

// GetUI GET /api/v1/sessions/:sessionId/ui
func (c *Controller) GetUI(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}
	response.HandleSuccess(ctx, s.UIState(), "ui state retrieved successfully")
}

// UpdateUI PUT /api/v1/sessions/:sessionId/ui
func (c *Controller) UpdateUI(ctx *gin.Context) {
	s, ok := current(ctx)
	if !ok {
		return
	}

	var req sessionapp.UpdateUIRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}
	response.HandleSuccess(ctx, s.ApplyUI(req), "ui state updated")
}
