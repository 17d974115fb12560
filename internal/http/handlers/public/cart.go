package public

import (
	"errors"

	"github.com/mazraa-market/internal/cart"
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/i18n"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCart returns the cart contents, totals and standing warnings.
func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	response.Success(c, h.CartService.View(c.Request.Context(), userID))
}

// AddCartItemRequest adds one product to the cart.
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// AddCartItem puts a product in the cart. Adding to an existing line always
// succeeds; a sixth distinct product is refused with the limit message and
// the cart is left as it was.
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	view, err := h.CartService.Add(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartError(c, view, err)
		return
	}
	response.SuccessWithMsg(c, i18n.T(i18n.ResolveLocale(c), "cart.added"), view)
}

// UpdateCartItemRequest sets the quantity of one line.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCartItem changes a line quantity. The line is addressed by product
// id or, for catalog-less lines, by product name.
func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	view, err := h.CartService.UpdateQuantity(c.Request.Context(), userID, c.Param("ident"), req.Quantity)
	if err != nil {
		h.respondCartError(c, view, err)
		return
	}
	response.Success(c, view)
}

// RemoveCartItem deletes one line from the cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Remove(c.Request.Context(), userID, c.Param("ident"))
	if err != nil {
		h.respondCartError(c, view, err)
		return
	}
	response.Success(c, view)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(c.Request.Context(), userID); err != nil {
		h.respondCartError(c, h.CartService.View(c.Request.Context(), userID), err)
		return
	}
	response.Success(c, h.CartService.View(c.Request.Context(), userID))
}

// ReconcileCart refreshes cart lines against the live catalog. When the
// catalog cannot be fetched the cart stays exactly as it was.
func (h *Handler) ReconcileCart(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	view, err := h.CartService.Reconcile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrCatalogUnavailable) {
			msg := i18n.T(i18n.ResolveLocale(c), "error.catalog_unavailable")
			response.ErrorWithData(c, response.CodeInternal, msg, view)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, view)
}

// respondCartError maps cart mutations' failures. The distinct-line cap is
// a warning, not a fault: the response carries the untouched cart so the
// client can render it alongside the message.
func (h *Handler) respondCartError(c *gin.Context, view service.CartView, err error) {
	locale := i18n.ResolveLocale(c)
	switch {
	case errors.Is(err, cart.ErrTooManyDistinctItems):
		msg := i18n.T(locale, "error.cart_line_limit")
		response.ErrorWithData(c, response.CodeBadRequest, msg, view)
	case errors.Is(err, cart.ErrLineNotFound):
		respondError(c, response.CodeNotFound, "error.cart_line_not_found", nil)
	case errors.Is(err, cart.ErrPersistFailed):
		msg := i18n.T(locale, "error.cart_persist_failed")
		response.ErrorWithData(c, response.CodeInternal, msg, view)
	default:
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "error.internal")
	}
}
