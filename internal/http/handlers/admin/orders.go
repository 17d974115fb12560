package admin

import (
	"errors"

	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest overrides an order's lifecycle status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

// UpdateOrderStatus moves any order along its lifecycle, recording the
// acting staff account in the timeline.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	adminID, ok := getUserID(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	order, err := h.OrderService.UpdateStatusForAdmin(adminID, orderID, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			respondError(c, response.CodeNotFound, "error.order_not_found", nil)
		case errors.Is(err, service.ErrOrderStatusInvalid):
			respondError(c, response.CodeBadRequest, "error.order_status_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.internal", err)
		}
		return
	}
	response.Success(c, order)
}
