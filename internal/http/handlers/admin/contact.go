package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/mazraa-market/internal/http/handlers/shared"
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/repository"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

// ListContactMessages returns the contact inbox, newest first.
func (h *Handler) ListContactMessages(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	messages, total, err := h.ContactService.List(repository.ContactMessageListFilter{
		Page:       page,
		PageSize:   pageSize,
		OnlyUnread: c.Query("unread") == "true",
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, messages, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// MarkContactMessageRead flags one message as handled.
func (h *Handler) MarkContactMessageRead(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ContactService.MarkRead(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "error.not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"read": true})
}
