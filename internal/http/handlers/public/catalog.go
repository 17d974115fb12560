package public

import (
	"errors"
	"strconv"

	handlershared "github.com/mazraa-market/internal/http/handlers/shared"
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/repository"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

// ListFarms returns the public farm directory.
func (h *Handler) ListFarms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	farms, total, err := h.FarmService.List(repository.FarmListFilter{
		Page:     page,
		PageSize: pageSize,
		Type:     c.Query("type"),
		Region:   c.Query("region"),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, farms, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetFarm returns one farm profile.
func (h *Handler) GetFarm(c *gin.Context) {
	farmID, ok := parseIDParam(c)
	if !ok {
		return
	}
	farm, err := h.FarmService.Get(farmID)
	if err != nil {
		if errors.Is(err, service.ErrFarmNotFound) {
			respondError(c, response.CodeNotFound, "error.farm_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, farm)
}

// ListFarmProducts returns the available products of one farm.
func (h *Handler) ListFarmProducts(c *gin.Context) {
	farmID, ok := parseIDParam(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		FarmID:        farmID,
		OnlyAvailable: true,
		WithFarm:      true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListProducts returns the cross-farm product catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	products, total, err := h.ProductService.List(repository.ProductListFilter{
		Page:          page,
		PageSize:      pageSize,
		FarmType:      c.Query("farm_type"),
		Search:        c.Query("search"),
		OnlyAvailable: true,
		WithFarm:      true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}

	response.SuccessWithPage(c, products, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetProduct returns one product with its farm details.
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	product, err := h.ProductService.Get(productID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "error.product_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, product)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
