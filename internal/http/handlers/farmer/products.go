package farmer

import (
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductRequest carries the editable product fields.
type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Unit          string          `json:"unit"`
	ImageURL      string          `json:"image_url"`
	Gallery       []string        `json:"gallery"`
	IsAvailable   *bool           `json:"is_available"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		StockQuantity: r.StockQuantity,
		Unit:          r.Unit,
		ImageURL:      r.ImageURL,
		Gallery:       r.Gallery,
		IsAvailable:   r.IsAvailable,
	}
}

// ListFarmProducts returns every product of an owned farm, available or not.
func (h *Handler) ListFarmProducts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	farmID, ok := parseIDParam(c)
	if !ok {
		return
	}
	products, err := h.ProductService.ListByFarm(userID, farmID)
	if err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, products)
}

// CreateProduct adds a product to an owned farm.
func (h *Handler) CreateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	farmID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Create(userID, farmID, req.toInput())
	if err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct edits an owned product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	product, err := h.ProductService.Update(userID, productID, req.toInput())
	if err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes an owned product from the catalog.
func (h *Handler) DeleteProduct(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.ProductService.Delete(userID, productID); err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
