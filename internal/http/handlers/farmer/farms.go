package farmer

import (
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

// FarmRequest carries the editable farm fields.
type FarmRequest struct {
	Name                 string `json:"name" binding:"required"`
	Description          string `json:"description"`
	Location             string `json:"location"`
	AdministrativeRegion string `json:"administrative_region"`
	Governorate          string `json:"governorate"`
	Type                 string `json:"type"`
	PricePerKG           string `json:"price_per_kg"`
	PhoneNumber          string `json:"phone_number"`
	ImageURL             string `json:"image_url"`
	DailyCapacity        int    `json:"daily_capacity"`
}

func (r FarmRequest) toInput() service.FarmInput {
	return service.FarmInput{
		Name:                 r.Name,
		Description:          r.Description,
		Location:             r.Location,
		AdministrativeRegion: r.AdministrativeRegion,
		Governorate:          r.Governorate,
		Type:                 r.Type,
		PricePerKG:           r.PricePerKG,
		PhoneNumber:          r.PhoneNumber,
		ImageURL:             r.ImageURL,
		DailyCapacity:        r.DailyCapacity,
	}
}

// ListFarms returns the farms owned by the authenticated farmer.
func (h *Handler) ListFarms(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	farms, err := h.FarmService.ListByOwner(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, farms)
}

// CreateFarm registers a new farm under the authenticated account.
func (h *Handler) CreateFarm(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req FarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	farm, err := h.FarmService.Create(userID, req.toInput())
	if err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, farm)
}

// UpdateFarm edits an owned farm.
func (h *Handler) UpdateFarm(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	farmID, ok := parseIDParam(c)
	if !ok {
		return
	}
	var req FarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	farm, err := h.FarmService.Update(userID, farmID, req.toInput())
	if err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, farm)
}

// DeleteFarm removes an owned farm.
func (h *Handler) DeleteFarm(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	farmID, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := h.FarmService.Delete(userID, farmID); err != nil {
		respondFarmError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
