package farmer

import (
	"errors"
	"strconv"

	handlershared "github.com/mazraa-market/internal/http/handlers/shared"
	"github.com/mazraa-market/internal/http/response"
	"github.com/mazraa-market/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func getUserID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUintWithKeys(c, "user_id", "error.user_id_invalid", "error.user_id_type_invalid")
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}

// respondFarmError maps farm and product ownership failures.
func respondFarmError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFarmNotFound):
		respondError(c, response.CodeNotFound, "error.farm_not_found", nil)
	case errors.Is(err, service.ErrFarmNotOwned):
		respondError(c, response.CodeForbidden, "error.farm_not_owned", nil)
	case errors.Is(err, service.ErrFarmTypeInvalid):
		respondError(c, response.CodeBadRequest, "error.farm_type_invalid", nil)
	case errors.Is(err, service.ErrProductNotFound):
		respondError(c, response.CodeNotFound, "error.product_not_found", nil)
	case errors.Is(err, service.ErrProductPriceInvalid):
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
	default:
		respondError(c, response.CodeInternal, "error.internal", err)
	}
}
