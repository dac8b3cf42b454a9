package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetcart/catalog-service/internal/filter"
)

// SearchVehiclesRequest represents the vehicle search request body.
// All filter fields are optional; hierarchy fields narrow top-down
type SearchVehiclesRequest struct {
	YearID      *int64 `json:"yearId,omitempty"`
	MakeID      *int64 `json:"makeId,omitempty"`
	ModelID     *int64 `json:"modelId,omitempty"`
	TrimID      *int64 `json:"trimId,omitempty"`
	BodyTypeID  *int64 `json:"bodyTypeId,omitempty"`
	DriveTypeID *int64 `json:"driveTypeId,omitempty"`
	MinPrice    *int64 `json:"minPrice,omitempty"`
	MaxPrice    *int64 `json:"maxPrice,omitempty"`
	Page        int    `json:"page" binding:"min=0"`
	Limit       int    `json:"limit" binding:"min=0,max=100"`
}

func (r SearchVehiclesRequest) selection() filter.Selection {
	return filter.Selection{
		YearID:      r.YearID,
		MakeID:      r.MakeID,
		ModelID:     r.ModelID,
		TrimID:      r.TrimID,
		BodyTypeID:  r.BodyTypeID,
		DriveTypeID: r.DriveTypeID,
		MinPrice:    r.MinPrice,
		MaxPrice:    r.MaxPrice,
		Page:        r.Page,
		Limit:       r.Limit,
	}
}

// SearchVehicles returns a filtered, paginated page of vehicles with pricing
// @Summary Search vehicles
// @Description Filters the catalog by the year/make/model/trim hierarchy plus body type, drive type and price range
// @Tags vehicles
// @Accept json
// @Produce json
// @Param request body SearchVehiclesRequest true "Filter selection"
// @Success 200 {object} catalog.SearchPage
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/vehicles/search [post]
func SearchVehicles(c *gin.Context) {
	var req SearchVehiclesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start := time.Now()
	page, err := cat.SearchVehicles(c.Request.Context(), req.selection())
	observeSearch(time.Since(start), err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// GetVehicle returns a single vehicle with its pricing snapshot
// @Summary Get a vehicle
// @Tags vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} catalog.VehicleResult
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/vehicles/{id} [get]
func GetVehicle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	vehicle, err := cat.FetchVehicle(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle"})
		return
	}
	if vehicle == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}
