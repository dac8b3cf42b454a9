package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fleetcart/catalog-service/internal/cart"
	"github.com/fleetcart/catalog-service/internal/pricing"
)

// QuoteLine represents one requested vehicle line in a cart quote
type QuoteLine struct {
	VehicleID int64 `json:"vehicleId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

// QuoteRequest represents the cart quote request
type QuoteRequest struct {
	PriceLevel int         `json:"priceLevel" binding:"required"`
	Lines      []QuoteLine `json:"lines" binding:"required,min=1,max=50"`
}

// QuoteResponse represents the priced cart returned for a quote
type QuoteResponse struct {
	PriceLevel          int         `json:"priceLevel"`
	Items               []cart.Item `json:"items"`
	TotalValue          int64       `json:"totalValue"`
	TotalSavings        int64       `json:"totalSavings"`
	TotalEffectiveValue int64       `json:"totalEffectiveValue"`
}

// QuoteCart prices a set of vehicle lines at the requested incentive level
// @Summary Quote a cart
// @Description Builds a priced cart from vehicle lines. Pricing comes from the current catalog snapshot for each vehicle
// @Tags cart
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Cart lines and price level"
// @Success 200 {object} QuoteResponse
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/cart/quote [post]
func QuoteCart(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := pricing.Level(req.PriceLevel)
	if !level.Valid() {
		quoteErrors.WithLabelValues("invalid_level").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "priceLevel must be 3 or 4"})
		return
	}

	quoteLineCount.Observe(float64(len(req.Lines)))
	start := time.Now()

	ctx := c.Request.Context()
	quoted := cart.New()
	for _, line := range req.Lines {
		vehicle, err := cat.FetchVehicle(ctx, line.VehicleID)
		if err != nil {
			quoteErrors.WithLabelValues("fetch_failed").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle"})
			return
		}
		if vehicle == nil {
			quoteErrors.WithLabelValues("unknown_vehicle").Inc()
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("unknown vehicle %d", line.VehicleID),
			})
			return
		}

		quoted, err = quoted.Add(vehicle.VehicleSummary, level, vehicle.Incentives, line.Quantity)
		if err != nil {
			if errors.Is(err, cart.ErrInvalidQuantity) {
				quoteErrors.WithLabelValues("invalid_quantity").Inc()
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			quoteErrors.WithLabelValues("internal").Inc()
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	quoteDuration.WithLabelValues(fmt.Sprintf("%d", req.PriceLevel)).Observe(time.Since(start).Seconds())

	c.JSON(http.StatusOK, QuoteResponse{
		PriceLevel:          req.PriceLevel,
		Items:               quoted.Items,
		TotalValue:          quoted.TotalValue,
		TotalSavings:        quoted.TotalSavings,
		TotalEffectiveValue: quoted.TotalEffectiveValue,
	})
}
