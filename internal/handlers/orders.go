package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fleetcart/catalog-service/internal/cart"
	"github.com/fleetcart/catalog-service/internal/orders"
	"github.com/fleetcart/catalog-service/internal/pricing"
)

// Global orders service instance (initialized by the application)
var orderService *orders.Orders

// InitOrders initializes the orders service used by the handlers
func InitOrders(o *orders.Orders) {
	orderService = o
}

// CreateOrderRequest represents the purchase order submission body
type CreateOrderRequest struct {
	orders.SubmitRequest
	PriceLevel int         `json:"priceLevel" binding:"required"`
	Lines      []QuoteLine `json:"lines" binding:"required,min=1,max=50"`
}

// CreateOrder submits a purchase order for the given vehicle lines
// @Summary Submit a purchase order
// @Description Prices the lines at the requested incentive level and persists the order with its pricing snapshot
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Buyer details and vehicle lines"
// @Success 201 {object} orders.Order
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/purchase-orders [post]
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	level := pricing.Level(req.PriceLevel)
	if !level.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "priceLevel must be 3 or 4"})
		return
	}

	ctx := c.Request.Context()
	ordered := cart.New()
	for _, line := range req.Lines {
		vehicle, err := cat.FetchVehicle(ctx, line.VehicleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vehicle"})
			return
		}
		if vehicle == nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("unknown vehicle %d", line.VehicleID),
			})
			return
		}

		ordered, err = ordered.Add(vehicle.VehicleSummary, level, vehicle.Incentives, line.Quantity)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	order, err := orderService.Submit(ctx, req.SubmitRequest, ordered)
	if err != nil {
		if errors.Is(err, orders.ErrEmptyOrder) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit order"})
		return
	}

	ordersSubmitted.Inc()
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns a purchase order with its line items
// @Summary Get a purchase order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} orders.Order
// @Failure 404 {object} map[string]string "Not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/purchase-orders/{id} [get]
func GetOrder(c *gin.Context) {
	order, err := orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrdersRequest represents query parameters for listing orders
type ListOrdersRequest struct {
	Limit int `form:"limit" binding:"min=0,max=100"`
}

// ListOrders returns recent purchase orders, newest first
// @Summary List purchase orders
// @Tags orders
// @Produce json
// @Param limit query int false "Number of orders to return" default(50) minimum(1) maximum(100)
// @Success 200 {array} database.PurchaseOrder
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/purchase-orders [get]
func ListOrders(c *gin.Context) {
	var req ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := orderService.List(c.Request.Context(), req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// UpdateOrderStatusRequest represents the status update body
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" jsonschema:"enum=draft,enum=submitted,enum=approved,enum=fulfilled,enum=cancelled"`
}

// UpdateOrderStatus moves a purchase order through its lifecycle
// @Summary Update purchase order status
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body UpdateOrderStatusRequest true "New status"
// @Success 200 {object} orders.Order
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Invalid transition"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/purchase-orders/{id}/status [put]
func UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, orders.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		case errors.Is(err, orders.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		}
		return
	}
	c.JSON(http.StatusOK, order)
}
