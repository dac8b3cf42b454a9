package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fleetcart/catalog-service/internal/catalog"
)

// Global catalog instance (initialized by the application)
var cat *catalog.Catalog

// InitCatalog initializes the catalog instance used by the handlers.
// This should be called during application startup
func InitCatalog(c *catalog.Catalog) {
	cat = c
}

// GetCatalog returns the catalog instance
func GetCatalog() *catalog.Catalog {
	return cat
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// ListYears returns the model years that have vehicles
// @Summary List model years
// @Description Returns model years with vehicle counts, newest first
// @Tags governance
// @Produce json
// @Success 200 {array} catalog.YearOption
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/governance/years [get]
func ListYears(c *gin.Context) {
	years, err := cat.FetchYears(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch years"})
		return
	}
	c.JSON(http.StatusOK, years)
}

// ListMakes returns the makes available for a model year
// @Summary List makes for a year
// @Tags governance
// @Produce json
// @Param yearId path int true "Model year ID"
// @Success 200 {array} catalog.MakeOption
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/governance/years/{yearId}/makes [get]
func ListMakes(c *gin.Context) {
	yearID, ok := pathID(c, "yearId")
	if !ok {
		return
	}

	makes, err := cat.FetchMakes(c.Request.Context(), yearID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch makes"})
		return
	}
	c.JSON(http.StatusOK, makes)
}

// ListModels returns the models available for a year and make
// @Summary List models for a year and make
// @Tags governance
// @Produce json
// @Param yearId path int true "Model year ID"
// @Param makeId path int true "Make ID"
// @Success 200 {array} catalog.ModelOption
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/governance/years/{yearId}/makes/{makeId}/models [get]
func ListModels(c *gin.Context) {
	yearID, ok := pathID(c, "yearId")
	if !ok {
		return
	}
	makeID, ok := pathID(c, "makeId")
	if !ok {
		return
	}

	models, err := cat.FetchModels(c.Request.Context(), yearID, makeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch models"})
		return
	}
	c.JSON(http.StatusOK, models)
}

// ListTrims returns the trims available for a year, make and model
// @Summary List trims for a year, make and model
// @Tags governance
// @Produce json
// @Param yearId path int true "Model year ID"
// @Param makeId path int true "Make ID"
// @Param modelId path int true "Model ID"
// @Success 200 {array} catalog.TrimOption
// @Failure 400 {object} map[string]string "Bad request"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/v1/governance/years/{yearId}/makes/{makeId}/models/{modelId}/trims [get]
func ListTrims(c *gin.Context) {
	yearID, ok := pathID(c, "yearId")
	if !ok {
		return
	}
	makeID, ok := pathID(c, "makeId")
	if !ok {
		return
	}
	modelID, ok := pathID(c, "modelId")
	if !ok {
		return
	}

	trims, err := cat.FetchTrims(c.Request.Context(), yearID, makeID, modelID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trims"})
		return
	}
	c.JSON(http.StatusOK, trims)
}
