package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// TestGovernanceRouteShape pins the nested narrowing paths the API
// documents: each level hangs off its parent selection.
func TestGovernanceRouteShape(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	governance := router.Group("/api/v1/governance")
	governance.GET("/years", ListYears)
	governance.GET("/years/:yearId/makes", ListMakes)
	governance.GET("/years/:yearId/makes/:makeId/models", ListModels)
	governance.GET("/years/:yearId/makes/:makeId/models/:modelId/trims", ListTrims)

	registered := map[string]bool{}
	for _, route := range router.Routes() {
		registered[route.Path] = true
	}

	expected := []string{
		"/api/v1/governance/years",
		"/api/v1/governance/years/:yearId/makes",
		"/api/v1/governance/years/:yearId/makes/:makeId/models",
		"/api/v1/governance/years/:yearId/makes/:makeId/models/:modelId/trims",
	}
	for _, path := range expected {
		assert.True(t, registered[path], "route %s should be registered", path)
	}
}
