package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuoteRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/cart/quote", QuoteCart)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	jsonBody, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest("POST", path, bytes.NewBuffer(jsonBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestQuoteCartRejectsInvalidLevel verifies that only incentive levels 3 and 4 are accepted.
func TestQuoteCartRejectsInvalidLevel(t *testing.T) {
	router := newQuoteRouter()

	w := postJSON(t, router, "/api/v1/cart/quote", QuoteRequest{
		PriceLevel: 5,
		Lines:      []QuoteLine{{VehicleID: 1, Quantity: 1}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "priceLevel")
}

// TestQuoteCartRejectsEmptyLines verifies the binding rejects a request without lines.
func TestQuoteCartRejectsEmptyLines(t *testing.T) {
	router := newQuoteRouter()

	w := postJSON(t, router, "/api/v1/cart/quote", QuoteRequest{
		PriceLevel: 3,
		Lines:      []QuoteLine{},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestQuoteCartRejectsZeroQuantity verifies that quantity must be at least 1.
func TestQuoteCartRejectsZeroQuantity(t *testing.T) {
	router := newQuoteRouter()

	w := postJSON(t, router, "/api/v1/cart/quote", QuoteRequest{
		PriceLevel: 3,
		Lines:      []QuoteLine{{VehicleID: 1, Quantity: 0}},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestQuoteCartRejectsMalformedBody verifies that invalid JSON is rejected.
func TestQuoteCartRejectsMalformedBody(t *testing.T) {
	router := newQuoteRouter()

	req, err := http.NewRequest("POST", "/api/v1/cart/quote", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestSearchVehiclesRejectsOversizedLimit verifies the search page size cap.
func TestSearchVehiclesRejectsOversizedLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/v1/vehicles/search", SearchVehicles)

	w := postJSON(t, router, "/api/v1/vehicles/search", SearchVehiclesRequest{
		Limit: 500,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
