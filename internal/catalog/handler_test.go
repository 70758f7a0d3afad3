package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/withsutham/SE-KPS-68-2/pkg/logging"
)

type servicesResponse struct {
	Success bool          `json:"success"`
	Data    []ServiceItem `json:"data"`
	Error   string        `json:"error"`
}

func TestHandlerListServicesWithFilters(t *testing.T) {
	routes := NewHandler(Default(), logging.Default()).Routes()

	req := httptest.NewRequest(http.MethodGet, "/services?category=%E0%B8%94%E0%B9%88%E0%B8%A7%E0%B8%99", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp servicesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "chair", resp.Data[0].ID)
}

func TestHandlerListServicesUnknownBand(t *testing.T) {
	routes := NewHandler(Default(), nil).Routes()

	req := httptest.NewRequest(http.MethodGet, "/services?price=free", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlerListServicesEmptyResultIsArray(t *testing.T) {
	routes := NewHandler(Default(), nil).Routes()

	req := httptest.NewRequest(http.MethodGet, "/services?q=nothing-matches", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestHandlerGetService(t *testing.T) {
	routes := NewHandler(Default(), nil).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services/hot-stone", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool        `json:"success"`
		Data    ServiceItem `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3600, resp.Data.PriceRange)

	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/services/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerCategories(t *testing.T) {
	routes := NewHandler(Default(), nil).Routes()

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, Categories(), resp.Data)
}
