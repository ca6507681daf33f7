package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nucypher/condition-lingo-go/pkg/lingo/providers"
)

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(providers.NewManager(nil))

	routes := r.Routes()
	var found []string
	for _, route := range routes {
		found = append(found, route.Method+" "+route.Path)
	}

	assert.Contains(t, found, "GET /healthz")
	assert.Contains(t, found, "GET /metrics")
	assert.Contains(t, found, "POST /v1/conditions/evaluate")
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(providers.NewManager(nil))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestEvaluate_SimpleTimeCondition(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(providers.NewManager(nil))

	body := `{
		"lingo": {
			"version": "1.0.0",
			"condition": {
				"conditionType": "time",
				"chain": 1,
				"method": "blocktime",
				"returnValueTest": {"comparator": ">", "value": 0}
			}
		},
		"context": {}
	}`

	req := httptest.NewRequest(http.MethodPost, "/v1/conditions/evaluate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// No chain endpoints are configured for this Manager, so the call
	// fails upstream rather than succeeding -- this exercises the error
	// path through to a 502, not the happy path (the leaf verify flow is
	// covered in pkg/lingo/condition tests with stubbed calls).
	require.Equal(t, http.StatusBadGateway, w.Code)
}

func TestEvaluate_MalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(providers.NewManager(nil))

	req := httptest.NewRequest(http.MethodPost, "/v1/conditions/evaluate", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
