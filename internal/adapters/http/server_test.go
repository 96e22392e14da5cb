package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/pixelwall/internal/metrics"
	"github.com/aretw0/pixelwall/pkg/adapters/memory"
	"github.com/aretw0/pixelwall/pkg/canvas"
	"github.com/aretw0/pixelwall/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *canvas.Canvas) {
	t.Helper()
	wall, err := canvas.New(memory.NewStore())
	require.NoError(t, err)
	return NewHandler(wall, opts...), wall
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) UpdateResponse {
	t.Helper()
	var resp UpdateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestGetPixels_FreshGrid(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/pixels", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var grid map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grid))
	assert.Len(t, grid, 400)
	assert.Equal(t, "#1a1a2e", grid["0"])
	assert.Equal(t, "#1a1a2e", grid["399"])
}

func TestUpdatePixel_Success(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "POST", "/update", `{"id": 200, "color": "#00ff00"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, UpdateResponse{Success: true}, decodeResponse(t, rr))
	assert.JSONEq(t, `{"success": true}`, rr.Body.String())

	rr = do(t, h, "GET", "/pixels", "")
	var grid map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &grid))
	assert.Equal(t, "#00ff00", grid["200"])
	assert.Equal(t, "#1a1a2e", grid["199"])
}

func TestUpdatePixel_StringIDAndTrimming(t *testing.T) {
	h, wall := newTestHandler(t)

	rr := do(t, h, "POST", "/update", `{"id": "5", "color": "  #abcdef  "}`)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "#abcdef", wall.Load(context.Background())[5])
}

func TestUpdatePixel_ScalarColorStoredAsText(t *testing.T) {
	h, wall := newTestHandler(t)

	rr := do(t, h, "POST", "/update", `{"id": 5, "color": 123}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success": true}`, rr.Body.String())

	rr = do(t, h, "POST", "/update", `{"id": 6, "color": true}`)
	require.Equal(t, http.StatusOK, rr.Code)

	grid := wall.Load(context.Background())
	assert.Equal(t, "123", grid[5])
	assert.Equal(t, "true", grid[6])
}

func TestUpdatePixel_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{name: "missing id", body: `{"color": "#ff0000"}`, reason: "missing"},
		{name: "missing color", body: `{"id": "5"}`, reason: "missing"},
		{name: "null id", body: `{"id": null, "color": "#ff0000"}`, reason: "missing"},
		{name: "non-integer id", body: `{"id": "abc", "color": "#ff0000"}`, reason: "integer"},
		{name: "fractional id", body: `{"id": 2.5, "color": "#ff0000"}`, reason: "integer"},
		{name: "out of range", body: `{"id": "400", "color": "#ff0000"}`, reason: "range"},
		{name: "negative", body: `{"id": -1, "color": "#ff0000"}`, reason: "range"},
		{name: "malformed body", body: `{"id": 5, "color":`, reason: "missing"},
		{name: "non-json body", body: `id=5&color=red`, reason: "missing"},
		{name: "array body", body: `[5, "#ff0000"]`, reason: "missing"},
		{name: "empty body", body: ``, reason: "missing"},
		{name: "wrong-case keys", body: `{"ID": 6, "COLOR": "#fff"}`, reason: "missing"},
		{name: "wrong-case color", body: `{"id": 6, "Color": "#fff"}`, reason: "missing"},
		{name: "object color", body: `{"id": 6, "color": {"r": 255}}`, reason: "invalid color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, wall := newTestHandler(t)
			before := wall.Load(context.Background())

			rr := do(t, h, "POST", "/update", tt.body)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			resp := decodeResponse(t, rr)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Error, tt.reason)
			assert.Equal(t, before, wall.Load(context.Background()))
		})
	}
}

// brokenWall accepts validation but cannot persist.
type brokenWall struct{}

func (brokenWall) Load(ctx context.Context) domain.Grid {
	return domain.NewDefaultGrid(4, domain.DefaultColor)
}
func (brokenWall) Update(ctx context.Context, req domain.UpdateRequest) error {
	if _, err := req.Validate(4); err != nil {
		return err
	}
	return errors.Join(domain.ErrStorageUnavailable, errors.New("read-only filesystem"))
}
func (brokenWall) Size() int            { return 4 }
func (brokenWall) DefaultColor() string { return domain.DefaultColor }

func TestUpdatePixel_StorageUnavailable(t *testing.T) {
	h := NewHandler(brokenWall{})

	rr := do(t, h, "POST", "/update", `{"id": 1, "color": "#fff"}`)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"success": false, "error": "storage unavailable"}`, rr.Body.String())

	rr = do(t, h, "POST", "/update", `{"id": 9, "color": "#fff"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestIndex(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "pixel-grid")
	assert.Contains(t, body, "repeat(20, var(--cell))")
	assert.Contains(t, body, "/static/script.js")
}

func TestStaticAssets(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/static/script.js", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/update")

	rr = do(t, h, "GET", "/static/missing.js", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGetHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestGetInfo(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/info", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "pixelwall-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
	assert.Equal(t, "1.0.0", resp["api_version"])
	assert.Equal(t, float64(400), resp["size"])
}

func TestOpenAPISpec(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/openapi.yaml", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/update")

	doc, err := loadSpec()
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	wall, err := canvas.New(memory.NewStore(), canvas.WithHooks(m.Hooks()))
	require.NoError(t, err)
	h := NewHandler(wall, WithMetrics(m.Handler()))

	do(t, h, "POST", "/update", `{"id": 1, "color": "#fff"}`)
	do(t, h, "POST", "/update", `{"id": "x", "color": "#fff"}`)

	rr := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `pixelwall_updates_total{result="ok"} 1`)
	assert.Contains(t, rr.Body.String(), `pixelwall_updates_total{result="rejected"} 1`)
}

func TestMetricsEndpoint_NotMountedByDefault(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := do(t, h, "OPTIONS", "/update", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
