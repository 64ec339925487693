package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler()
	c, w := newTestContext(t, http.MethodGet, "/api/v1/system/info")

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var info SystemInfoResponse
	require.NoError(t, json.Unmarshal(raw, &info))

	assert.Equal(t, "Marketplace Backend API", info.Name)
	assert.NotEmpty(t, info.Version)
	assert.Contains(t, info.GoVersion, "go")
	assert.NotEmpty(t, info.Uptime)
}

func TestSystemHandler_Health(t *testing.T) {
	h := NewSystemHandler()
	c, w := newTestContext(t, http.MethodGet, "/api/v1/system/health")

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var health HealthResponse
	require.NoError(t, json.Unmarshal(raw, &health))

	assert.Equal(t, "ok", health.Status)
	_, err = time.Parse(time.RFC3339, health.Timestamp)
	assert.NoError(t, err)
}
