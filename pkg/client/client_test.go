package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/braunma/buildcheck/pkg/catalog"
	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

func newInventory(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()

	var seen []string
	mux := http.NewServeMux()

	mux.HandleFunc("/api/specs/cpu/cpu-1", func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uuid":         "cpu-1",
			"model":        "Xeon Gold 6338",
			"socket":       "LGA4189",
			"memory_types": []string{"DDR4"},
			"pcie_lanes":   64,
		})
	})
	mux.HandleFunc("/api/specs/cpu/cpu-notes", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"uuid":  "cpu-notes",
			"notes": "Socket SP5, DDR5 only",
		})
	})
	mux.HandleFunc("/api/specs/cpu/cpu-broken", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"uuid": "cpu-broken"})
	})
	mux.HandleFunc("/api/specs/nic", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"uuid": "nic-1", "slot_size": "x8"},
			{"uuid": "nic-2", "slot_size": "x16"},
		})
	})
	mux.HandleFunc("/api/configurations/cfg-1", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"config_id":   "cfg-1",
			"motherboard": map[string]any{"type": "motherboard", "uuid": "mb-1"},
			"ram": []map[string]any{
				{"type": "ram", "uuid": "ram-1"},
				{"type": "ram", "uuid": "ram-1"},
			},
		})
	})
	mux.HandleFunc("/api/configurations/broken", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &seen
}

func TestGetSpec(t *testing.T) {
	server, seen := newInventory(t)
	c := NewClient(server.URL, "secret", utils.NewLogger(false))

	spec, err := c.GetSpec(context.Background(), models.TypeCPU, "cpu-1")
	require.NoError(t, err)

	cpu, ok := spec.(*models.CPUSpec)
	require.True(t, ok, "expected *models.CPUSpec, got %T", spec)
	assert.Equal(t, "LGA4189", cpu.Socket)
	assert.Equal(t, 64, cpu.PCIeLanes)
	assert.Equal(t, []string{"Token secret"}, *seen)
}

func TestGetSpecBoundary(t *testing.T) {
	server, _ := newInventory(t)
	c := NewClient(server.URL, "", utils.NewLogger(false))
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := c.GetSpec(ctx, models.TypeCPU, "missing")
		assert.ErrorIs(t, err, catalog.ErrSpecNotFound)
	})

	t.Run("inferred fields", func(t *testing.T) {
		spec, err := c.GetSpec(ctx, models.TypeCPU, "cpu-notes")
		require.NoError(t, err)
		cpu := spec.(*models.CPUSpec)
		assert.Equal(t, "SP5", cpu.Socket)
		assert.Equal(t, []string{"DDR5"}, cpu.MemoryTypes)
		assert.ElementsMatch(t, []string{"socket", "memory_types"}, cpu.InferredFields)
	})

	t.Run("invalid record", func(t *testing.T) {
		_, err := c.GetSpec(ctx, models.TypeCPU, "cpu-broken")
		require.Error(t, err)
		assert.NotErrorIs(t, err, catalog.ErrSpecNotFound)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := c.GetSpec(ctx, models.ComponentType("gpu"), "x")
		assert.Error(t, err)
	})
}

func TestListSpecs(t *testing.T) {
	server, _ := newInventory(t)
	c := NewClient(server.URL, "", utils.NewLogger(false))

	specs, err := c.ListSpecs(context.Background(), models.TypeNIC)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	for _, s := range specs {
		assert.Equal(t, models.TypeNIC, s.ComponentType())
	}

	empty, err := c.ListSpecs(context.Background(), models.TypeCaddy)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetSnapshot(t *testing.T) {
	server, _ := newInventory(t)
	c := NewClient(server.URL, "", utils.NewLogger(false))
	ctx := context.Background()

	snap, err := c.GetSnapshot(ctx, "cfg-1")
	require.NoError(t, err)
	require.NotNil(t, snap.Motherboard)
	assert.Equal(t, "mb-1", snap.Motherboard.UUID)
	assert.Equal(t, 2, snap.Count(models.TypeRAM))

	_, err = c.GetSnapshot(ctx, "missing")
	assert.ErrorIs(t, err, compat.ErrSnapshotNotFound)

	_, err = c.GetSnapshot(ctx, "broken")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.True(t, strings.Contains(apiErr.Body, "database unavailable"))
}

func TestEngineOverInventory(t *testing.T) {
	server, _ := newInventory(t)
	c := NewClient(server.URL, "", utils.NewLogger(false))
	engine := compat.NewEngine(catalog.NewCachedLookup(c, nil), c)

	v := engine.ValidateAddition(context.Background(), "missing", models.TypeCPU, "cpu-1")
	assert.Equal(t, models.StatusBlocked, v.Status)
	assert.True(t, v.Has("snapshot_unavailable"))
}
