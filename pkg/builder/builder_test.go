package builder

import (
	"context"
	"io"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/braunma/buildcheck/pkg/catalog"
	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/store"
	"github.com/braunma/buildcheck/pkg/utils"
)

func setup(t *testing.T) (*Builder, *store.Store, string) {
	t.Helper()

	cat := catalog.NewCatalog(nil)
	specs := []models.ComponentSpec{
		&models.MotherboardSpec{
			SpecMeta:    models.SpecMeta{UUID: "mb"},
			Socket:      "SP5",
			MaxCPUs:     1,
			MemoryTypes: []string{"DDR5"},
			MemorySlots: 4,
			PCIeSlots:   []models.PCIeSlot{{Size: "x8", Count: 1}, {Size: "x16", Count: 1}},
		},
		&models.CPUSpec{SpecMeta: models.SpecMeta{UUID: "cpu-amd"}, Socket: "SP5", MemoryTypes: []string{"DDR5"}},
		&models.CPUSpec{SpecMeta: models.SpecMeta{UUID: "cpu-intel"}, Socket: "LGA4677", MemoryTypes: []string{"DDR5"}},
		&models.RAMSpec{SpecMeta: models.SpecMeta{UUID: "ram"}, MemoryType: "DDR5", Capacity: 32},
		&models.CardSpec{SpecMeta: models.SpecMeta{UUID: "nic"}, Kind: models.TypeNIC, SlotSize: "x8"},
	}
	for _, s := range specs {
		require.NoError(t, cat.Add(s))
	}

	st, err := store.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg, err := st.CreateConfiguration(context.Background(), "test")
	require.NoError(t, err)

	logger := utils.NewLoggerTo(io.Discard, false)
	engine := compat.NewEngine(cat, st, compat.WithLogger(logger))
	return NewBuilder(engine, st, logger), st, cfg.ID
}

func TestAddPersistsOnlyWhenNotBlocked(t *testing.T) {
	b, st, id := setup(t)
	ctx := context.Background()

	v, err := b.Add(ctx, id, models.TypeMotherboard, "mb")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAllowed, v.Status)

	v, err = b.Add(ctx, id, models.TypeCPU, "cpu-intel")
	require.NoError(t, err)
	assert.True(t, v.Blocked())

	v, err = b.Add(ctx, id, models.TypeCPU, "cpu-amd")
	require.NoError(t, err)
	assert.False(t, v.Blocked())

	snap, err := st.GetSnapshot(ctx, id)
	require.NoError(t, err)
	require.Len(t, snap.CPUs, 1)
	assert.Equal(t, "cpu-amd", snap.CPUs[0].UUID)
}

func TestAddRecordsAssignedSlot(t *testing.T) {
	b, st, id := setup(t)
	ctx := context.Background()

	_, err := b.Add(ctx, id, models.TypeMotherboard, "mb")
	require.NoError(t, err)

	for _, expected := range []string{"pcie_x8_1", "pcie_x16_1"} {
		v, err := b.Add(ctx, id, models.TypeNIC, "nic")
		require.NoError(t, err)
		assert.Equal(t, expected, v.AssignedSlot)
	}

	v, err := b.Add(ctx, id, models.TypeNIC, "nic")
	require.NoError(t, err)
	assert.True(t, v.Blocked(), "third card should find no free slot")

	snap, err := st.GetSnapshot(ctx, id)
	require.NoError(t, err)
	require.Len(t, snap.NICs, 2)
	assert.Equal(t, "pcie_x8_1", snap.NICs[0].SlotPosition)
	assert.Equal(t, "pcie_x16_1", snap.NICs[1].SlotPosition)
}

func TestConcurrentAddsRespectSlotLimit(t *testing.T) {
	b, st, id := setup(t)
	ctx := context.Background()

	_, err := b.Add(ctx, id, models.TypeMotherboard, "mb")
	require.NoError(t, err)

	var allowed atomic.Int32
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			v, err := b.Add(ctx, id, models.TypeRAM, "ram")
			if err != nil {
				return err
			}
			if !v.Blocked() {
				allowed.Add(1)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(4), allowed.Load())
	snap, err := st.GetSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, snap.Count(models.TypeRAM))
}

func TestRemove(t *testing.T) {
	b, st, id := setup(t)
	ctx := context.Background()

	_, err := b.Add(ctx, id, models.TypeMotherboard, "mb")
	require.NoError(t, err)
	require.NoError(t, b.Remove(ctx, id, models.TypeMotherboard, "mb"))

	snap, err := st.GetSnapshot(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, snap.Motherboard)

	assert.ErrorIs(t, b.Remove(ctx, id, models.TypeMotherboard, "mb"), store.ErrNotFound)
}
