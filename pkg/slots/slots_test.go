package slots

import (
	"testing"

	"github.com/braunma/buildcheck/pkg/models"
)

func testBoard() *models.MotherboardSpec {
	return &models.MotherboardSpec{
		SpecMeta:    models.SpecMeta{UUID: "mb-1"},
		PCIeVersion: 4.0,
		PCIeSlots: []models.PCIeSlot{
			{Size: "x16", Count: 2},
			{Size: "x8", Count: 1},
			{Size: "x4", Count: 1},
		},
		RiserSlots: []models.PCIeSlot{
			{Size: "x16", Count: 1},
		},
		MemorySlots:       4,
		MaxMemoryCapacity: 128,
		PerSlotCapacity:   32,
	}
}

func TestSlotIDs(t *testing.T) {
	tracker := NewPCIeTracker(testBoard())

	expected := []string{"pcie_x4_1", "pcie_x8_1", "pcie_x16_1", "pcie_x16_2"}
	slots := tracker.Slots()
	if len(slots) != len(expected) {
		t.Fatalf("len(Slots()) = %d, expected %d", len(slots), len(expected))
	}
	for i, id := range expected {
		if slots[i].ID != id {
			t.Errorf("Slots()[%d].ID = %q, expected %q", i, slots[i].ID, id)
		}
	}

	riser := NewRiserTracker(testBoard())
	if riser.Total() != 1 || riser.Slots()[0].ID != "riser_x16_1" {
		t.Errorf("riser pool = %+v", riser.Slots())
	}
}

func TestAssignSlotSmallestFirst(t *testing.T) {
	tests := []struct {
		name     string
		required int
		occupied []string
		expected string
		ok       bool
	}{
		{name: "x1 takes x4", required: 1, expected: "pcie_x4_1", ok: true},
		{name: "x4 takes x4", required: 4, expected: "pcie_x4_1", ok: true},
		{name: "x4 skips used x4", required: 4, occupied: []string{"pcie_x4_1"}, expected: "pcie_x8_1", ok: true},
		{name: "x8 takes x8", required: 8, expected: "pcie_x8_1", ok: true},
		{name: "x16 only x16", required: 16, expected: "pcie_x16_1", ok: true},
		{name: "x16 full", required: 16, occupied: []string{"pcie_x16_1", "pcie_x16_2"}, ok: false},
		{name: "unknown width treated as x1", required: 0, expected: "pcie_x4_1", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := NewPCIeTracker(testBoard())
			for i, id := range tt.occupied {
				placed := tracker.Place([]Device{{UUID: "dev" + string(rune('a'+i)), Required: 1, Position: id}})
				if len(placed.Unplaced) != 0 {
					t.Fatalf("Place(%s) left %v unplaced", id, placed.Unplaced)
				}
			}
			slot, ok := tracker.AssignSlot(tt.required)
			if ok != tt.ok {
				t.Fatalf("AssignSlot(%d) ok = %v, expected %v", tt.required, ok, tt.ok)
			}
			if ok && slot.ID != tt.expected {
				t.Errorf("AssignSlot(%d) = %s, expected %s", tt.required, slot.ID, tt.expected)
			}
		})
	}
}

func TestAssignSlotNeverReturnsUsed(t *testing.T) {
	tracker := NewPCIeTracker(testBoard())
	seen := make(map[string]bool)
	for i := 0; i < tracker.Total(); i++ {
		slot, ok := tracker.AssignSlot(1)
		if !ok {
			t.Fatalf("AssignSlot() failed with %d free slots", tracker.Available())
		}
		if seen[slot.ID] {
			t.Fatalf("AssignSlot() returned used slot %s", slot.ID)
		}
		seen[slot.ID] = true
		if placed := tracker.Place([]Device{{UUID: slot.ID, Required: 1, Position: slot.ID}}); len(placed.Unplaced) != 0 {
			t.Fatalf("Place(%s) left %v unplaced", slot.ID, placed.Unplaced)
		}
	}
	if _, ok := tracker.AssignSlot(1); ok {
		t.Error("AssignSlot() on a full pool should fail")
	}
	if tracker.Available() != 0 {
		t.Errorf("Available() = %d, expected 0", tracker.Available())
	}
}

func TestPlaceIssues(t *testing.T) {
	tracker := NewPCIeTracker(testBoard())
	placement := tracker.Place([]Device{
		{UUID: "a", Required: 8, Position: "pcie_x16_1"},
		{UUID: "b", Required: 4, Position: "pcie_x16_1"},
		{UUID: "c", Required: 16, Position: "pcie_x4_1"},
		{UUID: "d", Required: 4, Position: "riser_x16_1"},
		{UUID: "e", Required: 4, Position: "pcie_x2_9"},
	})

	kinds := make(map[IssueKind]string)
	for _, issue := range placement.Issues {
		kinds[issue.Kind] = issue.Device.UUID
	}

	expected := map[IssueKind]string{
		IssueOversized:    "a",
		IssueDuplicate:    "b",
		IssueTooSmall:     "c",
		IssuePoolMismatch: "d",
		IssueUnknownSlot:  "e",
	}
	for kind, uuid := range expected {
		if kinds[kind] != uuid {
			t.Errorf("issue %s device = %q, expected %q", kind, kinds[kind], uuid)
		}
	}

	if placement.Assigned["a"].ID != "pcie_x16_1" {
		t.Errorf("a assigned %s, expected pcie_x16_1", placement.Assigned["a"].ID)
	}
	if placement.Assigned["c"].ID != "pcie_x4_1" {
		t.Errorf("c keeps recorded slot, got %s", placement.Assigned["c"].ID)
	}
	// b, d and e fall back to auto-assignment: x8_1, x16_2, then nothing left for e
	if placement.Assigned["b"].ID != "pcie_x8_1" {
		t.Errorf("b assigned %s, expected pcie_x8_1", placement.Assigned["b"].ID)
	}
	if placement.Assigned["d"].ID != "pcie_x16_2" {
		t.Errorf("d assigned %s, expected pcie_x16_2", placement.Assigned["d"].ID)
	}
	if len(placement.Unplaced) != 1 || placement.Unplaced[0].UUID != "e" {
		t.Errorf("Unplaced = %+v, expected [e]", placement.Unplaced)
	}

	for _, issue := range placement.Issues {
		if issue.Kind == IssueOversized && issue.Blocking() {
			t.Error("oversized issue should not block")
		}
	}
}

func TestUsage(t *testing.T) {
	tracker := NewPCIeTracker(testBoard())
	tracker.Place([]Device{{UUID: "nic", Required: 16}})

	usage := tracker.Usage()
	if len(usage) != 3 {
		t.Fatalf("len(Usage()) = %d, expected 3", len(usage))
	}
	last := usage[2]
	if last.Size != "x16" || last.Total != 2 || last.Used != 1 || last.Available != 1 {
		t.Errorf("x16 usage = %+v", last)
	}
}

func TestMemoryTracker(t *testing.T) {
	m := NewMemoryTracker(testBoard())
	for i := 0; i < 3; i++ {
		m.Install(32)
	}

	if m.Available() != 1 {
		t.Errorf("Available() = %d, expected 1", m.Available())
	}
	if got := m.SlotDeficit(1); got != 0 {
		t.Errorf("SlotDeficit(1) = %d, expected 0", got)
	}
	if got := m.SlotDeficit(2); got != 1 {
		t.Errorf("SlotDeficit(2) = %d, expected 1", got)
	}
	if got := m.CapacityExcess(32); got != 0 {
		t.Errorf("CapacityExcess(32) = %d, expected 0", got)
	}
	if got := m.CapacityExcess(64); got != 32 {
		t.Errorf("CapacityExcess(64) = %d, expected 32", got)
	}
	if !m.ExceedsSlotCapacity(64) || m.ExceedsSlotCapacity(32) {
		t.Error("ExceedsSlotCapacity() returned unexpected result")
	}

	usage := m.Usage()
	if usage.UsedCapacity != 96 || usage.AvailableCapacity != 32 {
		t.Errorf("Usage() = %+v", usage)
	}

	empty := NewMemoryTracker(nil)
	if empty.CapacityExcess(1024) != 0 {
		t.Error("undeclared maximum should never overflow")
	}
}

func TestBayTracker(t *testing.T) {
	chassis := &models.ChassisSpec{
		DriveBays: models.DriveBays{
			Total:            2,
			BayConfiguration: []models.BayGroup{{Size: "3.5-inch", Count: 2}},
		},
	}
	b := NewBayTracker(chassis)
	b.Install("3.5-inch")
	b.Install("M.2 2280")

	if b.Used() != 1 {
		t.Errorf("Used() = %d, expected 1 (M.2 takes no bay)", b.Used())
	}
	if b.Deficit(2) != 1 {
		t.Errorf("Deficit(2) = %d, expected 1", b.Deficit(2))
	}

	tests := []struct {
		formFactor string
		expected   BayFit
	}{
		{formFactor: "3.5-inch", expected: BayFitNative},
		{formFactor: "2.5-inch", expected: BayFitCaddy},
		{formFactor: "U.2", expected: BayFitCaddy},
	}
	for _, tt := range tests {
		t.Run(tt.formFactor, func(t *testing.T) {
			if got := b.Fit(tt.formFactor); got != tt.expected {
				t.Errorf("Fit(%q) = %v, expected %v", tt.formFactor, got, tt.expected)
			}
		})
	}

	small := NewBayTracker(&models.ChassisSpec{
		DriveBays: models.DriveBays{BayConfiguration: []models.BayGroup{{Size: "2.5-inch", Count: 8}}},
	})
	if small.Fit("3.5-inch") != BayFitNone {
		t.Error("3.5-inch drive should not fit 2.5-inch bays")
	}
	if small.Total() != 8 {
		t.Errorf("Total() = %d, expected 8", small.Total())
	}
}
