package slots

import "github.com/braunma/buildcheck/pkg/models"

// MemoryTracker counts memory slots and capacity against a motherboard.
// Each installed RAM entry occupies exactly one slot.
type MemoryTracker struct {
	slots           int
	maxCapacity     int
	perSlotCapacity int
	modules         []int
}

// MemoryUsage is a point-in-time memory report
type MemoryUsage struct {
	Slots             int `json:"slots"`
	UsedSlots         int `json:"used_slots"`
	AvailableSlots    int `json:"available_slots"`
	MaxCapacity       int `json:"max_capacity_gb"`
	UsedCapacity      int `json:"used_capacity_gb"`
	AvailableCapacity int `json:"available_capacity_gb"`
}

// NewMemoryTracker builds a tracker from a motherboard; nil yields an empty tracker
func NewMemoryTracker(mb *models.MotherboardSpec) *MemoryTracker {
	m := &MemoryTracker{}
	if mb != nil {
		m.slots = mb.MemorySlots
		m.maxCapacity = mb.MaxMemoryCapacity
		m.perSlotCapacity = mb.PerSlotCapacity
	}
	return m
}

// Install records one module of the given capacity in GB
func (m *MemoryTracker) Install(capacityGB int) {
	m.modules = append(m.modules, capacityGB)
}

// Used returns the number of occupied slots
func (m *MemoryTracker) Used() int {
	return len(m.modules)
}

// Available returns the number of free slots, never negative
func (m *MemoryTracker) Available() int {
	if free := m.slots - m.Used(); free > 0 {
		return free
	}
	return 0
}

// UsedCapacity returns the installed capacity in GB
func (m *MemoryTracker) UsedCapacity() int {
	total := 0
	for _, c := range m.modules {
		total += c
	}
	return total
}

// SlotDeficit returns how many slots are missing if n more modules are added
func (m *MemoryTracker) SlotDeficit(n int) int {
	if over := m.Used() + n - m.slots; over > 0 {
		return over
	}
	return 0
}

// CapacityExcess returns how many GB exceed the board maximum if capacityGB is added.
// An undeclared maximum never overflows.
func (m *MemoryTracker) CapacityExcess(capacityGB int) int {
	if m.maxCapacity <= 0 {
		return 0
	}
	if over := m.UsedCapacity() + capacityGB - m.maxCapacity; over > 0 {
		return over
	}
	return 0
}

// ExceedsSlotCapacity reports whether a single module is larger than one slot accepts
func (m *MemoryTracker) ExceedsSlotCapacity(capacityGB int) bool {
	return m.perSlotCapacity > 0 && capacityGB > m.perSlotCapacity
}

// Usage returns the memory report
func (m *MemoryTracker) Usage() MemoryUsage {
	u := MemoryUsage{
		Slots:          m.slots,
		UsedSlots:      m.Used(),
		AvailableSlots: m.Available(),
		MaxCapacity:    m.maxCapacity,
		UsedCapacity:   m.UsedCapacity(),
	}
	if m.maxCapacity > u.UsedCapacity {
		u.AvailableCapacity = m.maxCapacity - u.UsedCapacity
	}
	return u
}
