package slots

import (
	"fmt"
	"sort"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// Slot is one physical expansion slot
type Slot struct {
	ID      string  `json:"id"`
	Pool    string  `json:"pool"`
	Size    int     `json:"size"`
	Version float64 `json:"version,omitempty"`
}

// Device is an expansion card that needs a slot
type Device struct {
	UUID     string
	Label    string
	Required int
	Position string
	Version  float64
}

// IssueKind classifies a slot map integrity problem
type IssueKind string

const (
	IssueDuplicate    IssueKind = "duplicate"
	IssueUnknownSlot  IssueKind = "unknown_slot"
	IssuePoolMismatch IssueKind = "pool_mismatch"
	IssueTooSmall     IssueKind = "too_small"
	IssueOversized    IssueKind = "oversized"
)

// Issue is a problem found while applying recorded slot positions
type Issue struct {
	Kind     IssueKind
	SlotID   string
	Device   Device
	SlotSize int
	// Holder is the device that already owns SlotID for duplicate issues
	Holder string
}

// Blocking reports whether the issue is an integrity violation rather than a note
func (i Issue) Blocking() bool {
	return i.Kind != IssueOversized
}

// Tracker computes total, used and available slots for one pool.
// The direct PCIe and riser pools never share slot ids.
type Tracker struct {
	pool        string
	slots       []Slot
	index       map[string]int
	assignments map[string]string
}

// NewPCIeTracker builds the direct PCIe slot pool of a motherboard
func NewPCIeTracker(mb *models.MotherboardSpec) *Tracker {
	if mb == nil {
		return newTracker(constants.PCIeSlotPrefix, nil, 0)
	}
	return newTracker(constants.PCIeSlotPrefix, mb.PCIeSlots, mb.PCIeVersion)
}

// NewRiserTracker builds the riser slot pool of a motherboard
func NewRiserTracker(mb *models.MotherboardSpec) *Tracker {
	if mb == nil {
		return newTracker(constants.RiserSlotPrefix, nil, 0)
	}
	return newTracker(constants.RiserSlotPrefix, mb.RiserSlots, mb.PCIeVersion)
}

func newTracker(pool string, groups []models.PCIeSlot, boardVersion float64) *Tracker {
	t := &Tracker{
		pool:        pool,
		index:       make(map[string]int),
		assignments: make(map[string]string),
	}

	perSize := make(map[int]int)
	for _, g := range groups {
		size := utils.ParseSlotSize(g.Size)
		if size <= 0 {
			continue
		}
		version := g.Version
		if version == 0 {
			version = boardVersion
		}
		for i := 0; i < g.Count; i++ {
			perSize[size]++
			slot := Slot{
				ID:      SlotID(pool, size, perSize[size]),
				Pool:    pool,
				Size:    size,
				Version: version,
			}
			t.slots = append(t.slots, slot)
		}
	}

	sort.SliceStable(t.slots, func(i, j int) bool {
		return t.slots[i].Size < t.slots[j].Size
	})
	for i, s := range t.slots {
		t.index[s.ID] = i
	}
	return t
}

// SlotID renders the id of the n-th slot of a size, e.g. "pcie_x16_1"
func SlotID(pool string, size, n int) string {
	return fmt.Sprintf("%s_%s_%d", pool, utils.SlotLabel(size), n)
}

// PoolOf returns the pool prefix of a slot id, or "" when the id has no known prefix
func PoolOf(slotID string) string {
	for _, p := range []string{constants.PCIeSlotPrefix, constants.RiserSlotPrefix} {
		if strings.HasPrefix(slotID, p+"_") {
			return p
		}
	}
	return ""
}

// Pool returns the pool prefix this tracker manages
func (t *Tracker) Pool() string {
	return t.pool
}

// Slots returns every slot in assignment order (smallest size first)
func (t *Tracker) Slots() []Slot {
	out := make([]Slot, len(t.slots))
	copy(out, t.slots)
	return out
}

// Slot looks up a slot by id
func (t *Tracker) Slot(id string) (Slot, bool) {
	i, ok := t.index[id]
	if !ok {
		return Slot{}, false
	}
	return t.slots[i], true
}

// Total returns the number of slots in the pool
func (t *Tracker) Total() int {
	return len(t.slots)
}

// Used returns the number of occupied slots
func (t *Tracker) Used() int {
	return len(t.assignments)
}

// Available returns the number of free slots
func (t *Tracker) Available() int {
	return t.Total() - t.Used()
}

// Assignments returns a copy of the slot id to component uuid map
func (t *Tracker) Assignments() map[string]string {
	out := make(map[string]string, len(t.assignments))
	for k, v := range t.assignments {
		out[k] = v
	}
	return out
}

// Fits reports whether some slot of the pool could ever host the required width
func (t *Tracker) Fits(required int) bool {
	for _, s := range t.slots {
		if s.Size >= required {
			return true
		}
	}
	return false
}

// AssignSlot returns the first free slot for the required width, scanning compatible
// sizes smallest first. It never returns a slot that is already assigned.
func (t *Tracker) AssignSlot(required int) (Slot, bool) {
	if required <= 0 {
		required = constants.DefaultCardLanes
	}
	for _, size := range utils.CompatibleSlotSizes(required) {
		for _, s := range t.slots {
			if s.Size != size {
				continue
			}
			if _, used := t.assignments[s.ID]; !used {
				return s, true
			}
		}
	}
	return Slot{}, false
}

// Placement is the result of fitting a set of devices into the pool
type Placement struct {
	Assigned map[string]Slot
	Unplaced []Device
	Issues   []Issue
}

// Place fits devices into the pool. Recorded positions are honoured first,
// in input order; the remaining devices are auto-assigned smallest slot first.
func (t *Tracker) Place(devices []Device) Placement {
	result := Placement{Assigned: make(map[string]Slot)}
	var pending []Device

	for _, d := range devices {
		if d.Position == "" {
			pending = append(pending, d)
			continue
		}

		if pool := PoolOf(d.Position); pool != t.pool {
			kind := IssueUnknownSlot
			if pool != "" {
				kind = IssuePoolMismatch
			}
			result.Issues = append(result.Issues, Issue{Kind: kind, SlotID: d.Position, Device: d})
			pending = append(pending, d)
			continue
		}

		slot, ok := t.Slot(d.Position)
		if !ok {
			result.Issues = append(result.Issues, Issue{Kind: IssueUnknownSlot, SlotID: d.Position, Device: d})
			pending = append(pending, d)
			continue
		}

		if holder, used := t.assignments[slot.ID]; used {
			result.Issues = append(result.Issues, Issue{Kind: IssueDuplicate, SlotID: slot.ID, Device: d, SlotSize: slot.Size, Holder: holder})
			pending = append(pending, d)
			continue
		}

		required := d.Required
		if required <= 0 {
			required = constants.DefaultCardLanes
		}
		switch {
		case slot.Size < required:
			result.Issues = append(result.Issues, Issue{Kind: IssueTooSmall, SlotID: slot.ID, Device: d, SlotSize: slot.Size})
		case slot.Size > required:
			result.Issues = append(result.Issues, Issue{Kind: IssueOversized, SlotID: slot.ID, Device: d, SlotSize: slot.Size})
		}

		t.assignments[slot.ID] = d.UUID
		result.Assigned[d.UUID] = slot
	}

	for _, d := range pending {
		slot, ok := t.AssignSlot(d.Required)
		if !ok {
			result.Unplaced = append(result.Unplaced, d)
			continue
		}
		t.assignments[slot.ID] = d.UUID
		result.Assigned[d.UUID] = slot
	}

	return result
}

// SizeUsage is the usage of one slot size within a pool
type SizeUsage struct {
	Size      string `json:"size"`
	Total     int    `json:"total"`
	Used      int    `json:"used"`
	Available int    `json:"available"`
}

// Usage returns total/used/available per slot size, smallest first
func (t *Tracker) Usage() []SizeUsage {
	bySize := make(map[int]*SizeUsage)
	var sizes []int
	for _, s := range t.slots {
		u, ok := bySize[s.Size]
		if !ok {
			u = &SizeUsage{Size: utils.SlotLabel(s.Size)}
			bySize[s.Size] = u
			sizes = append(sizes, s.Size)
		}
		u.Total++
		if _, used := t.assignments[s.ID]; used {
			u.Used++
		} else {
			u.Available++
		}
	}
	sort.Ints(sizes)

	out := make([]SizeUsage, 0, len(sizes))
	for _, size := range sizes {
		out = append(out, *bySize[size])
	}
	return out
}
