package slots

import (
	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// IsBayMounted reports whether a drive of this form factor occupies a chassis bay.
// M.2 and add-in-card drives attach elsewhere.
func IsBayMounted(formFactor string) bool {
	switch utils.NormalizeDriveFormFactor(formFactor) {
	case constants.FormFactor25, constants.FormFactor35, constants.FormFactorU2:
		return true
	}
	return false
}

// BaySizeFor returns the physical bay size a drive form factor needs
func BaySizeFor(formFactor string) string {
	switch ff := utils.NormalizeDriveFormFactor(formFactor); ff {
	case constants.FormFactorU2:
		return constants.FormFactor25
	default:
		return ff
	}
}

// BayFit describes how a drive relates to a chassis bay configuration
type BayFit int

const (
	// BayFitNative means a bay of the drive's own size exists
	BayFitNative BayFit = iota
	// BayFitCaddy means only larger bays exist and the drive needs a caddy
	BayFitCaddy
	// BayFitNone means no bay can take the drive
	BayFitNone
)

// BayTracker counts drive bays of a chassis
type BayTracker struct {
	total  int
	groups map[string]int
	used   int
}

// BayUsage is a point-in-time bay report
type BayUsage struct {
	Total     int            `json:"total"`
	Used      int            `json:"used"`
	Available int            `json:"available"`
	BySize    map[string]int `json:"by_size,omitempty"`
}

// NewBayTracker builds a tracker from a chassis; nil yields an empty tracker
func NewBayTracker(ch *models.ChassisSpec) *BayTracker {
	b := &BayTracker{groups: make(map[string]int)}
	if ch == nil {
		return b
	}
	b.total = ch.DriveBays.Capacity()
	for _, g := range ch.DriveBays.BayConfiguration {
		b.groups[utils.NormalizeDriveFormFactor(g.Size)] += g.Count
	}
	return b
}

// Install records a drive; only bay-mounted drives consume a bay
func (b *BayTracker) Install(formFactor string) {
	if IsBayMounted(formFactor) {
		b.used++
	}
}

// Total returns the number of bays
func (b *BayTracker) Total() int {
	return b.total
}

// Used returns the number of occupied bays
func (b *BayTracker) Used() int {
	return b.used
}

// Available returns the number of free bays, never negative
func (b *BayTracker) Available() int {
	if free := b.total - b.used; free > 0 {
		return free
	}
	return 0
}

// Deficit returns how many bays are missing if n more bay-mounted drives are added
func (b *BayTracker) Deficit(n int) int {
	if over := b.used + n - b.total; over > 0 {
		return over
	}
	return 0
}

// Fit classifies a drive against the bay configuration. A chassis that does not
// declare its bay sizes is assumed to fit every bay-mounted drive natively.
func (b *BayTracker) Fit(formFactor string) BayFit {
	size := BaySizeFor(formFactor)
	if len(b.groups) == 0 {
		return BayFitNative
	}
	if b.groups[size] > 0 {
		return BayFitNative
	}
	if size == constants.FormFactor25 && b.groups[constants.FormFactor35] > 0 {
		return BayFitCaddy
	}
	return BayFitNone
}

// Sizes returns the declared bay sizes in a stable order
func (b *BayTracker) Sizes() []string {
	set := make(map[string]bool, len(b.groups))
	for size := range b.groups {
		set[size] = true
	}
	return utils.SortedKeys(set)
}

// Usage returns the bay report
func (b *BayTracker) Usage() BayUsage {
	u := BayUsage{Total: b.total, Used: b.used, Available: b.Available()}
	if len(b.groups) > 0 {
		u.BySize = make(map[string]int, len(b.groups))
		for k, v := range b.groups {
			u.BySize[k] = v
		}
	}
	return u
}
