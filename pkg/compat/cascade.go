package compat

import "github.com/braunma/buildcheck/pkg/utils"

// Limiting components of the memory frequency cascade
const (
	LimiterCPU         = "cpu"
	LimiterMotherboard = "motherboard"
	LimiterBoth        = "cpu_and_motherboard"
)

// Cascade is the effective memory frequency after CPU and motherboard limits
type Cascade struct {
	Rated     int
	Effective int
	Limiter   string
	Loss      float64
}

// Limited reports whether the memory runs below its rating
func (c Cascade) Limited() bool {
	return c.Effective < c.Rated
}

// MemoryCascade computes effective = min(rated, motherboardMax, min(cpuMaxes)).
// Zero limits are unknown and ignored. The limiter is the component whose
// maximum is strictly smallest and below the rating.
func MemoryCascade(rated, motherboardMax int, cpuMaxes []int) Cascade {
	c := Cascade{Rated: rated, Effective: rated}
	if rated <= 0 {
		return c
	}

	cpuMax := 0
	for _, m := range cpuMaxes {
		if m > 0 && (cpuMax == 0 || m < cpuMax) {
			cpuMax = m
		}
	}

	if cpuMax > 0 && cpuMax < c.Effective {
		c.Effective = cpuMax
	}
	if motherboardMax > 0 && motherboardMax < c.Effective {
		c.Effective = motherboardMax
	}
	if !c.Limited() {
		return c
	}

	switch {
	case cpuMax == c.Effective && motherboardMax == c.Effective:
		c.Limiter = LimiterBoth
	case cpuMax == c.Effective:
		c.Limiter = LimiterCPU
	default:
		c.Limiter = LimiterMotherboard
	}
	c.Loss = utils.PercentageLoss(float64(c.Effective), float64(rated))
	return c
}
