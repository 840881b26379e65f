package compat

import (
	"fmt"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// validateCPU checks a processor against the motherboard (forward) and
// against installed memory and expansion cards (reverse)
func validateCPU(v *models.Verdict, cpu *models.CPUSpec, in *installed) {
	if in.motherboard == nil {
		v.Info(models.Finding{
			Type:    constants.FindingNoMotherboardYet,
			Message: "No motherboard in the configuration yet; socket and CPU count are checked when one is added",
		})
	} else {
		checkCPUAgainstBoard(v, cpu, in.motherboard.Spec, len(in.cpus))
	}

	checkCPUAgainstRAM(v, cpu, in)
	checkLaneBudget(v, in.cpuLanes()+cpu.PCIeLanes, in.laneDemand(), cpu.PCIeLanes > 0,
		"Remove an expansion card or choose a CPU with more PCIe lanes")
}

func checkCPUAgainstBoard(v *models.Verdict, cpu *models.CPUSpec, mb *models.MotherboardSpec, installedCPUs int) {
	if !utils.SocketsMatch(cpu.Socket, mb.Socket) {
		v.Block(models.Finding{
			Type:       constants.FindingCPUSocketMismatch,
			Message:    fmt.Sprintf("CPU socket %s does not match motherboard socket %s", cpu.Socket, mb.Socket),
			Resolution: fmt.Sprintf("Choose a CPU for socket %s or replace the motherboard", mb.Socket),
			Details:    map[string]any{"cpu_socket": cpu.Socket, "motherboard_socket": mb.Socket},
		})
	}

	maxCPUs := mb.MaxCPUs
	if maxCPUs <= 0 {
		maxCPUs = 1
	}
	if installedCPUs >= maxCPUs {
		v.Block(models.Finding{
			Type:       constants.FindingCPUSocketLimitExceeded,
			Message:    fmt.Sprintf("Motherboard supports %d CPU(s) and %d already installed", maxCPUs, installedCPUs),
			Resolution: "Remove a CPU or choose a multi-socket motherboard",
			Details:    map[string]any{"installed": installedCPUs, "max_cpus": maxCPUs},
		})
	}

	if mb.PCIeVersion > 0 && cpu.PCIeVersion > mb.PCIeVersion {
		v.Warn(models.Finding{
			Type: constants.FindingPCIeVersionMismatch,
			Message: fmt.Sprintf("CPU supports PCIe %.1f but the motherboard only PCIe %.1f; devices run at %.1f",
				cpu.PCIeVersion, mb.PCIeVersion, mb.PCIeVersion),
			Details: map[string]any{
				"cpu_version":         cpu.PCIeVersion,
				"motherboard_version": mb.PCIeVersion,
				"performance_loss":    utils.PercentageLoss(mb.PCIeVersion, cpu.PCIeVersion),
			},
		})
	}
}

func checkCPUAgainstRAM(v *models.Verdict, cpu *models.CPUSpec, in *installed) {
	if len(in.ram) == 0 {
		return
	}
	stats := in.ramStats()

	supported := utils.MemoryTypeSet(cpu.MemoryTypes)
	var unsupported []string
	for _, t := range utils.SortedKeys(stats.types) {
		if !supported[t] {
			unsupported = append(unsupported, t)
		}
	}
	if len(unsupported) > 0 {
		v.Block(models.Finding{
			Type: constants.FindingCPUMemoryTypeUnsupported,
			Message: fmt.Sprintf("Installed memory type %s is not supported by the CPU (supports %s)",
				strings.Join(unsupported, ", "), strings.Join(utils.SortedKeys(supported), ", ")),
			Resolution: "Replace the installed memory or choose a CPU that supports it",
			Details:    map[string]any{"unsupported_types": unsupported, "cpu_types": utils.SortedKeys(supported)},
		})
	}

	if cpu.MaxMemoryCapacity > 0 && stats.capacity > cpu.MaxMemoryCapacity {
		excess := stats.capacity - cpu.MaxMemoryCapacity
		v.Block(models.Finding{
			Type:       constants.FindingCPUMemoryCapacityExceeded,
			Message:    fmt.Sprintf("Installed memory %dGB exceeds CPU maximum %dGB by %dGB", stats.capacity, cpu.MaxMemoryCapacity, excess),
			Resolution: fmt.Sprintf("Remove at least %dGB of memory or choose a CPU with a higher memory limit", excess),
			Details:    map[string]any{"installed_gb": stats.capacity, "max_gb": cpu.MaxMemoryCapacity, "excess_gb": excess},
		})
	}

	if cpu.ECCRequired && stats.nonECC > 0 {
		v.Block(models.Finding{
			Type:       constants.FindingCPUECCRequired,
			Message:    fmt.Sprintf("CPU requires ECC memory but %d installed module(s) are non-ECC", stats.nonECC),
			Resolution: "Replace the non-ECC modules with ECC memory",
			Details:    map[string]any{"non_ecc_modules": stats.nonECC},
		})
	}

	if cpu.MaxMemoryFrequency <= 0 || stats.maxFrequency <= cpu.MaxMemoryFrequency {
		return
	}
	if in.motherboard != nil {
		warnCascade(v, stats.maxFrequency, in.motherboard.Spec.MaxMemoryFrequency, append(in.cpuMaxFrequencies(), cpu.MaxMemoryFrequency))
		return
	}
	warnDownclock(v, stats.maxFrequency, cpu.MaxMemoryFrequency, LimiterCPU)
}

// checkLaneBudget blocks when expansion cards need more lanes than the CPUs provide.
// known is false when lane counts are undeclared.
func checkLaneBudget(v *models.Verdict, provided, demand int, known bool, resolution string) {
	if !known || provided <= 0 || demand <= provided {
		return
	}
	deficit := demand - provided
	v.Block(models.Finding{
		Type:       constants.FindingPCIeLaneBudgetExceeded,
		Message:    fmt.Sprintf("Expansion cards need %d PCIe lanes but the CPUs provide %d (deficit %d)", demand, provided, deficit),
		Resolution: resolution,
		Details:    map[string]any{"required_lanes": demand, "available_lanes": provided, "deficit": deficit},
	})
}

// warnDownclock reports memory running at a single component's limit
func warnDownclock(v *models.Verdict, rated, limit int, limiter string) {
	if limit <= 0 || rated <= limit {
		return
	}
	loss := utils.PercentageLoss(float64(limit), float64(rated))
	v.Warn(models.Finding{
		Type: constants.FindingMemoryFrequencyDownclock,
		Message: fmt.Sprintf("Memory rated %dMHz will run at the %s limit of %dMHz (%.1f%% slower)",
			rated, limiter, limit, loss),
		Details: map[string]any{
			"memory_frequency":    rated,
			"effective_frequency": limit,
			"limiting_component":  limiter,
			"performance_loss":    loss,
		},
	})
}

// warnCascade reports the effective memory frequency when both CPU and motherboard limits apply
func warnCascade(v *models.Verdict, rated, motherboardMax int, cpuMaxes []int) {
	c := MemoryCascade(rated, motherboardMax, cpuMaxes)
	if !c.Limited() {
		return
	}
	v.Warn(models.Finding{
		Type: constants.FindingRAMFrequencyCascade,
		Message: fmt.Sprintf("Memory rated %dMHz will run at %dMHz, limited by the %s (%.1f%% slower)",
			c.Rated, c.Effective, strings.ReplaceAll(c.Limiter, "_", " "), c.Loss),
		Resolution: "Choose memory matching the effective frequency to avoid paying for unused speed",
		Details: map[string]any{
			"memory_frequency":    c.Rated,
			"effective_frequency": c.Effective,
			"limiting_component":  c.Limiter,
			"performance_loss":    c.Loss,
		},
	})
}
