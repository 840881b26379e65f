package compat

import (
	"fmt"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

// validateRAM checks a memory module against the motherboard, every CPU and
// the modules already installed
func validateRAM(v *models.Verdict, ram *models.RAMSpec, in *installed) {
	memType := utils.NormalizeMemoryType(ram.MemoryType)

	if in.motherboard != nil {
		checkRAMAgainstBoard(v, ram, memType, in.motherboard.Spec, in)
	}
	for _, c := range in.cpus {
		checkRAMAgainstCPU(v, ram, memType, c, in)
	}
	checkRAMPeers(v, ram, memType, in)

	switch {
	case in.motherboard != nil && len(in.cpus) > 0:
		warnCascade(v, ram.Frequency, in.motherboard.Spec.MaxMemoryFrequency, in.cpuMaxFrequencies())
	case in.motherboard != nil:
		warnDownclock(v, ram.Frequency, in.motherboard.Spec.MaxMemoryFrequency, LimiterMotherboard)
	case len(in.cpus) > 0:
		limit := 0
		for _, f := range in.cpuMaxFrequencies() {
			if f > 0 && (limit == 0 || f < limit) {
				limit = f
			}
		}
		warnDownclock(v, ram.Frequency, limit, LimiterCPU)
	}
}

func checkRAMAgainstBoard(v *models.Verdict, ram *models.RAMSpec, memType string, mb *models.MotherboardSpec, in *installed) {
	supported := utils.MemoryTypeSet(mb.MemoryTypes)
	if !supported[memType] {
		v.Block(models.Finding{
			Type: constants.FindingRAMTypeUnsupported,
			Message: fmt.Sprintf("Motherboard supports %s memory, not %s",
				strings.Join(utils.SortedKeys(supported), ", "), memType),
			Resolution: fmt.Sprintf("Choose %s memory", strings.Join(utils.SortedKeys(supported), " or ")),
			Details:    map[string]any{"memory_type": memType, "supported_types": utils.SortedKeys(supported)},
		})
	}

	boardFF := utils.NormalizeMemoryFormFactor(mb.MemoryFormFactor)
	moduleFF := utils.NormalizeMemoryFormFactor(ram.FormFactor)
	if boardFF != "" && moduleFF != "" && boardFF != moduleFF {
		v.Block(models.Finding{
			Type:       constants.FindingRAMFormFactorMismatch,
			Message:    fmt.Sprintf("Module form factor %s does not fit %s motherboard slots", moduleFF, boardFF),
			Resolution: fmt.Sprintf("Choose a %s module", boardFF),
			Details:    map[string]any{"module_form_factor": moduleFF, "motherboard_form_factor": boardFF},
		})
	}

	memory := slots.NewMemoryTracker(mb)
	for _, r := range in.ram {
		memory.Install(r.Spec.Capacity)
	}

	if memory.SlotDeficit(1) > 0 {
		v.Block(models.Finding{
			Type:       constants.FindingRAMSlotLimitExceeded,
			Message:    fmt.Sprintf("All %d memory slots are in use", mb.MemorySlots),
			Resolution: "Remove a module or replace modules with higher-capacity ones",
			Details:    map[string]any{"used": memory.Used(), "slots": mb.MemorySlots, "deficit": memory.SlotDeficit(1)},
		})
	}

	if memory.ExceedsSlotCapacity(ram.Capacity) {
		v.Block(models.Finding{
			Type:       constants.FindingRAMExceedsSlotCapacity,
			Message:    fmt.Sprintf("Module capacity %dGB exceeds the %dGB per-slot limit", ram.Capacity, mb.PerSlotCapacity),
			Resolution: fmt.Sprintf("Choose a module of at most %dGB", mb.PerSlotCapacity),
			Details:    map[string]any{"capacity_gb": ram.Capacity, "per_slot_capacity_gb": mb.PerSlotCapacity},
		})
	}

	if excess := memory.CapacityExcess(ram.Capacity); excess > 0 {
		current := memory.UsedCapacity()
		v.Block(models.Finding{
			Type: constants.FindingRAMCapacityExceeded,
			Message: fmt.Sprintf("Memory would total %dGB (current %dGB + new %dGB), above the motherboard maximum %dGB",
				current+ram.Capacity, current, ram.Capacity, mb.MaxMemoryCapacity),
			Resolution: "Choose a smaller module or remove installed memory",
			Details: map[string]any{
				"current_gb": current,
				"new_gb":     ram.Capacity,
				"total_gb":   current + ram.Capacity,
				"max_gb":     mb.MaxMemoryCapacity,
				"excess_gb":  excess,
			},
		})
	}
}

func checkRAMAgainstCPU(v *models.Verdict, ram *models.RAMSpec, memType string, c Installed[*models.CPUSpec], in *installed) {
	cpu := c.Spec
	supported := utils.MemoryTypeSet(cpu.MemoryTypes)
	if !supported[memType] {
		v.Block(models.Finding{
			Type: constants.FindingRAMCPUTypeUnsupported,
			Message: fmt.Sprintf("CPU %s supports %s memory, not %s",
				cpu.Label(), strings.Join(utils.SortedKeys(supported), ", "), memType),
			Resolution: fmt.Sprintf("Choose %s memory", strings.Join(utils.SortedKeys(supported), " or ")),
			Details:    map[string]any{"cpu_uuid": c.Ref.UUID, "memory_type": memType, "supported_types": utils.SortedKeys(supported)},
		})
	}

	if cpu.ECCRequired && !ram.ECC {
		v.Block(models.Finding{
			Type:       constants.FindingRAMECCRequired,
			Message:    fmt.Sprintf("CPU %s requires ECC memory", cpu.Label()),
			Resolution: "Choose an ECC module",
			Details:    map[string]any{"cpu_uuid": c.Ref.UUID},
		})
	}

	if cpu.MaxMemoryCapacity > 0 {
		current := 0
		for _, r := range in.ram {
			current += r.Spec.Capacity
		}
		if total := current + ram.Capacity; total > cpu.MaxMemoryCapacity {
			v.Block(models.Finding{
				Type: constants.FindingRAMCPUCapacityExceeded,
				Message: fmt.Sprintf("Memory would total %dGB (current %dGB + new %dGB), above the CPU %s maximum %dGB",
					total, current, ram.Capacity, cpu.Label(), cpu.MaxMemoryCapacity),
				Resolution: "Choose a smaller module or remove installed memory",
				Details: map[string]any{
					"cpu_uuid":   c.Ref.UUID,
					"current_gb": current,
					"new_gb":     ram.Capacity,
					"total_gb":   total,
					"max_gb":     cpu.MaxMemoryCapacity,
					"excess_gb":  total - cpu.MaxMemoryCapacity,
				},
			})
		}
	}
}

func checkRAMPeers(v *models.Verdict, ram *models.RAMSpec, memType string, in *installed) {
	if len(in.ram) == 0 {
		return
	}
	stats := in.ramStats()

	if len(stats.types) > 0 && (len(stats.types) > 1 || !stats.types[memType]) {
		v.Block(models.Finding{
			Type: constants.FindingRAMTypeMismatch,
			Message: fmt.Sprintf("Installed memory is %s; mixing with %s is not allowed",
				strings.Join(utils.SortedKeys(stats.types), ", "), memType),
			Resolution: "Use the same memory type as the installed modules",
			Details:    map[string]any{"installed_types": utils.SortedKeys(stats.types), "memory_type": memType},
		})
	}

	moduleFF := utils.NormalizeMemoryFormFactor(ram.FormFactor)
	if moduleFF != "" && len(stats.formFactors) > 0 && (len(stats.formFactors) > 1 || !stats.formFactors[moduleFF]) {
		v.Block(models.Finding{
			Type: constants.FindingRAMPeerFormFactor,
			Message: fmt.Sprintf("Installed modules are %s; %s cannot be mixed in",
				strings.Join(utils.SortedKeys(stats.formFactors), ", "), moduleFF),
			Resolution: "Use the same form factor as the installed modules",
			Details:    map[string]any{"installed_form_factors": utils.SortedKeys(stats.formFactors), "form_factor": moduleFF},
		})
	}

	if len(stats.eccValues) == 1 && !stats.eccValues[ram.ECC] {
		installedECC := !ram.ECC
		v.Block(models.Finding{
			Type:       constants.FindingRAMECCMismatch,
			Message:    fmt.Sprintf("Installed modules are %s; a %s module cannot be mixed in", eccLabel(installedECC), eccLabel(ram.ECC)),
			Resolution: fmt.Sprintf("Choose a %s module", eccLabel(installedECC)),
			Details:    map[string]any{"installed_ecc": installedECC, "ecc": ram.ECC},
		})
	}

	if ram.Frequency > 0 && stats.minFrequency > 0 && (stats.minFrequency != ram.Frequency || stats.maxFrequency != ram.Frequency) {
		effective := stats.minFrequency
		if ram.Frequency < effective {
			effective = ram.Frequency
		}
		v.Warn(models.Finding{
			Type: constants.FindingRAMFrequencyMismatch,
			Message: fmt.Sprintf("Installed modules run at %d-%dMHz and the new module at %dMHz; all memory will run at %dMHz",
				stats.minFrequency, stats.maxFrequency, ram.Frequency, effective),
			Resolution: "Use modules of the same frequency",
			Details:    map[string]any{"effective_frequency": effective, "memory_frequency": ram.Frequency},
		})
	}
}

func eccLabel(ecc bool) string {
	if ecc {
		return "ECC"
	}
	return "non-ECC"
}
