package compat

import (
	"fmt"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

// validateMotherboard runs the single-instance guard and every reverse check
// against components added before the motherboard
func validateMotherboard(v *models.Verdict, mb *models.MotherboardSpec, in *installed) {
	if in.snapshot.Motherboard != nil {
		v.Block(models.Finding{
			Type:       constants.FindingMotherboardAlreadyExists,
			Message:    fmt.Sprintf("Configuration already has motherboard %s", in.snapshot.Motherboard.UUID),
			Resolution: "Remove the existing motherboard first",
			Details:    map[string]any{"existing_uuid": in.snapshot.Motherboard.UUID},
		})
		return
	}

	checkBoardAgainstCPUs(v, mb, in)
	checkBoardAgainstRAM(v, mb, in)
	checkBoardAgainstCards(v, mb, in)

	if in.chassis != nil {
		checkBoardFitsChassis(v, mb, in.chassis.Spec)
	}
}

func checkBoardAgainstCPUs(v *models.Verdict, mb *models.MotherboardSpec, in *installed) {
	for _, c := range in.cpus {
		if !utils.SocketsMatch(c.Spec.Socket, mb.Socket) {
			v.Block(models.Finding{
				Type:       constants.FindingMotherboardSocketMismatch,
				Message:    fmt.Sprintf("Motherboard socket %s does not match installed CPU %s (%s)", mb.Socket, c.Spec.Label(), c.Spec.Socket),
				Resolution: fmt.Sprintf("Choose a motherboard with socket %s or replace the CPU", c.Spec.Socket),
				Details:    map[string]any{"motherboard_socket": mb.Socket, "cpu_socket": c.Spec.Socket, "cpu_uuid": c.Ref.UUID},
			})
		}
	}

	maxCPUs := mb.MaxCPUs
	if maxCPUs <= 0 {
		maxCPUs = 1
	}
	if len(in.cpus) > maxCPUs {
		overflow := len(in.cpus) - maxCPUs
		v.Block(models.Finding{
			Type:       constants.FindingCPUCountExceedsSockets,
			Message:    fmt.Sprintf("%d CPUs installed but the motherboard has %d socket(s)", len(in.cpus), maxCPUs),
			Resolution: fmt.Sprintf("Remove %d CPU(s) or choose a board with more sockets", overflow),
			Details:    map[string]any{"installed": len(in.cpus), "max_cpus": maxCPUs, "overflow": overflow},
		})
	}

	if mb.PCIeVersion > 0 {
		for _, c := range in.cpus {
			if c.Spec.PCIeVersion > mb.PCIeVersion {
				v.Warn(models.Finding{
					Type: constants.FindingPCIeVersionMismatch,
					Message: fmt.Sprintf("CPU %s supports PCIe %.1f but the motherboard only PCIe %.1f",
						c.Spec.Label(), c.Spec.PCIeVersion, mb.PCIeVersion),
					Details: map[string]any{
						"cpu_uuid":            c.Ref.UUID,
						"cpu_version":         c.Spec.PCIeVersion,
						"motherboard_version": mb.PCIeVersion,
						"performance_loss":    utils.PercentageLoss(mb.PCIeVersion, c.Spec.PCIeVersion),
					},
				})
			}
		}
	}
}

func checkBoardAgainstRAM(v *models.Verdict, mb *models.MotherboardSpec, in *installed) {
	if len(in.ram) == 0 {
		return
	}
	stats := in.ramStats()

	supported := utils.MemoryTypeSet(mb.MemoryTypes)
	var unsupported []string
	for _, t := range utils.SortedKeys(stats.types) {
		if !supported[t] {
			unsupported = append(unsupported, t)
		}
	}
	if len(unsupported) > 0 {
		v.Block(models.Finding{
			Type: constants.FindingMotherboardMemoryTypeBad,
			Message: fmt.Sprintf("Installed memory type %s is not supported by the motherboard (supports %s)",
				strings.Join(unsupported, ", "), strings.Join(utils.SortedKeys(supported), ", ")),
			Resolution: "Replace the installed memory or choose a motherboard that supports it",
			Details:    map[string]any{"unsupported_types": unsupported},
		})
	}

	boardFF := utils.NormalizeMemoryFormFactor(mb.MemoryFormFactor)
	if boardFF != "" {
		var offenders []string
		for _, r := range in.ram {
			if ff := utils.NormalizeMemoryFormFactor(r.Spec.FormFactor); ff != "" && ff != boardFF {
				offenders = append(offenders, r.Ref.UUID)
			}
		}
		if len(offenders) > 0 {
			v.Block(models.Finding{
				Type:       constants.FindingRAMFormFactorMismatch,
				Message:    fmt.Sprintf("%d installed module(s) do not match the motherboard form factor %s", len(offenders), boardFF),
				Resolution: fmt.Sprintf("Use %s modules", boardFF),
				Details:    map[string]any{"motherboard_form_factor": boardFF, "modules": offenders},
			})
		}
	}

	memory := slots.NewMemoryTracker(mb)
	for _, r := range in.ram {
		if memory.ExceedsSlotCapacity(r.Spec.Capacity) {
			v.Block(models.Finding{
				Type:       constants.FindingModuleExceedsSlotCap,
				Message:    fmt.Sprintf("Module %s (%dGB) exceeds the %dGB per-slot limit", r.Spec.Label(), r.Spec.Capacity, mb.PerSlotCapacity),
				Resolution: fmt.Sprintf("Use modules of at most %dGB", mb.PerSlotCapacity),
				Details:    map[string]any{"module_uuid": r.Ref.UUID, "capacity_gb": r.Spec.Capacity, "per_slot_capacity_gb": mb.PerSlotCapacity},
			})
		}
		memory.Install(r.Spec.Capacity)
	}

	if deficit := memory.SlotDeficit(0); deficit > 0 {
		v.Block(models.Finding{
			Type:       constants.FindingRAMSlotLimitExceeded,
			Message:    fmt.Sprintf("%d memory modules installed but the motherboard has %d slots", memory.Used(), mb.MemorySlots),
			Resolution: fmt.Sprintf("Remove %d module(s) or choose a board with more memory slots", deficit),
			Details:    map[string]any{"installed": memory.Used(), "slots": mb.MemorySlots, "overflow": deficit},
		})
	}

	if excess := memory.CapacityExcess(0); excess > 0 {
		v.Block(models.Finding{
			Type:       constants.FindingMemoryCapacityExceeded,
			Message:    fmt.Sprintf("Installed memory %dGB exceeds the motherboard maximum %dGB", memory.UsedCapacity(), mb.MaxMemoryCapacity),
			Resolution: fmt.Sprintf("Remove at least %dGB of memory", excess),
			Details:    map[string]any{"installed_gb": memory.UsedCapacity(), "max_gb": mb.MaxMemoryCapacity, "excess_gb": excess},
		})
	}

	if len(in.cpus) > 0 {
		warnCascade(v, stats.maxFrequency, mb.MaxMemoryFrequency, in.cpuMaxFrequencies())
	} else {
		warnDownclock(v, stats.maxFrequency, mb.MaxMemoryFrequency, LimiterMotherboard)
	}
}

func checkBoardAgainstCards(v *models.Verdict, mb *models.MotherboardSpec, in *installed) {
	direct, risers := in.slotDevices()
	if len(direct) == 0 && len(risers) == 0 {
		return
	}

	pcie := slots.NewPCIeTracker(mb)
	riser := slots.NewRiserTracker(mb)

	countOK := checkPoolCount(v, len(direct), pcie, constants.FindingPCIeSlotCountExceeded, "PCIe")
	if !checkPoolCount(v, len(risers), riser, constants.FindingRiserSlotUnavailable, "riser") {
		countOK = false
	}

	sizesOK := checkPoolSizes(v, direct, pcie)
	if !checkPoolSizes(v, risers, riser) {
		sizesOK = false
	}

	if mb.PCIeVersion > 0 {
		for _, d := range append(direct, risers...) {
			if d.Version <= mb.PCIeVersion {
				continue
			}
			loss := utils.PercentageLoss(mb.PCIeVersion, d.Version)
			v.Warn(models.Finding{
				Type: constants.FindingPCIeBandwidthReduction,
				Message: fmt.Sprintf("%s is PCIe %.1f but the motherboard is PCIe %.1f (%.1f%% less bandwidth)",
					d.Label, d.Version, mb.PCIeVersion, loss),
				Details: map[string]any{"component_uuid": d.UUID, "card_version": d.Version, "slot_version": mb.PCIeVersion, "performance_loss": loss},
			})
		}
	}

	if !countOK || !sizesOK {
		return
	}

	_, _, pciePlacement, riserPlacement := in.placeCards(mb)

	reportSlotIssues(v, pciePlacement)
	reportSlotIssues(v, riserPlacement)
	reportUnplaced(v, pciePlacement, constants.FindingPCIeSlotUnavailable)
	reportUnplaced(v, riserPlacement, constants.FindingRiserSlotUnavailable)
}

// checkPoolCount blocks when more devices are installed than the pool has slots
func checkPoolCount(v *models.Verdict, installed int, pool *slots.Tracker, findingType, poolName string) bool {
	if installed <= pool.Total() {
		return true
	}
	overflow := installed - pool.Total()
	v.Block(models.Finding{
		Type:       findingType,
		Message:    fmt.Sprintf("%d devices need %s slots but the motherboard has %d", installed, poolName, pool.Total()),
		Resolution: fmt.Sprintf("Remove %d device(s) or choose a board with more %s slots", overflow, poolName),
		Details:    map[string]any{"installed": installed, "slots": pool.Total(), "overflow": overflow},
	})
	return false
}

// checkPoolSizes blocks for devices wider than every slot of a non-empty pool
func checkPoolSizes(v *models.Verdict, devices []slots.Device, pool *slots.Tracker) bool {
	ok := true
	for _, d := range devices {
		if pool.Total() == 0 || pool.Fits(d.Required) {
			continue
		}
		ok = false
		v.Block(models.Finding{
			Type:       constants.FindingPCIeSlotIncompatible,
			Message:    fmt.Sprintf("%s needs an %s slot but the motherboard has none that large", d.Label, utils.SlotLabel(d.Required)),
			Resolution: "Choose a motherboard with a larger slot or remove the device",
			Details:    map[string]any{"component_uuid": d.UUID, "required_size": utils.SlotLabel(d.Required)},
		})
	}
	return ok
}

func checkBoardFitsChassis(v *models.Verdict, mb *models.MotherboardSpec, ch *models.ChassisSpec) {
	if mb.FormFactor == "" || len(ch.FormFactorSupport) == 0 {
		return
	}
	want := utils.NormalizeBoardFormFactor(mb.FormFactor)
	for _, ff := range ch.FormFactorSupport {
		if utils.NormalizeBoardFormFactor(ff) == want {
			return
		}
	}
	v.Warn(models.Finding{
		Type: constants.FindingChassisFormFactorUnknown,
		Message: fmt.Sprintf("Motherboard form factor %s is not in the chassis support list (%s)",
			mb.FormFactor, strings.Join(ch.FormFactorSupport, ", ")),
		Resolution: "Verify physical fitment manually; chassis support lists are often incomplete",
		Details:    map[string]any{"motherboard_form_factor": mb.FormFactor, "chassis_support": ch.FormFactorSupport},
	})
}
