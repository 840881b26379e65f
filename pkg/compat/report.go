package compat

import (
	"context"
	"fmt"
	"sort"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
)

// SlotReport computes total, used and available resources of a configuration
func (e *Engine) SlotReport(ctx context.Context, configID string) (*slots.Report, error) {
	snapshot, err := e.snapshots.GetSnapshot(ctx, configID)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration %s: %w", configID, err)
	}

	in, err := e.loadInstalled(ctx, snapshot, nil)
	if err != nil {
		return nil, err
	}

	var board *models.MotherboardSpec
	if in.motherboard != nil {
		board = in.motherboard.Spec
	}
	var chassis *models.ChassisSpec
	if in.chassis != nil {
		chassis = in.chassis.Spec
	}

	pcie, riser, pciePlacement, riserPlacement := in.placeCards(board)

	memory := slots.NewMemoryTracker(board)
	for _, r := range in.ram {
		memory.Install(r.Spec.Capacity)
	}

	bays := slots.NewBayTracker(chassis)
	for _, s := range in.storage {
		bays.Install(s.Spec.FormFactor)
	}

	report := &slots.Report{
		ConfigID:    configID,
		PCIe:        pcie.Usage(),
		Riser:       riser.Usage(),
		Assignments: pcie.Assignments(),
		Memory:      memory.Usage(),
		Bays:        bays.Usage(),
	}
	for id, uuid := range riser.Assignments() {
		report.Assignments[id] = uuid
	}
	for _, d := range append(pciePlacement.Unplaced, riserPlacement.Unplaced...) {
		report.Unplaced = append(report.Unplaced, d.UUID)
	}
	sort.Strings(report.Unplaced)
	return report, nil
}
