package compat

import (
	"fmt"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

// validateCard places a NIC, HBA, adaptor or riser into the motherboard slot pools
// and checks the CPU lane budget
func validateCard(v *models.Verdict, card *models.CardSpec, in *installed) {
	required := cardLanes(card)

	if !card.IsRiser() {
		checkLaneBudget(v, in.cpuLanes(), in.laneDemand()+required, in.cpuLanes() > 0,
			"Remove another expansion card or add a CPU with more PCIe lanes")
	}

	if in.motherboard == nil {
		v.Info(models.Finding{
			Type:    constants.FindingNoMotherboardYet,
			Message: fmt.Sprintf("No motherboard in the configuration yet; a slot for the %s card is assigned when one is added", utils.SlotLabel(required)),
		})
		return
	}
	mb := in.motherboard.Spec

	pcie, riser, pciePlacement, riserPlacement := in.placeCards(mb)
	reportSlotIssues(v, pciePlacement)
	reportSlotIssues(v, riserPlacement)

	pool, unavailable, poolName := pcie, constants.FindingPCIeSlotUnavailable, "PCIe"
	if card.IsRiser() {
		pool, unavailable, poolName = riser, constants.FindingRiserSlotUnavailable, "riser"
	}

	if pool.Total() == 0 {
		v.Block(models.Finding{
			Type:       unavailable,
			Message:    fmt.Sprintf("Motherboard %s has no %s slots", mb.Label(), poolName),
			Resolution: fmt.Sprintf("Choose a motherboard with %s slots", poolName),
			Details:    map[string]any{"pool": pool.Pool()},
		})
		return
	}

	if !pool.Fits(required) {
		v.Block(models.Finding{
			Type:       constants.FindingPCIeSlotIncompatible,
			Message:    fmt.Sprintf("%s needs an %s slot but the largest %s slot is smaller", card.Label(), utils.SlotLabel(required), poolName),
			Resolution: "Choose a card with a smaller slot requirement or a motherboard with larger slots",
			Details:    map[string]any{"required_size": utils.SlotLabel(required), "usage": pool.Usage()},
		})
		return
	}

	slot, ok := pool.AssignSlot(required)
	if !ok {
		v.Block(models.Finding{
			Type: unavailable,
			Message: fmt.Sprintf("No free %s slot of size %s or larger (%d/%d slots used)",
				poolName, utils.SlotLabel(required), pool.Used(), pool.Total()),
			Resolution: "Remove a card occupying a compatible slot or choose a motherboard with more slots",
			Details:    map[string]any{"required_size": utils.SlotLabel(required), "used": pool.Used(), "total": pool.Total(), "usage": pool.Usage()},
		})
		return
	}

	v.AssignedSlot = slot.ID
	if slot.Size > required {
		v.Info(models.Finding{
			Type:    constants.FindingLargerSlotAssigned,
			Message: fmt.Sprintf("%s card assigned to larger slot %s; no free %s slot available", utils.SlotLabel(required), slot.ID, utils.SlotLabel(required)),
			Details: map[string]any{"slot_id": slot.ID, "slot_size": utils.SlotLabel(slot.Size), "required_size": utils.SlotLabel(required)},
		})
	}

	if slot.Version > 0 && card.PCIeVersion > slot.Version {
		loss := utils.PercentageLoss(slot.Version, card.PCIeVersion)
		v.Warn(models.Finding{
			Type: constants.FindingPCIeBandwidthReduction,
			Message: fmt.Sprintf("%s is PCIe %.1f but slot %s is PCIe %.1f (%.1f%% less bandwidth)",
				card.Label(), card.PCIeVersion, slot.ID, slot.Version, loss),
			Details: map[string]any{"card_version": card.PCIeVersion, "slot_version": slot.Version, "performance_loss": loss},
		})
	}
}

// reportSlotIssues turns slot map integrity problems into findings
func reportSlotIssues(v *models.Verdict, placement slots.Placement) {
	for _, issue := range placement.Issues {
		details := map[string]any{"slot_id": issue.SlotID, "component_uuid": issue.Device.UUID}
		switch issue.Kind {
		case slots.IssueDuplicate:
			details["holder_uuid"] = issue.Holder
			v.Block(models.Finding{
				Type:       constants.FindingDuplicateSlot,
				Message:    fmt.Sprintf("Slot %s is recorded for both %s and %s", issue.SlotID, issue.Holder, issue.Device.UUID),
				Resolution: "Correct the recorded slot positions",
				Details:    details,
			})
		case slots.IssueUnknownSlot:
			v.Block(models.Finding{
				Type:       constants.FindingUnknownSlot,
				Message:    fmt.Sprintf("%s is recorded in slot %s which the motherboard does not have", issue.Device.UUID, issue.SlotID),
				Resolution: "Correct the recorded slot position",
				Details:    details,
			})
		case slots.IssuePoolMismatch:
			v.Block(models.Finding{
				Type:       constants.FindingSlotPoolMismatch,
				Message:    fmt.Sprintf("%s is recorded in slot %s of the wrong slot pool", issue.Device.UUID, issue.SlotID),
				Resolution: "Riser cards belong in riser slots and other cards in PCIe slots",
				Details:    details,
			})
		case slots.IssueTooSmall:
			details["slot_size"] = utils.SlotLabel(issue.SlotSize)
			details["required_size"] = utils.SlotLabel(issue.Device.Required)
			v.Block(models.Finding{
				Type: constants.FindingPCIeSlotIncompatible,
				Message: fmt.Sprintf("%s needs %s but is recorded in %s slot %s", issue.Device.UUID,
					utils.SlotLabel(issue.Device.Required), utils.SlotLabel(issue.SlotSize), issue.SlotID),
				Resolution: "Move the card to a compatible slot",
				Details:    details,
			})
		case slots.IssueOversized:
			details["slot_size"] = utils.SlotLabel(issue.SlotSize)
			details["required_size"] = utils.SlotLabel(issue.Device.Required)
			v.Info(models.Finding{
				Type: constants.FindingOversizedSlotUsage,
				Message: fmt.Sprintf("%s (%s) uses larger slot %s", issue.Device.UUID,
					utils.SlotLabel(issue.Device.Required), issue.SlotID),
				Details: details,
			})
		}
	}
}

// reportUnplaced blocks for installed cards that no free slot can host
func reportUnplaced(v *models.Verdict, placement slots.Placement, findingType string) {
	for _, d := range placement.Unplaced {
		v.Block(models.Finding{
			Type:       findingType,
			Message:    fmt.Sprintf("No free compatible slot for installed card %s (%s)", d.UUID, utils.SlotLabel(d.Required)),
			Resolution: "Remove a card or choose a motherboard with more large slots",
			Details:    map[string]any{"component_uuid": d.UUID, "required_size": utils.SlotLabel(d.Required)},
		})
	}
}
