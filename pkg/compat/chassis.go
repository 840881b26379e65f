package compat

import (
	"fmt"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

// validateChassis runs the single-instance guard and reverse checks against
// installed storage and the motherboard
func validateChassis(v *models.Verdict, ch *models.ChassisSpec, in *installed) {
	if in.snapshot.Chassis != nil {
		v.Block(models.Finding{
			Type:       constants.FindingChassisAlreadyExists,
			Message:    fmt.Sprintf("Configuration already has chassis %s", in.snapshot.Chassis.UUID),
			Resolution: "Remove the existing chassis first",
			Details:    map[string]any{"existing_uuid": in.snapshot.Chassis.UUID},
		})
		return
	}

	checkChassisAgainstStorage(v, ch, in)

	if in.motherboard != nil {
		checkBoardFitsChassis(v, in.motherboard.Spec, ch)
	}
}

func checkChassisAgainstStorage(v *models.Verdict, ch *models.ChassisSpec, in *installed) {
	bays := slots.NewBayTracker(ch)

	var mounted []Installed[*models.StorageSpec]
	for _, s := range in.storage {
		if slots.IsBayMounted(s.Spec.FormFactor) {
			mounted = append(mounted, s)
			bays.Install(s.Spec.FormFactor)
		}
	}
	if len(mounted) == 0 {
		return
	}

	if deficit := bays.Deficit(0); deficit > 0 {
		v.Block(models.Finding{
			Type:       constants.FindingChassisBaysExceeded,
			Message:    fmt.Sprintf("%d drives need bays but the chassis has %d", bays.Used(), bays.Total()),
			Resolution: fmt.Sprintf("Remove %d drive(s) or choose a chassis with more bays", deficit),
			Details:    map[string]any{"installed": bays.Used(), "bays": bays.Total(), "overflow": deficit},
		})
	}

	caddies := in.caddyCount(constants.FormFactor25)
	needCaddy := 0
	for _, s := range mounted {
		switch bays.Fit(s.Spec.FormFactor) {
		case slots.BayFitNone:
			v.Block(models.Finding{
				Type: constants.FindingStorageFormFactorMismatch,
				Message: fmt.Sprintf("Drive %s (%s) does not fit the chassis bays (%s)",
					s.Spec.Label(), s.Spec.FormFactor, strings.Join(bays.Sizes(), ", ")),
				Resolution: "Choose a chassis with matching bays or replace the drive",
				Details:    map[string]any{"storage_uuid": s.Ref.UUID, "form_factor": s.Spec.FormFactor, "bay_sizes": bays.Sizes()},
			})
		case slots.BayFitCaddy:
			needCaddy++
		}

		protocol := utils.ProtocolOf(s.Spec.Interface)
		if protocol != "" && !backplaneSupports(ch.Backplane, protocol) {
			v.Block(models.Finding{
				Type:       constants.FindingStorageInterfaceUnsupported,
				Message:    fmt.Sprintf("Chassis backplane does not support %s drive %s", protocol, s.Spec.Label()),
				Resolution: fmt.Sprintf("Choose a chassis with a %s-capable backplane", protocol),
				Details:    map[string]any{"storage_uuid": s.Ref.UUID, "protocol": protocol},
			})
		}
	}

	if needCaddy == 0 {
		return
	}
	if caddies < needCaddy {
		v.Block(models.Finding{
			Type: constants.FindingExistingStorageNeedsCaddy,
			Message: fmt.Sprintf("%d installed 2.5-inch drive(s) need a 2.5-inch to 3.5-inch caddy and %d caddy(s) are installed",
				needCaddy, caddies),
			Resolution: fmt.Sprintf("Add %d 2.5-inch to 3.5-inch caddy(s)", needCaddy-caddies),
			Details:    map[string]any{"required_caddy": "2.5-inch to 3.5-inch", "needed": needCaddy, "installed": caddies},
		})
		return
	}
	v.Info(models.Finding{
		Type:    constants.FindingCaddyAvailable,
		Message: fmt.Sprintf("%d 2.5-inch drive(s) will mount in 3.5-inch bays using installed caddies", needCaddy),
	})
}

// backplaneSupports reports whether a backplane declares a storage protocol,
// through its flags or its free-form interface description
func backplaneSupports(bp models.Backplane, protocol string) bool {
	switch protocol {
	case constants.ProtocolSATA:
		if bp.SupportsSATA {
			return true
		}
	case constants.ProtocolSAS:
		if bp.SupportsSAS {
			return true
		}
	case constants.ProtocolNVMe:
		if bp.SupportsNVMe {
			return true
		}
	}
	iface := strings.ToUpper(bp.Interface)
	return iface != "" && strings.Contains(iface, strings.ToUpper(protocol))
}
