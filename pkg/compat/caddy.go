package compat

import (
	"fmt"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// validateCaddy never blocks: a caddy without a matching drive may be used later
func validateCaddy(v *models.Verdict, caddy *models.CaddySpec, in *installed) {
	size := utils.NormalizeDriveFormFactor(caddy.FormFactor)

	matching := 0
	for _, s := range in.storage {
		if utils.NormalizeDriveFormFactor(s.Spec.FormFactor) == size {
			matching++
		}
	}

	if matching > 0 {
		v.Info(models.Finding{
			Type:    constants.FindingCaddyMatchesStorage,
			Message: fmt.Sprintf("Caddy fits %d installed %s drive(s)", matching, size),
			Details: map[string]any{"form_factor": size, "matching_drives": matching},
		})
		return
	}

	v.Warn(models.Finding{
		Type:       constants.FindingCaddyNoMatchingStorage,
		Message:    fmt.Sprintf("No installed %s drive uses this caddy yet", size),
		Resolution: fmt.Sprintf("Add a %s drive or keep the caddy for later", size),
		Details:    map[string]any{"form_factor": size},
	})
}
