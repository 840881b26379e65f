package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/slots"
	"github.com/braunma/buildcheck/pkg/utils"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// renderVerdict prints a verdict with findings colored by severity
func renderVerdict(w io.Writer, v *models.Verdict) {
	fmt.Fprintf(w, "%s %s → %s: %s\n",
		v.ComponentType, v.ComponentUUID, v.ConfigID,
		utils.StatusColor(v.Status).Sprint(utils.StatusLabel(v.Status)))

	for _, bucket := range [][]models.Finding{v.CriticalErrors, v.Warnings, v.InfoMessages} {
		for _, f := range bucket {
			c := utils.SeverityColor(f.Severity)
			fmt.Fprintf(w, "  %s %s\n", c.Sprint(utils.SeveritySymbol(f.Severity)), c.Sprintf("[%s] %s", f.Type, f.Message))
			if f.Resolution != "" {
				fmt.Fprintf(w, "      → %s\n", f.Resolution)
			}
		}
	}

	if v.AssignedSlot != "" {
		fmt.Fprintf(w, "  slot: %s\n", v.AssignedSlot)
	}
	if v.Connection != nil {
		if v.Connection.Primary != nil {
			fmt.Fprintf(w, "  connection: %s (%s)\n", v.Connection.Primary.Description, v.Connection.Primary.Type)
		}
		for _, r := range v.Connection.Recommendations {
			fmt.Fprintf(w, "  recommended: %s\n", r)
		}
	}
}

// renderSlots prints the resource usage of a configuration
func renderSlots(w io.Writer, r *slots.Report) {
	bold := color.New(color.Bold)
	bold.Fprintf(w, "Configuration %s\n", r.ConfigID)

	pools := []struct {
		name  string
		usage []slots.SizeUsage
	}{
		{name: "PCIe slots", usage: r.PCIe},
		{name: "Riser slots", usage: r.Riser},
	}
	for _, p := range pools {
		if len(p.usage) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s:\n", p.name)
		for _, u := range p.usage {
			fmt.Fprintf(w, "  %-4s %d/%d used, %d free\n", u.Size, u.Used, u.Total, u.Available)
		}
	}

	if len(r.Assignments) > 0 {
		ids := make([]string, 0, len(r.Assignments))
		for id := range r.Assignments {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		fmt.Fprintln(w, "Assignments:")
		for _, id := range ids {
			fmt.Fprintf(w, "  %-14s %s\n", id, r.Assignments[id])
		}
	}
	if len(r.Unplaced) > 0 {
		color.New(color.FgRed).Fprintf(w, "Unplaced cards: %s\n", strings.Join(r.Unplaced, ", "))
	}

	m := r.Memory
	fmt.Fprintf(w, "Memory: %d/%d slots used", m.UsedSlots, m.Slots)
	if m.MaxCapacity > 0 {
		fmt.Fprintf(w, ", %d/%d GB", m.UsedCapacity, m.MaxCapacity)
	} else {
		fmt.Fprintf(w, ", %d GB", m.UsedCapacity)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Drive bays: %d/%d used, %d free\n", r.Bays.Used, r.Bays.Total, r.Bays.Available)
}
