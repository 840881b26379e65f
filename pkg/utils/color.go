package utils

import (
	"strings"

	"github.com/fatih/color"

	"github.com/braunma/buildcheck/pkg/models"
)

// StatusColor returns the terminal color used to render a verdict status
func StatusColor(status models.Status) *color.Color {
	switch status {
	case models.StatusAllowed:
		return color.New(color.FgGreen, color.Bold)
	case models.StatusAllowedWithWarnings:
		return color.New(color.FgYellow, color.Bold)
	case models.StatusBlocked:
		return color.New(color.FgRed, color.Bold)
	}
	return color.New(color.Reset)
}

// SeverityColor returns the terminal color for a finding severity
func SeverityColor(severity models.Severity) *color.Color {
	switch severity {
	case models.SeverityCritical:
		return color.New(color.FgRed)
	case models.SeverityMedium:
		return color.New(color.FgYellow)
	case models.SeverityLow:
		return color.New(color.FgCyan)
	}
	return color.New(color.Reset)
}

// SeveritySymbol returns the prefix printed before a finding
func SeveritySymbol(severity models.Severity) string {
	switch severity {
	case models.SeverityCritical:
		return "✗"
	case models.SeverityMedium:
		return "⚠"
	case models.SeverityLow:
		return "ℹ"
	}
	return "-"
}

// StatusLabel renders a status for humans ("allowed_with_warnings" -> "ALLOWED WITH WARNINGS")
func StatusLabel(status models.Status) string {
	return strings.ToUpper(strings.ReplaceAll(string(status), "_", " "))
}
