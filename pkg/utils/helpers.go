package utils

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/braunma/buildcheck/internal/constants"
)

// socketAliases folds vendor spellings onto canonical socket tokens.
// A socket may expand to several tokens when it is backwards compatible.
var socketAliases = map[string][]string{
	"AM4+":        {"AM4PLUS", "AM4"},
	"AM4PLUS":     {"AM4PLUS", "AM4"},
	"SOCKETAM4":   {"AM4"},
	"SOCKETAM5":   {"AM5"},
	"SOCKETSP3":   {"SP3"},
	"SOCKETSP5":   {"SP5"},
	"SOCKETP+":    {"LGA3647"},
	"SOCKETP":     {"LGA3647"},
	"SOCKETP4":    {"LGA4189"},
	"SOCKETP5":    {"LGA4677"},
	"SOCKETE":     {"LGA4677"},
	"SOCKETTR4":   {"TR4", "SP3R2"},
	"SOCKETSTRX4": {"STRX4"},
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeSocket returns the canonical tokens for a socket string:
// uppercase, whitespace stripped, "FC" prefix dropped, aliases folded
func NormalizeSocket(socket string) []string {
	s := strings.ToUpper(whitespace.ReplaceAllString(socket, ""))
	s = strings.ReplaceAll(s, "-", "")
	if s == "" {
		return nil
	}
	s = strings.TrimPrefix(s, "FC")

	if aliases, ok := socketAliases[s]; ok {
		return aliases
	}
	return []string{s}
}

// SocketsMatch reports whether two socket strings describe a compatible socket
func SocketsMatch(a, b string) bool {
	left := NormalizeSocket(a)
	right := NormalizeSocket(b)
	for _, l := range left {
		for _, r := range right {
			if l == r {
				return true
			}
		}
	}
	return false
}

// NormalizeMemoryType turns "ddr-4", "DDR4 ECC" or "ddr4" into "DDR4"
func NormalizeMemoryType(memoryType string) string {
	s := strings.ToUpper(whitespace.ReplaceAllString(memoryType, ""))
	s = strings.ReplaceAll(s, "-", "")
	if idx := strings.Index(s, "DDR"); idx >= 0 {
		end := idx + 3
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if idx >= 2 && s[idx-2:idx] == "LP" {
			idx -= 2
		}
		return s[idx:end]
	}
	return s
}

// MemoryTypeSet normalizes a list of memory types into a set
func MemoryTypeSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		if n := NormalizeMemoryType(t); n != "" {
			set[n] = true
		}
	}
	return set
}

// SortedKeys returns the keys of a set in lexical order
func SortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeMemoryFormFactor folds module variants onto DIMM or SO-DIMM
func NormalizeMemoryFormFactor(formFactor string) string {
	s := strings.ToUpper(whitespace.ReplaceAllString(formFactor, ""))
	s = strings.ReplaceAll(s, "-", "")
	switch {
	case s == "":
		return ""
	case strings.HasPrefix(s, "SO") || strings.Contains(s, "SODIMM"):
		return "SO-DIMM"
	case strings.Contains(s, "DIMM"):
		return "DIMM"
	}
	return s
}

// NormalizeBoardFormFactor makes "E-ATX", "eatx" and "E ATX" comparable
func NormalizeBoardFormFactor(formFactor string) string {
	s := strings.ToUpper(whitespace.ReplaceAllString(formFactor, ""))
	s = strings.ReplaceAll(s, "-", "")
	switch s {
	case "MATX", "UATX", "MICROATX":
		return "MICROATX"
	case "MITX", "MINIITX":
		return "MINIITX"
	case "EXTENDEDATX":
		return "EATX"
	}
	return s
}

var m2Size = regexp.MustCompile(`\b(22\d{2,3})\b`)

// NormalizeDriveFormFactor maps free-form drive sizes onto the canonical set
// (2.5-inch, 3.5-inch, M.2, U.2, AIC). U.3 drives share the U.2 family.
func NormalizeDriveFormFactor(formFactor string) string {
	s := strings.ToUpper(strings.TrimSpace(formFactor))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "M.2") || strings.Contains(s, "M2") || m2Size.MatchString(s):
		return constants.FormFactorM2
	case strings.Contains(s, "U.2") || strings.Contains(s, "U.3") || s == "U2" || s == "U3":
		return constants.FormFactorU2
	case strings.Contains(s, "2.5") || strings.Contains(s, "SFF"):
		return constants.FormFactor25
	case strings.Contains(s, "3.5") || strings.Contains(s, "LFF"):
		return constants.FormFactor35
	case strings.Contains(s, "AIC") || strings.Contains(s, "ADD-IN") || strings.Contains(s, "HHHL") || strings.Contains(s, "FHHL"):
		return constants.FormFactorAIC
	}
	return s
}

// M2Length extracts the module length code (e.g. "2280") from an M.2 form factor
func M2Length(formFactor string) string {
	return m2Size.FindString(formFactor)
}

// SupportsM2Length reports whether a list of supported M.2 form factors accepts the drive.
// An empty list accepts any length.
func SupportsM2Length(supported []string, formFactor string) bool {
	if len(supported) == 0 {
		return true
	}
	length := M2Length(formFactor)
	for _, s := range supported {
		if length == "" || M2Length(s) == length {
			return true
		}
	}
	return false
}

var slotDigits = regexp.MustCompile(`(?i)x\s*(\d+)|^\s*(\d+)\s*$`)

// ParseSlotSize returns the lane width of a slot label such as "x16" or "PCIe x8".
// Unknown labels return 0.
func ParseSlotSize(label string) int {
	m := slotDigits.FindStringSubmatch(label)
	if m == nil {
		return 0
	}
	digits := m[1]
	if digits == "" {
		digits = m[2]
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return n
}

// SlotLabel renders a lane width as "x<n>"
func SlotLabel(lanes int) string {
	return fmt.Sprintf("x%d", lanes)
}

// CompatibleSlotSizes returns the slot widths that can host a device of the given width,
// smallest first
func CompatibleSlotSizes(required int) []int {
	var sizes []int
	for _, s := range constants.SlotSizes {
		if s >= required {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

// ProtocolOf derives the storage protocol from an interface description by substring match
func ProtocolOf(iface string) string {
	s := strings.ToUpper(iface)
	switch {
	case strings.Contains(s, "NVME") || strings.Contains(s, "PCIE"):
		return constants.ProtocolNVMe
	case strings.Contains(s, "SAS"):
		return constants.ProtocolSAS
	case strings.Contains(s, "SATA"):
		return constants.ProtocolSATA
	}
	return ""
}

// PercentageLoss returns 1 - limit/rated as a percentage rounded to one decimal.
// It returns 0 when there is no loss or the inputs are unknown.
func PercentageLoss(limit, rated float64) float64 {
	if rated <= 0 || limit <= 0 || limit >= rated {
		return 0
	}
	return math.Round((1-limit/rated)*1000) / 10
}
