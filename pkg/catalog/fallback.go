package catalog

import (
	"regexp"
	"strings"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// Patterns used to recover structured fields from free-text notes. Values found
// this way are lower confidence and are listed in InferredFields.
var (
	socketPattern    = regexp.MustCompile(`(?i)\b((?:FC)?LGA\s?\d{3,4}\b|AM[45](?:\+|\b)|SP[3-6]\b|sTRX4\b|sWRX8\b|TR4\b|Socket\s+P\d?\+?|Socket\s+E\b)`)
	memoryPattern    = regexp.MustCompile(`(?i)\b((?:LP)?DDR[2-5])\b`)
	interfacePattern = regexp.MustCompile(`(?i)\b(NVMe|SAS|SATA)\b`)
)

// Infer fills empty socket, interface and memory type fields from the notes of a
// record and returns the names of the fields it filled
func Infer(spec models.ComponentSpec) []string {
	var inferred []string

	switch s := spec.(type) {
	case *models.CPUSpec:
		if s.Socket == "" {
			if m := socketPattern.FindString(s.Notes); m != "" {
				s.Socket = strings.TrimSpace(m)
				inferred = append(inferred, "socket")
			}
		}
		if len(s.MemoryTypes) == 0 {
			if types := memoryTypes(s.Notes); len(types) > 0 {
				s.MemoryTypes = types
				inferred = append(inferred, "memory_types")
			}
		}
		s.InferredFields = append(s.InferredFields, inferred...)
	case *models.MotherboardSpec:
		if s.Socket == "" {
			if m := socketPattern.FindString(s.Notes); m != "" {
				s.Socket = strings.TrimSpace(m)
				inferred = append(inferred, "socket")
			}
		}
		if len(s.MemoryTypes) == 0 {
			if types := memoryTypes(s.Notes); len(types) > 0 {
				s.MemoryTypes = types
				inferred = append(inferred, "memory_types")
			}
		}
		s.InferredFields = append(s.InferredFields, inferred...)
	case *models.RAMSpec:
		if s.MemoryType == "" {
			if m := memoryPattern.FindString(s.Notes); m != "" {
				s.MemoryType = utils.NormalizeMemoryType(m)
				inferred = append(inferred, "memory_type")
			}
		}
		s.InferredFields = append(s.InferredFields, inferred...)
	case *models.StorageSpec:
		if s.Interface == "" {
			if m := interfacePattern.FindString(s.Notes); m != "" {
				s.Interface = m
				inferred = append(inferred, "interface")
			}
		}
		s.InferredFields = append(s.InferredFields, inferred...)
	case *models.CardSpec:
		if s.Interface == "" && s.IsHBA() {
			if matches := interfacePattern.FindAllString(s.Notes, -1); len(matches) > 0 {
				s.Interface = strings.Join(dedupe(matches), "/")
				inferred = append(inferred, "interface")
			}
		}
		s.InferredFields = append(s.InferredFields, inferred...)
	}

	return inferred
}

func memoryTypes(notes string) []string {
	var out []string
	for _, m := range memoryPattern.FindAllString(notes, -1) {
		out = append(out, utils.NormalizeMemoryType(m))
	}
	return dedupe(out)
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		key := strings.ToUpper(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}
