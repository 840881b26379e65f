package models

import (
	"fmt"
	"strings"
)

// ComponentType identifies the kind of a hardware component
type ComponentType string

const (
	TypeCPU         ComponentType = "cpu"
	TypeMotherboard ComponentType = "motherboard"
	TypeRAM         ComponentType = "ram"
	TypeStorage     ComponentType = "storage"
	TypeChassis     ComponentType = "chassis"
	TypeNIC         ComponentType = "nic"
	TypePCIeCard    ComponentType = "pciecard"
	TypeCaddy       ComponentType = "caddy"
	TypeHBACard     ComponentType = "hbacard"
)

// AllComponentTypes lists every known component type in dispatch order
var AllComponentTypes = []ComponentType{
	TypeCPU,
	TypeMotherboard,
	TypeRAM,
	TypeStorage,
	TypeChassis,
	TypeNIC,
	TypePCIeCard,
	TypeCaddy,
	TypeHBACard,
}

// ParseComponentType converts user input into a ComponentType
func ParseComponentType(s string) (ComponentType, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.ReplaceAll(normalized, "-", "")
	normalized = strings.ReplaceAll(normalized, "_", "")

	switch normalized {
	case "memory":
		return TypeRAM, nil
	case "disk", "drive":
		return TypeStorage, nil
	case "hba":
		return TypeHBACard, nil
	}

	for _, t := range AllComponentTypes {
		if string(t) == normalized {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown component type %q", s)
}

// SingleInstance reports whether a configuration may hold at most one component of this type
func (t ComponentType) SingleInstance() bool {
	return t == TypeMotherboard || t == TypeChassis
}

// IsExpansionCard reports whether the component occupies a PCIe or riser slot
func (t ComponentType) IsExpansionCard() bool {
	return t == TypeNIC || t == TypePCIeCard || t == TypeHBACard
}

// ComponentRef identifies one installed or candidate component
type ComponentRef struct {
	Type         ComponentType `yaml:"type" json:"type" validate:"required"`
	UUID         string        `yaml:"uuid" json:"uuid" validate:"required"`
	Quantity     int           `yaml:"quantity,omitempty" json:"quantity,omitempty"`
	SlotPosition string        `yaml:"slot_position,omitempty" json:"slot_position,omitempty"`
}

// Count returns the quantity, treating unset values as one
func (r ComponentRef) Count() int {
	if r.Quantity <= 0 {
		return 1
	}
	return r.Quantity
}

func (r ComponentRef) String() string {
	if r.SlotPosition != "" {
		return fmt.Sprintf("%s/%s@%s", r.Type, r.UUID, r.SlotPosition)
	}
	return fmt.Sprintf("%s/%s", r.Type, r.UUID)
}
