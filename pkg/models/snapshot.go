package models

import "fmt"

// ConfigurationSnapshot is a point-in-time view of one server build.
// Motherboard and chassis are single-instance; every other type is a collection.
// HBA cards are kept with the other PCIe cards.
type ConfigurationSnapshot struct {
	ConfigID    string         `yaml:"config_id" json:"config_id" validate:"required"`
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Motherboard *ComponentRef  `yaml:"motherboard,omitempty" json:"motherboard,omitempty"`
	Chassis     *ComponentRef  `yaml:"chassis,omitempty" json:"chassis,omitempty"`
	CPUs        []ComponentRef `yaml:"cpu,omitempty" json:"cpu,omitempty"`
	RAM         []ComponentRef `yaml:"ram,omitempty" json:"ram,omitempty"`
	Storage     []ComponentRef `yaml:"storage,omitempty" json:"storage,omitempty"`
	NICs        []ComponentRef `yaml:"nic,omitempty" json:"nic,omitempty"`
	PCIeCards   []ComponentRef `yaml:"pciecard,omitempty" json:"pciecard,omitempty"`
	Caddies     []ComponentRef `yaml:"caddy,omitempty" json:"caddy,omitempty"`
}

// NewSnapshot returns an empty snapshot for a configuration
func NewSnapshot(configID string) *ConfigurationSnapshot {
	return &ConfigurationSnapshot{ConfigID: configID}
}

// Add places a component reference in the matching slot of the snapshot
func (s *ConfigurationSnapshot) Add(ref ComponentRef) error {
	switch ref.Type {
	case TypeMotherboard:
		if s.Motherboard != nil {
			return fmt.Errorf("configuration %s already has motherboard %s", s.ConfigID, s.Motherboard.UUID)
		}
		r := ref
		s.Motherboard = &r
	case TypeChassis:
		if s.Chassis != nil {
			return fmt.Errorf("configuration %s already has chassis %s", s.ConfigID, s.Chassis.UUID)
		}
		r := ref
		s.Chassis = &r
	case TypeCPU:
		s.CPUs = append(s.CPUs, ref)
	case TypeRAM:
		s.RAM = append(s.RAM, ref)
	case TypeStorage:
		s.Storage = append(s.Storage, ref)
	case TypeNIC:
		s.NICs = append(s.NICs, ref)
	case TypePCIeCard, TypeHBACard:
		s.PCIeCards = append(s.PCIeCards, ref)
	case TypeCaddy:
		s.Caddies = append(s.Caddies, ref)
	default:
		return fmt.Errorf("unknown component type %q", ref.Type)
	}
	return nil
}

// Cards returns every expansion card reference, NICs first
func (s *ConfigurationSnapshot) Cards() []ComponentRef {
	cards := make([]ComponentRef, 0, len(s.NICs)+len(s.PCIeCards))
	cards = append(cards, s.NICs...)
	cards = append(cards, s.PCIeCards...)
	return cards
}

// Components returns every reference in a stable order
func (s *ConfigurationSnapshot) Components() []ComponentRef {
	var refs []ComponentRef
	if s.Motherboard != nil {
		refs = append(refs, *s.Motherboard)
	}
	if s.Chassis != nil {
		refs = append(refs, *s.Chassis)
	}
	refs = append(refs, s.CPUs...)
	refs = append(refs, s.RAM...)
	refs = append(refs, s.Storage...)
	refs = append(refs, s.Cards()...)
	refs = append(refs, s.Caddies...)
	return refs
}

// Count returns the number of installed entries of a type
func (s *ConfigurationSnapshot) Count(t ComponentType) int {
	switch t {
	case TypeMotherboard:
		if s.Motherboard != nil {
			return 1
		}
	case TypeChassis:
		if s.Chassis != nil {
			return 1
		}
	case TypeCPU:
		return len(s.CPUs)
	case TypeRAM:
		return len(s.RAM)
	case TypeStorage:
		return len(s.Storage)
	case TypeNIC:
		return len(s.NICs)
	case TypePCIeCard, TypeHBACard:
		n := 0
		for _, c := range s.PCIeCards {
			if c.Type == t || (t == TypePCIeCard && c.Type == "") {
				n++
			}
		}
		return n
	case TypeCaddy:
		return len(s.Caddies)
	}
	return 0
}
