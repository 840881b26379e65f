package models

import "strings"

// Card subtypes recognised by the storage resolver and slot trackers
const (
	SubtypeNIC         = "NIC"
	SubtypeHBACard     = "HBA Card"
	SubtypeNVMeAdaptor = "NVMe Adaptor"
	SubtypeRiserCard   = "Riser Card"
	SubtypeGPU         = "GPU"
)

// ComponentSpec is the normalized specification record of one catalog item.
// Each component type has its own concrete variant.
type ComponentSpec interface {
	ComponentType() ComponentType
	ID() string
}

// SpecMeta holds the fields shared by every specification record
type SpecMeta struct {
	UUID  string `yaml:"uuid" json:"uuid" validate:"required"`
	Model string `yaml:"model,omitempty" json:"model,omitempty"`
	Brand string `yaml:"brand,omitempty" json:"brand,omitempty"`
	Notes string `yaml:"notes,omitempty" json:"notes,omitempty"`
	// InferredFields lists fields filled from Notes rather than structured data
	InferredFields []string `yaml:"inferred_fields,omitempty" json:"inferred_fields,omitempty"`
}

// ID returns the catalog UUID
func (m SpecMeta) ID() string { return m.UUID }

// Inferred returns the fields filled from Notes
func (m SpecMeta) Inferred() []string { return m.InferredFields }

// Label returns a human readable name for messages
func (m SpecMeta) Label() string {
	if m.Model != "" {
		return m.Model
	}
	return m.UUID
}

// CPUSpec describes a processor
type CPUSpec struct {
	SpecMeta           `yaml:",inline"`
	Socket             string   `yaml:"socket" json:"socket" validate:"required"`
	Cores              int      `yaml:"cores,omitempty" json:"cores,omitempty"`
	MemoryTypes        []string `yaml:"memory_types" json:"memory_types" validate:"required,min=1"`
	MaxMemoryFrequency int      `yaml:"max_memory_frequency,omitempty" json:"max_memory_frequency,omitempty" validate:"gte=0"`
	MaxMemoryCapacity  int      `yaml:"max_memory_capacity,omitempty" json:"max_memory_capacity,omitempty" validate:"gte=0"`
	PCIeLanes          int      `yaml:"pcie_lanes,omitempty" json:"pcie_lanes,omitempty" validate:"gte=0"`
	PCIeVersion        float64  `yaml:"pcie_version,omitempty" json:"pcie_version,omitempty" validate:"gte=0"`
	ECCRequired        bool     `yaml:"ecc_required,omitempty" json:"ecc_required,omitempty"`
	TDPWatts           int      `yaml:"tdp_watts,omitempty" json:"tdp_watts,omitempty"`
}

func (*CPUSpec) ComponentType() ComponentType { return TypeCPU }

// PCIeSlot is a group of identical expansion slots
type PCIeSlot struct {
	Size    string  `yaml:"size" json:"size" validate:"required"`
	Count   int     `yaml:"count" json:"count" validate:"gte=1"`
	Version float64 `yaml:"version,omitempty" json:"version,omitempty"`
}

// M2Slot is a group of on-board M.2 sockets
type M2Slot struct {
	Count       int      `yaml:"count" json:"count" validate:"gte=1"`
	FormFactors []string `yaml:"form_factors,omitempty" json:"form_factors,omitempty"`
	Interface   string   `yaml:"interface,omitempty" json:"interface,omitempty"`
	PCIeVersion float64  `yaml:"pcie_version,omitempty" json:"pcie_version,omitempty"`
	PCIeLanes   int      `yaml:"pcie_lanes,omitempty" json:"pcie_lanes,omitempty"`
}

// U2Slot is a group of on-board U.2/U.3 connectors
type U2Slot struct {
	Count       int     `yaml:"count" json:"count" validate:"gte=1"`
	PCIeVersion float64 `yaml:"pcie_version,omitempty" json:"pcie_version,omitempty"`
}

// StoragePorts lists native storage attachment points on a motherboard
type StoragePorts struct {
	SATA int      `yaml:"sata,omitempty" json:"sata,omitempty" validate:"gte=0"`
	M2   []M2Slot `yaml:"m2,omitempty" json:"m2,omitempty" validate:"dive"`
	U2   []U2Slot `yaml:"u2,omitempty" json:"u2,omitempty" validate:"dive"`
	SAS  int      `yaml:"sas,omitempty" json:"sas,omitempty" validate:"gte=0"`
}

// M2Count returns the total number of M.2 sockets
func (p StoragePorts) M2Count() int {
	total := 0
	for _, s := range p.M2 {
		total += s.Count
	}
	return total
}

// U2Count returns the total number of U.2 connectors
func (p StoragePorts) U2Count() int {
	total := 0
	for _, s := range p.U2 {
		total += s.Count
	}
	return total
}

// MotherboardSpec describes a mainboard
type MotherboardSpec struct {
	SpecMeta            `yaml:",inline"`
	Socket              string       `yaml:"socket" json:"socket" validate:"required"`
	MaxCPUs             int          `yaml:"max_cpus" json:"max_cpus" validate:"gte=1"`
	MemoryTypes         []string     `yaml:"memory_types" json:"memory_types" validate:"required,min=1"`
	MemorySlots         int          `yaml:"memory_slots" json:"memory_slots" validate:"gte=0"`
	MaxMemoryCapacity   int          `yaml:"max_memory_capacity,omitempty" json:"max_memory_capacity,omitempty" validate:"gte=0"`
	MaxMemoryFrequency  int          `yaml:"max_memory_frequency,omitempty" json:"max_memory_frequency,omitempty" validate:"gte=0"`
	MemoryFormFactor    string       `yaml:"memory_form_factor,omitempty" json:"memory_form_factor,omitempty"`
	PerSlotCapacity     int          `yaml:"per_slot_capacity,omitempty" json:"per_slot_capacity,omitempty" validate:"gte=0"`
	FormFactor          string       `yaml:"form_factor,omitempty" json:"form_factor,omitempty"`
	PCIeSlots           []PCIeSlot   `yaml:"pcie_slots,omitempty" json:"pcie_slots,omitempty" validate:"dive"`
	RiserSlots          []PCIeSlot   `yaml:"riser_slots,omitempty" json:"riser_slots,omitempty" validate:"dive"`
	PCIeVersion         float64      `yaml:"pcie_version,omitempty" json:"pcie_version,omitempty" validate:"gte=0"`
	ChipsetLanes        int          `yaml:"chipset_lanes,omitempty" json:"chipset_lanes,omitempty" validate:"gte=0"`
	SupportsBifurcation bool         `yaml:"supports_bifurcation,omitempty" json:"supports_bifurcation,omitempty"`
	StoragePorts        StoragePorts `yaml:"storage_ports,omitempty" json:"storage_ports,omitempty"`
}

func (*MotherboardSpec) ComponentType() ComponentType { return TypeMotherboard }

// RAMSpec describes a memory module
type RAMSpec struct {
	SpecMeta   `yaml:",inline"`
	MemoryType string `yaml:"memory_type" json:"memory_type" validate:"required"`
	FormFactor string `yaml:"form_factor,omitempty" json:"form_factor,omitempty"`
	Capacity   int    `yaml:"capacity" json:"capacity" validate:"gte=1"`
	Frequency  int    `yaml:"frequency,omitempty" json:"frequency,omitempty" validate:"gte=0"`
	ECC        bool   `yaml:"ecc,omitempty" json:"ecc,omitempty"`
}

func (*RAMSpec) ComponentType() ComponentType { return TypeRAM }

// StorageSpec describes a drive
type StorageSpec struct {
	SpecMeta    `yaml:",inline"`
	Interface   string  `yaml:"interface" json:"interface" validate:"required"`
	FormFactor  string  `yaml:"form_factor" json:"form_factor" validate:"required"`
	Subtype     string  `yaml:"subtype,omitempty" json:"subtype,omitempty"`
	Capacity    int     `yaml:"capacity,omitempty" json:"capacity,omitempty" validate:"gte=0"`
	PCIeLanes   int     `yaml:"pcie_lanes,omitempty" json:"pcie_lanes,omitempty" validate:"gte=0"`
	PCIeVersion float64 `yaml:"pcie_version,omitempty" json:"pcie_version,omitempty" validate:"gte=0"`
}

func (*StorageSpec) ComponentType() ComponentType { return TypeStorage }

// BayGroup is a set of drive bays of one physical size
type BayGroup struct {
	Size  string `yaml:"size" json:"size" validate:"required"`
	Count int    `yaml:"count" json:"count" validate:"gte=1"`
}

// DriveBays describes the drive cage of a chassis
type DriveBays struct {
	Total            int        `yaml:"total,omitempty" json:"total,omitempty" validate:"gte=0"`
	BayConfiguration []BayGroup `yaml:"bay_configuration,omitempty" json:"bay_configuration,omitempty" validate:"dive"`
}

// Capacity returns the declared total, or the sum of the bay groups when no total is given
func (d DriveBays) Capacity() int {
	if d.Total > 0 {
		return d.Total
	}
	total := 0
	for _, g := range d.BayConfiguration {
		total += g.Count
	}
	return total
}

// Backplane describes the protocols wired to the drive bays
type Backplane struct {
	SupportsSATA bool   `yaml:"supports_sata,omitempty" json:"supports_sata,omitempty"`
	SupportsSAS  bool   `yaml:"supports_sas,omitempty" json:"supports_sas,omitempty"`
	SupportsNVMe bool   `yaml:"supports_nvme,omitempty" json:"supports_nvme,omitempty"`
	Interface    string `yaml:"interface,omitempty" json:"interface,omitempty"`
}

// ChassisSpec describes an enclosure
type ChassisSpec struct {
	SpecMeta          `yaml:",inline"`
	FormFactor        string    `yaml:"form_factor,omitempty" json:"form_factor,omitempty"`
	DriveBays         DriveBays `yaml:"drive_bays" json:"drive_bays"`
	Backplane         Backplane `yaml:"backplane" json:"backplane"`
	FormFactorSupport []string  `yaml:"form_factor_support,omitempty" json:"form_factor_support,omitempty"`
	MaxPSUWatts       int       `yaml:"max_psu_watts,omitempty" json:"max_psu_watts,omitempty"`
}

func (*ChassisSpec) ComponentType() ComponentType { return TypeChassis }

// CardSpec describes an expansion card: NIC, HBA, NVMe adaptor, riser or generic PCIe card
type CardSpec struct {
	SpecMeta      `yaml:",inline"`
	Kind          ComponentType `yaml:"component_type,omitempty" json:"component_type,omitempty"`
	Subtype       string        `yaml:"subtype,omitempty" json:"subtype,omitempty"`
	SlotSize      string        `yaml:"slot_size" json:"slot_size" validate:"required"`
	PCIeVersion   float64       `yaml:"pcie_version,omitempty" json:"pcie_version,omitempty" validate:"gte=0"`
	Interface     string        `yaml:"interface,omitempty" json:"interface,omitempty"`
	MaxDevices    int           `yaml:"max_devices,omitempty" json:"max_devices,omitempty" validate:"gte=0"`
	M2FormFactors []string      `yaml:"m2_form_factors,omitempty" json:"m2_form_factors,omitempty"`
	M2Slots       int           `yaml:"m2_slots,omitempty" json:"m2_slots,omitempty" validate:"gte=0"`
	Ports         int           `yaml:"ports,omitempty" json:"ports,omitempty"`
	Speed         string        `yaml:"speed,omitempty" json:"speed,omitempty"`
}

// ComponentType returns the declared kind, defaulting to a generic PCIe card
func (c *CardSpec) ComponentType() ComponentType {
	if c.Kind == "" {
		return TypePCIeCard
	}
	return c.Kind
}

// IsHBA reports whether the card is a host bus adapter
func (c *CardSpec) IsHBA() bool {
	return c.Kind == TypeHBACard || strings.Contains(strings.ToUpper(c.Subtype), "HBA")
}

// IsNVMeAdaptor reports whether the card carries M.2 drives
func (c *CardSpec) IsNVMeAdaptor() bool {
	s := strings.ToUpper(c.Subtype)
	return strings.Contains(s, "NVME") && (strings.Contains(s, "ADAPTOR") || strings.Contains(s, "ADAPTER"))
}

// IsRiser reports whether the card belongs in the riser slot pool
func (c *CardSpec) IsRiser() bool {
	return strings.Contains(strings.ToUpper(c.Subtype), "RISER")
}

// CaddySpec describes a drive tray or size adapter
type CaddySpec struct {
	SpecMeta   `yaml:",inline"`
	FormFactor string `yaml:"form_factor" json:"form_factor" validate:"required"`
	BaySize    string `yaml:"bay_size,omitempty" json:"bay_size,omitempty"`
}

func (*CaddySpec) ComponentType() ComponentType { return TypeCaddy }
