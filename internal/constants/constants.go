package constants

// Single-instance guards
const (
	FindingMotherboardAlreadyExists = "motherboard_already_exists"
	FindingChassisAlreadyExists     = "chassis_already_exists"
)

// Orchestrator findings
const (
	FindingInvalidComponentType  = "invalid_component_type"
	FindingNotFoundInSpecSuffix  = "_not_found_in_spec"
	FindingSnapshotUnavailable   = "snapshot_unavailable"
	FindingValidationSystemError = "validation_system_error"
	FindingInstalledSpecMissing  = "installed_component_spec_missing"
	FindingNoMotherboardYet      = "no_motherboard_yet"
)

// CPU and motherboard findings
const (
	FindingCPUSocketMismatch         = "cpu_socket_mismatch"
	FindingMotherboardSocketMismatch = "motherboard_socket_mismatch"
	FindingCPUSocketLimitExceeded    = "cpu_socket_limit_exceeded"
	FindingCPUCountExceedsSockets    = "cpu_count_exceeds_sockets"
	FindingPCIeVersionMismatch       = "pcie_version_mismatch"
	FindingCPUMemoryTypeUnsupported  = "cpu_memory_type_unsupported"
	FindingCPUMemoryCapacityExceeded = "cpu_memory_capacity_exceeded"
	FindingCPUECCRequired            = "cpu_ecc_required"
	FindingMemoryFrequencyDownclock  = "memory_frequency_downclock"
	FindingPCIeLaneBudgetExceeded    = "pcie_lane_budget_exceeded"
	FindingChassisFormFactorUnknown  = "chassis_form_factor_unverified"
)

// Memory findings
const (
	FindingRAMTypeUnsupported       = "ram_type_unsupported"
	FindingRAMFormFactorMismatch    = "ram_form_factor_mismatch"
	FindingRAMSlotLimitExceeded     = "ram_slot_limit_exceeded"
	FindingRAMExceedsSlotCapacity   = "ram_exceeds_slot_capacity"
	FindingRAMCapacityExceeded      = "ram_capacity_exceeded"
	FindingRAMCPUTypeUnsupported    = "ram_cpu_type_unsupported"
	FindingRAMCPUCapacityExceeded   = "ram_cpu_capacity_exceeded"
	FindingRAMECCRequired           = "ram_ecc_required"
	FindingRAMTypeMismatch          = "ram_type_mismatch"
	FindingRAMPeerFormFactor        = "ram_form_factor_mismatch_existing"
	FindingRAMECCMismatch           = "ram_ecc_mismatch"
	FindingRAMFrequencyMismatch     = "ram_frequency_mismatch"
	FindingRAMFrequencyCascade      = "memory_frequency_cascade"
	FindingMemoryCapacityExceeded   = "memory_capacity_exceeded"
	FindingModuleExceedsSlotCap     = "memory_module_exceeds_slot_capacity"
	FindingMotherboardMemoryTypeBad = "motherboard_memory_type_unsupported"
)

// Expansion slot findings
const (
	FindingPCIeSlotCountExceeded  = "pcie_slot_count_exceeded"
	FindingPCIeSlotIncompatible   = "pcie_slot_size_incompatible"
	FindingPCIeSlotUnavailable    = "pcie_slot_unavailable"
	FindingRiserSlotUnavailable   = "riser_slot_unavailable"
	FindingLargerSlotAssigned     = "larger_slot_assigned"
	FindingDuplicateSlot          = "duplicate_slot_assignment"
	FindingSlotPoolMismatch       = "slot_pool_mismatch"
	FindingUnknownSlot            = "unknown_slot_id"
	FindingOversizedSlotUsage     = "oversized_slot_usage"
	FindingPCIeBandwidthReduction = "pcie_bandwidth_reduction"
)

// Chassis and storage findings
const (
	FindingChassisBaysExceeded         = "chassis_bays_exceeded"
	FindingExistingStorageNeedsCaddy   = "existing_storage_needs_caddy"
	FindingStorageFormFactorMismatch   = "storage_form_factor_incompatible"
	FindingStorageInterfaceUnsupported = "storage_interface_unsupported"
	FindingHBARequired                 = "hba_required"
	FindingNoConnectionPathYet         = "no_connection_path_yet"
	FindingNoConnectionPath            = "no_connection_path"
	FindingConnectionPathSelected      = "connection_path_selected"
	FindingChassisBaysFull             = "chassis_bays_full"
	FindingSATAPortsExhausted          = "sata_ports_exhausted"
	FindingM2SlotsExhausted            = "m2_slots_exhausted"
	FindingU2PortsExhausted            = "u2_ports_exhausted"
	FindingHBADeviceLimit              = "hba_device_limit_reached"
	FindingAdapterSlotsExhausted       = "adapter_slots_exhausted"
	FindingPCIeLanesInsufficient       = "pcie_lanes_may_be_insufficient"
	FindingLaneCheckSkipped            = "pcie_lane_check_skipped"
	FindingBifurcationUnsupported      = "bifurcation_unsupported"
	FindingBifurcationReminder         = "bifurcation_configuration_required"
	FindingCaddyRequired               = "caddy_required"
	FindingCaddyAvailable              = "caddy_available"
	FindingCaddyMatchesStorage         = "caddy_matches_storage"
	FindingCaddyNoMatchingStorage      = "caddy_no_matching_storage"
	FindingHBAOptional                 = "hba_optional_path"
)

// Connection path types
const (
	PathChassisBay        = "chassis_bay"
	PathMotherboardDirect = "motherboard_direct"
	PathHBACard           = "hba_card"
	PathPCIeAdapter       = "pcie_adapter"
)

// PathPriorities ranks connection paths; lower wins
var PathPriorities = map[string]int{
	PathChassisBay:        1,
	PathMotherboardDirect: 2,
	PathHBACard:           3,
	PathPCIeAdapter:       4,
}

// Storage protocols
const (
	ProtocolSATA = "SATA"
	ProtocolSAS  = "SAS"
	ProtocolNVMe = "NVMe"
)

// Physical drive sizes
const (
	FormFactor25  = "2.5-inch"
	FormFactor35  = "3.5-inch"
	FormFactorM2  = "M.2"
	FormFactorU2  = "U.2"
	FormFactorAIC = "AIC"
)

// SlotSizes lists PCIe slot widths from smallest to largest
var SlotSizes = []int{1, 4, 8, 16}

// Slot id prefixes keep the direct PCIe and riser pools apart
const (
	PCIeSlotPrefix  = "pcie"
	RiserSlotPrefix = "riser"
)

// Defaults
const (
	DefaultNVMeLanes = 4
	DefaultCardLanes = 1
)
