package slots

// Report summarises every tracked resource of one configuration
type Report struct {
	ConfigID    string            `json:"config_id"`
	PCIe        []SizeUsage       `json:"pcie_slots"`
	Riser       []SizeUsage       `json:"riser_slots"`
	Assignments map[string]string `json:"assignments,omitempty"`
	Unplaced    []string          `json:"unplaced,omitempty"`
	Memory      MemoryUsage       `json:"memory"`
	Bays        BayUsage          `json:"drive_bays"`
}
