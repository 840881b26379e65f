package models

// Severity grades a finding
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Status is the overall outcome of a validation call
type Status string

const (
	StatusAllowed             Status = "allowed"
	StatusAllowedWithWarnings Status = "allowed_with_warnings"
	StatusBlocked             Status = "blocked"
)

// Finding is a single observation produced by a validator
type Finding struct {
	Type       string         `yaml:"type" json:"type"`
	Severity   Severity       `yaml:"severity" json:"severity"`
	Message    string         `yaml:"message" json:"message"`
	Resolution string         `yaml:"resolution,omitempty" json:"resolution,omitempty"`
	Details    map[string]any `yaml:"details,omitempty" json:"details,omitempty"`
}

// ConnectionPath is one physical way a storage device can attach
type ConnectionPath struct {
	Type        string         `yaml:"type" json:"type"`
	Priority    int            `yaml:"priority" json:"priority"`
	Description string         `yaml:"description" json:"description"`
	Details     map[string]any `yaml:"details,omitempty" json:"details,omitempty"`
}

// ConnectionResolution is the storage resolver's view of where a drive can go
type ConnectionResolution struct {
	Paths           []ConnectionPath `yaml:"connection_paths" json:"connection_paths"`
	Primary         *ConnectionPath  `yaml:"primary_path,omitempty" json:"primary_path,omitempty"`
	Recommendations []string         `yaml:"recommendations,omitempty" json:"recommendations,omitempty"`
}

// Verdict aggregates the findings of one validation call
type Verdict struct {
	Status         Status                `yaml:"status" json:"status"`
	ComponentType  ComponentType         `yaml:"component_type" json:"component_type"`
	ComponentUUID  string                `yaml:"component_uuid" json:"component_uuid"`
	ConfigID       string                `yaml:"config_id" json:"config_id"`
	CriticalErrors []Finding             `yaml:"critical_errors" json:"critical_errors"`
	Warnings       []Finding             `yaml:"warnings" json:"warnings"`
	InfoMessages   []Finding             `yaml:"info_messages" json:"info_messages"`
	AssignedSlot   string                `yaml:"assigned_slot,omitempty" json:"assigned_slot,omitempty"`
	Connection     *ConnectionResolution `yaml:"connection,omitempty" json:"connection,omitempty"`
}

// NewVerdict creates an empty verdict for a candidate component
func NewVerdict(configID string, t ComponentType, uuid string) *Verdict {
	return &Verdict{
		Status:         StatusAllowed,
		ComponentType:  t,
		ComponentUUID:  uuid,
		ConfigID:       configID,
		CriticalErrors: []Finding{},
		Warnings:       []Finding{},
		InfoMessages:   []Finding{},
	}
}

// Block records a constraint violation
func (v *Verdict) Block(f Finding) {
	f.Severity = SeverityCritical
	v.CriticalErrors = append(v.CriticalErrors, f)
	v.Finalize()
}

// Warn records a degraded-but-functional condition
func (v *Verdict) Warn(f Finding) {
	if f.Severity == "" {
		f.Severity = SeverityMedium
	}
	v.Warnings = append(v.Warnings, f)
	v.Finalize()
}

// Info records a note that never affects the status
func (v *Verdict) Info(f Finding) {
	f.Severity = SeverityLow
	v.InfoMessages = append(v.InfoMessages, f)
}

// Finalize recomputes the status from the buckets
func (v *Verdict) Finalize() {
	switch {
	case len(v.CriticalErrors) > 0:
		v.Status = StatusBlocked
	case len(v.Warnings) > 0:
		v.Status = StatusAllowedWithWarnings
	default:
		v.Status = StatusAllowed
	}
}

// Blocked reports whether the addition must not proceed
func (v *Verdict) Blocked() bool {
	return v.Status == StatusBlocked
}

// Has reports whether any bucket contains a finding of the given type
func (v *Verdict) Has(findingType string) bool {
	return v.Find(findingType) != nil
}

// Find returns the first finding of the given type
func (v *Verdict) Find(findingType string) *Finding {
	for _, bucket := range [][]Finding{v.CriticalErrors, v.Warnings, v.InfoMessages} {
		for i := range bucket {
			if bucket[i].Type == findingType {
				return &bucket[i]
			}
		}
	}
	return nil
}
