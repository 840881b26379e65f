package compat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/braunma/buildcheck/internal/constants"
	"github.com/braunma/buildcheck/pkg/catalog"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// ErrSnapshotNotFound is returned by snapshot sources for unknown configurations
var ErrSnapshotNotFound = errors.New("configuration not found")

// SpecLookup resolves a component to its normalized specification record
type SpecLookup interface {
	GetSpec(ctx context.Context, t models.ComponentType, uuid string) (models.ComponentSpec, error)
}

// SnapshotSource resolves a configuration to its installed components
type SnapshotSource interface {
	GetSnapshot(ctx context.Context, configID string) (*models.ConfigurationSnapshot, error)
}

// Recorder observes finished validations
type Recorder interface {
	ObserveValidation(t models.ComponentType, status models.Status, elapsed time.Duration)
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger attaches a logger; dispatch is logged at debug level
func WithLogger(l *utils.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRecorder attaches a metrics recorder
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// Engine validates component additions against a configuration snapshot.
// It holds no state between calls and never writes to its sources.
type Engine struct {
	specs     SpecLookup
	snapshots SnapshotSource
	logger    *utils.Logger
	recorder  Recorder
}

// NewEngine creates a new compatibility engine
func NewEngine(specs SpecLookup, snapshots SnapshotSource, opts ...Option) *Engine {
	e := &Engine{specs: specs, snapshots: snapshots}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ValidateAddition checks whether a component can be added to a configuration.
// It never returns an error: every failure is reported as a blocked verdict.
func (e *Engine) ValidateAddition(ctx context.Context, configID string, t models.ComponentType, uuid string) (verdict *models.Verdict) {
	start := time.Now()
	verdict = models.NewVerdict(configID, t, uuid)

	defer func() {
		if r := recover(); r != nil {
			verdict = systemError(configID, t, uuid, fmt.Errorf("panic: %v", r))
		}
		if e.recorder != nil {
			e.recorder.ObserveValidation(t, verdict.Status, time.Since(start))
		}
		e.logger.Debug("validate %s %s in %s: %s", t, uuid, configID, verdict.Status)
	}()

	if !knownType(t) {
		verdict.Block(models.Finding{
			Type:       constants.FindingInvalidComponentType,
			Message:    fmt.Sprintf("Unknown component type %q", t),
			Resolution: "Use one of: cpu, motherboard, ram, storage, chassis, nic, pciecard, hbacard, caddy",
		})
		return verdict
	}

	snapshot, err := e.snapshots.GetSnapshot(ctx, configID)
	if err != nil {
		verdict.Block(models.Finding{
			Type:       constants.FindingSnapshotUnavailable,
			Message:    fmt.Sprintf("Configuration %s could not be loaded: %v", configID, err),
			Resolution: "Check the configuration id and retry",
		})
		return verdict
	}

	candidate, err := e.specs.GetSpec(ctx, t, uuid)
	if err != nil {
		if errors.Is(err, catalog.ErrSpecNotFound) {
			verdict.Block(models.Finding{
				Type:       string(t) + constants.FindingNotFoundInSpecSuffix,
				Message:    fmt.Sprintf("%s %s was not found in the specification catalog", t, uuid),
				Resolution: "Add the component to the catalog or pick another model",
			})
			return verdict
		}
		return systemError(configID, t, uuid, err)
	}

	in, err := e.loadInstalled(ctx, snapshot, verdict)
	if err != nil {
		return systemError(configID, t, uuid, err)
	}

	e.logger.Debug("dispatching %s %s against %d installed components", t, uuid, len(snapshot.Components()))
	if err := dispatch(verdict, t, candidate, in); err != nil {
		return systemError(configID, t, uuid, err)
	}

	verdict.Finalize()
	return verdict
}

// dispatch runs the validator that matches the candidate's type
func dispatch(v *models.Verdict, t models.ComponentType, candidate models.ComponentSpec, in *installed) error {
	switch spec := candidate.(type) {
	case *models.CPUSpec:
		if t != models.TypeCPU {
			break
		}
		validateCPU(v, spec, in)
		return nil
	case *models.MotherboardSpec:
		if t != models.TypeMotherboard {
			break
		}
		validateMotherboard(v, spec, in)
		return nil
	case *models.RAMSpec:
		if t != models.TypeRAM {
			break
		}
		validateRAM(v, spec, in)
		return nil
	case *models.StorageSpec:
		if t != models.TypeStorage {
			break
		}
		resolveStorage(v, spec, in)
		return nil
	case *models.ChassisSpec:
		if t != models.TypeChassis {
			break
		}
		validateChassis(v, spec, in)
		return nil
	case *models.CardSpec:
		if !t.IsExpansionCard() {
			break
		}
		validateCard(v, spec, in)
		return nil
	case *models.CaddySpec:
		if t != models.TypeCaddy {
			break
		}
		validateCaddy(v, spec, in)
		return nil
	}
	return fmt.Errorf("specification of type %T does not describe a %s", candidate, t)
}

func knownType(t models.ComponentType) bool {
	for _, known := range models.AllComponentTypes {
		if t == known {
			return true
		}
	}
	return false
}

func systemError(configID string, t models.ComponentType, uuid string, err error) *models.Verdict {
	v := models.NewVerdict(configID, t, uuid)
	v.Block(models.Finding{
		Type:       constants.FindingValidationSystemError,
		Message:    fmt.Sprintf("Validation failed: %v", err),
		Resolution: "Check the component specification data and retry",
	})
	return v
}
