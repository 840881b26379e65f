package reconciler

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/store"
	"github.com/braunma/buildcheck/pkg/utils"
)

// installOrder adds hosts before the parts that depend on them, so each
// addition is validated against the components it needs
var installOrder = map[models.ComponentType]int{
	models.TypeChassis:     0,
	models.TypeMotherboard: 1,
	models.TypeCPU:         2,
	models.TypeRAM:         3,
	models.TypePCIeCard:    4,
	models.TypeHBACard:     4,
	models.TypeNIC:         5,
	models.TypeCaddy:       6,
	models.TypeStorage:     7,
}

// Store reads and creates stored configurations
type Store interface {
	GetSnapshot(ctx context.Context, configID string) (*models.ConfigurationSnapshot, error)
	ImportSnapshot(ctx context.Context, snap *models.ConfigurationSnapshot) (*store.Configuration, error)
}

// Changer applies validated additions and removals
type Changer interface {
	Add(ctx context.Context, configID string, t models.ComponentType, uuid string) (*models.Verdict, error)
	Remove(ctx context.Context, configID string, t models.ComponentType, uuid string) error
}

// Result describes what reconciling one configuration changed
type Result struct {
	ConfigID string
	Created  bool
	Added    []models.ComponentRef
	Removed  []models.ComponentRef
	Blocked  []*models.Verdict
}

// ConfigurationReconciler brings stored configurations in line with YAML definitions.
// Every addition goes through compatibility validation; blocked components are skipped.
type ConfigurationReconciler struct {
	store   Store
	changer Changer
	logger  *utils.Logger
	dryRun  bool
}

// NewConfigurationReconciler creates a new configuration reconciler
func NewConfigurationReconciler(s Store, c Changer, logger *utils.Logger, dryRun bool) *ConfigurationReconciler {
	return &ConfigurationReconciler{
		store:   s,
		changer: c,
		logger:  logger,
		dryRun:  dryRun,
	}
}

// Reconcile reconciles every desired configuration
func (cr *ConfigurationReconciler) Reconcile(ctx context.Context, desired []*models.ConfigurationSnapshot) ([]Result, error) {
	cr.logger.Info("Reconciling %d configurations...", len(desired))

	results := make([]Result, 0, len(desired))
	for _, want := range desired {
		res, err := cr.reconcileOne(ctx, want)
		if err != nil {
			return results, fmt.Errorf("failed to reconcile configuration %s: %w", want.ConfigID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (cr *ConfigurationReconciler) reconcileOne(ctx context.Context, want *models.ConfigurationSnapshot) (Result, error) {
	res := Result{ConfigID: want.ConfigID}

	current, err := cr.store.GetSnapshot(ctx, want.ConfigID)
	switch {
	case errors.Is(err, compat.ErrSnapshotNotFound):
		res.Created = true
		current = models.NewSnapshot(want.ConfigID)
		if cr.dryRun {
			cr.logger.Info("Would create configuration %s", want.ConfigID)
			break
		}
		empty := &models.ConfigurationSnapshot{ConfigID: want.ConfigID, Name: want.Name}
		if _, err := cr.store.ImportSnapshot(ctx, empty); err != nil {
			return res, err
		}
		cr.logger.Success("Created configuration %s", want.ConfigID)
	case err != nil:
		return res, err
	}

	add, remove := Diff(current, want)
	if len(add) == 0 && len(remove) == 0 {
		cr.logger.Debug("Configuration %s is up to date", want.ConfigID)
		return res, nil
	}

	for _, ref := range remove {
		cr.logger.Warning("  - %s", ref)
		if cr.dryRun {
			res.Removed = append(res.Removed, ref)
			continue
		}
		if err := cr.changer.Remove(ctx, want.ConfigID, ref.Type, ref.UUID); err != nil {
			return res, err
		}
		res.Removed = append(res.Removed, ref)
	}

	for _, ref := range add {
		cr.logger.Info("  + %s", ref)
		if cr.dryRun {
			res.Added = append(res.Added, ref)
			continue
		}
		v, err := cr.changer.Add(ctx, want.ConfigID, ref.Type, ref.UUID)
		if err != nil {
			return res, err
		}
		if v.Blocked() {
			res.Blocked = append(res.Blocked, v)
			continue
		}
		res.Added = append(res.Added, ref)
	}

	return res, nil
}

// Diff returns the components to add (in install order) and the surplus
// entries to remove to turn current into desired. Entries are compared as
// type and uuid counts; slot positions are ignored. The store deletes the
// newest matching row, so removal order within a type and uuid does not matter.
func Diff(current, desired *models.ConfigurationSnapshot) (add, remove []models.ComponentRef) {
	have := make(map[string]int)
	for _, ref := range current.Components() {
		have[key(ref)]++
	}
	want := make(map[string]int)
	for _, ref := range desired.Components() {
		want[key(ref)]++
	}

	for _, ref := range desired.Components() {
		k := key(ref)
		if have[k] > 0 {
			have[k]--
			continue
		}
		add = append(add, models.ComponentRef{Type: refType(ref), UUID: ref.UUID, Quantity: 1})
	}

	existing := current.Components()
	for i := len(existing) - 1; i >= 0; i-- {
		ref := existing[i]
		k := key(ref)
		if want[k] > 0 {
			want[k]--
			continue
		}
		remove = append(remove, ref)
	}

	sort.SliceStable(add, func(i, j int) bool {
		return installOrder[add[i].Type] < installOrder[add[j].Type]
	})
	return add, remove
}

func refType(ref models.ComponentRef) models.ComponentType {
	if ref.Type == "" {
		return models.TypePCIeCard
	}
	return ref.Type
}

func key(ref models.ComponentRef) string {
	return string(refType(ref)) + "/" + ref.UUID
}
