package builder

import (
	"context"
	"fmt"
	"sync"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/store"
	"github.com/braunma/buildcheck/pkg/utils"
)

// Validator checks a candidate component against a configuration
type Validator interface {
	ValidateAddition(ctx context.Context, configID string, t models.ComponentType, uuid string) *models.Verdict
}

// Repository persists configuration changes
type Repository interface {
	AddComponent(ctx context.Context, configID string, ref models.ComponentRef) (*store.Component, error)
	RemoveComponent(ctx context.Context, configID string, t models.ComponentType, uuid string) error
}

// Builder serialises changes per configuration so a verdict is never computed
// against a snapshot that another writer is about to change
type Builder struct {
	validator Validator
	repo      Repository
	logger    *utils.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewBuilder creates a new configuration builder
func NewBuilder(validator Validator, repo Repository, logger *utils.Logger) *Builder {
	return &Builder{
		validator: validator,
		repo:      repo,
		logger:    logger,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (b *Builder) lock(configID string) func() {
	b.mu.Lock()
	l, ok := b.locks[configID]
	if !ok {
		l = &sync.Mutex{}
		b.locks[configID] = l
	}
	b.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Add validates a component and persists it unless the verdict is blocked.
// Expansion cards are stored with the slot the engine assigned.
func (b *Builder) Add(ctx context.Context, configID string, t models.ComponentType, uuid string) (*models.Verdict, error) {
	unlock := b.lock(configID)
	defer unlock()

	verdict := b.validator.ValidateAddition(ctx, configID, t, uuid)
	if verdict.Blocked() {
		b.logger.Warning("Not adding %s %s to %s: %d critical error(s)", t, uuid, configID, len(verdict.CriticalErrors))
		return verdict, nil
	}

	ref := models.ComponentRef{
		Type:         t,
		UUID:         uuid,
		Quantity:     1,
		SlotPosition: verdict.AssignedSlot,
	}
	if _, err := b.repo.AddComponent(ctx, configID, ref); err != nil {
		return verdict, fmt.Errorf("failed to persist %s: %w", ref, err)
	}

	b.logger.Success("Added %s to %s (%s)", ref, configID, verdict.Status)
	return verdict, nil
}

// Remove deletes a component from a configuration
func (b *Builder) Remove(ctx context.Context, configID string, t models.ComponentType, uuid string) error {
	unlock := b.lock(configID)
	defer unlock()

	if err := b.repo.RemoveComponent(ctx, configID, t, uuid); err != nil {
		return fmt.Errorf("failed to remove %s %s: %w", t, uuid, err)
	}
	b.logger.Success("Removed %s %s from %s", t, uuid, configID)
	return nil
}
