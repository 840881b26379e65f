package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// ErrSpecNotFound is returned when a component has no specification record
var ErrSpecNotFound = errors.New("specification not found")

// Catalog is an in-memory specification lookup
type Catalog struct {
	specs  map[models.ComponentType]map[string]models.ComponentSpec
	mu     sync.RWMutex
	logger *utils.Logger
}

// NewCatalog creates an empty catalog
func NewCatalog(logger *utils.Logger) *Catalog {
	return &Catalog{
		specs:  make(map[models.ComponentType]map[string]models.ComponentSpec),
		logger: logger,
	}
}

// Add infers missing fields from notes, validates the record and stores it.
// A record with the same type and UUID is replaced.
func (c *Catalog) Add(spec models.ComponentSpec) error {
	if spec == nil {
		return errors.New("nil specification")
	}

	if inferred := Infer(spec); len(inferred) > 0 {
		c.logger.Debug("%s %s: inferred %v from notes", spec.ComponentType(), spec.ID(), inferred)
	}

	if err := ValidateSpec(spec); err != nil {
		return fmt.Errorf("invalid %s spec %s: %w", spec.ComponentType(), spec.ID(), err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	t := spec.ComponentType()
	if c.specs[t] == nil {
		c.specs[t] = make(map[string]models.ComponentSpec)
	}
	c.specs[t][spec.ID()] = spec
	return nil
}

// AddAll adds every record and returns how many were accepted plus one error per rejection
func (c *Catalog) AddAll(specs []models.ComponentSpec) (int, []error) {
	added := 0
	var errs []error
	for _, spec := range specs {
		if err := c.Add(spec); err != nil {
			errs = append(errs, err)
			continue
		}
		added++
	}
	return added, errs
}

// GetSpec resolves a component to its specification. Expansion card types share
// one namespace, so a NIC recorded as a generic PCIe card is still found.
func (c *Catalog) GetSpec(ctx context.Context, t models.ComponentType, uuid string) (models.ComponentSpec, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if spec, ok := c.specs[t][uuid]; ok {
		return spec, nil
	}
	if t.IsExpansionCard() {
		for _, other := range []models.ComponentType{models.TypeNIC, models.TypePCIeCard, models.TypeHBACard} {
			if spec, ok := c.specs[other][uuid]; ok {
				return spec, nil
			}
		}
	}
	return nil, fmt.Errorf("%s %s: %w", t, uuid, ErrSpecNotFound)
}

// List returns the records of a type ordered by UUID
func (c *Catalog) List(t models.ComponentType) []models.ComponentSpec {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ComponentSpec, 0, len(c.specs[t]))
	for _, spec := range c.specs[t] {
		out = append(out, spec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of records across all types
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, byID := range c.specs {
		total += len(byID)
	}
	return total
}
