package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/braunma/buildcheck/pkg/models"
	"github.com/braunma/buildcheck/pkg/utils"
)

// Lookup resolves specification records
type Lookup interface {
	GetSpec(ctx context.Context, t models.ComponentType, uuid string) (models.ComponentSpec, error)
}

// CachedLookup is a read-through cache in front of a slower Lookup such as the
// inventory client. Concurrent misses for one key share a single fetch.
type CachedLookup struct {
	source Lookup
	cache  map[models.ComponentType]map[string]models.ComponentSpec
	mu     sync.RWMutex
	group  singleflight.Group
	logger *utils.Logger
}

// NewCachedLookup creates a new cache in front of source
func NewCachedLookup(source Lookup, logger *utils.Logger) *CachedLookup {
	return &CachedLookup{
		source: source,
		cache:  make(map[models.ComponentType]map[string]models.ComponentSpec),
		logger: logger,
	}
}

// GetSpec returns a cached record or fetches it from the source.
// Not-found results are never cached.
func (cl *CachedLookup) GetSpec(ctx context.Context, t models.ComponentType, uuid string) (models.ComponentSpec, error) {
	if spec, ok := cl.Get(t, uuid); ok {
		return spec, nil
	}

	key := string(t) + "/" + uuid
	result, err, _ := cl.group.Do(key, func() (any, error) {
		if spec, ok := cl.Get(t, uuid); ok {
			return spec, nil
		}

		cl.logger.Debug("→ fetching %s", key)
		spec, err := cl.source.GetSpec(ctx, t, uuid)
		if err != nil {
			return nil, err
		}

		cl.mu.Lock()
		if cl.cache[t] == nil {
			cl.cache[t] = make(map[string]models.ComponentSpec)
		}
		cl.cache[t][uuid] = spec
		cl.mu.Unlock()
		return spec, nil
	})
	if err != nil {
		if errors.Is(err, ErrSpecNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}

	spec, ok := result.(models.ComponentSpec)
	if !ok {
		return nil, fmt.Errorf("unexpected cache entry %T for %s", result, key)
	}
	return spec, nil
}

// Warm loads the specifications of every component in a snapshot
func (cl *CachedLookup) Warm(ctx context.Context, snapshot *models.ConfigurationSnapshot) error {
	for _, ref := range snapshot.Components() {
		t := ref.Type
		if t == "" {
			t = models.TypePCIeCard
		}
		if _, err := cl.GetSpec(ctx, t, ref.UUID); err != nil && !errors.Is(err, ErrSpecNotFound) {
			return fmt.Errorf("failed to warm %s: %w", ref, err)
		}
	}
	cl.logger.Debug("Cache warmed for %s (%d components)", snapshot.ConfigID, len(snapshot.Components()))
	return nil
}

// Get retrieves a record from the cache only
func (cl *CachedLookup) Get(t models.ComponentType, uuid string) (models.ComponentSpec, bool) {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	if cl.cache[t] == nil {
		return nil, false
	}

	spec, ok := cl.cache[t][uuid]
	return spec, ok
}

// Resources returns the cached component types in a stable order
func (cl *CachedLookup) Resources() []models.ComponentType {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	resources := make([]models.ComponentType, 0, len(cl.cache))
	for t := range cl.cache {
		resources = append(resources, t)
	}
	sort.Slice(resources, func(i, j int) bool { return resources[i] < resources[j] })
	return resources
}

// Size returns the number of cached records for a component type
func (cl *CachedLookup) Size(t models.ComponentType) int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()

	if cl.cache[t] == nil {
		return 0
	}

	return len(cl.cache[t])
}
