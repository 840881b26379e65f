package loader

import (
	"context"
	"fmt"
	"sort"

	"github.com/braunma/buildcheck/pkg/compat"
	"github.com/braunma/buildcheck/pkg/models"
)

// SnapshotSet serves configurations loaded from YAML files
type SnapshotSet struct {
	snapshots map[string]*models.ConfigurationSnapshot
}

// NewSnapshotSet indexes snapshots by configuration id; later duplicates are rejected
func NewSnapshotSet(snapshots []*models.ConfigurationSnapshot) (*SnapshotSet, error) {
	set := &SnapshotSet{snapshots: make(map[string]*models.ConfigurationSnapshot, len(snapshots))}
	for _, s := range snapshots {
		if _, exists := set.snapshots[s.ConfigID]; exists {
			return nil, fmt.Errorf("duplicate configuration %s", s.ConfigID)
		}
		set.snapshots[s.ConfigID] = s
	}
	return set, nil
}

// GetSnapshot returns a configuration by id
func (s *SnapshotSet) GetSnapshot(_ context.Context, configID string) (*models.ConfigurationSnapshot, error) {
	snap, ok := s.snapshots[configID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", configID, compat.ErrSnapshotNotFound)
	}
	return snap, nil
}

// IDs returns the configuration ids in lexical order
func (s *SnapshotSet) IDs() []string {
	ids := make([]string, 0, len(s.snapshots))
	for id := range s.snapshots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
