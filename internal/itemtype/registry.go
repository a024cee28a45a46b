// Package itemtype loads the work-item type registry: display metadata
// and the parent-compatibility table that constrains the hierarchy
// (INITIATIVE > EPIC > FEATURE > USER_STORY > TASK > SUBTASK, with BUG
// attachable to FEATURE, USER_STORY, or TASK).
package itemtype

import (
	"embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"cadence/internal/domain/models"
)

//go:embed config/*.yaml
var configFiles embed.FS

// TypeInfo is the registry entry for one work-item type.
type TypeInfo struct {
	// ID is the type discriminator (set during YAML unmarshaling).
	ID models.ItemType `yaml:"-" json:"id"`

	DisplayName string `yaml:"display_name" json:"display_name"`

	// Rank orders types coarsest-first for display grouping.
	Rank int `yaml:"rank" json:"rank"`

	// AllowedParents lists the types a node of this type may attach
	// below. Every type may additionally sit at the project root.
	AllowedParents []models.ItemType `yaml:"allowed_parents" json:"allowed_parents"`
}

type registryFile struct {
	Types map[models.ItemType]TypeInfo `yaml:"types"`
}

// Registry answers type-compatibility queries for the work-item
// hierarchy. It is immutable after construction; the mutex only guards
// against misuse from init-order races.
type Registry struct {
	types map[models.ItemType]TypeInfo
	mu    sync.RWMutex
}

// NewRegistry loads the embedded type registry.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/types.yaml")
	if err != nil {
		return nil, fmt.Errorf("read type registry: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal type registry: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("type registry is empty")
	}

	types := make(map[models.ItemType]TypeInfo, len(file.Types))
	for id, info := range file.Types {
		info.ID = id
		for _, parent := range info.AllowedParents {
			if _, ok := file.Types[parent]; !ok {
				return nil, fmt.Errorf("type %s allows unknown parent %s", id, parent)
			}
		}
		types[id] = info
	}

	return &Registry{types: types}, nil
}

// Known reports whether t is a registered type.
func (r *Registry) Known(t models.ItemType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[t]
	return ok
}

// Get returns the registry entry for a type.
func (r *Registry) Get(t models.ItemType) (TypeInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[t]
	if !ok {
		return TypeInfo{}, fmt.Errorf("unknown item type: %s", t)
	}
	return info, nil
}

// CanParent reports whether a node of type child may attach below a
// node of type parent.
func (r *Registry) CanParent(parent, child models.ItemType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[child]
	if !ok {
		return false
	}
	for _, p := range info.AllowedParents {
		if p == parent {
			return true
		}
	}
	return false
}

// AllowedParents returns the parent types valid for child, or nil for
// an unknown type.
func (r *Registry) AllowedParents(child models.ItemType) []models.ItemType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[child]
	if !ok {
		return nil
	}
	out := make([]models.ItemType, len(info.AllowedParents))
	copy(out, info.AllowedParents)
	return out
}

// List returns all registered types ordered by rank.
func (r *Registry) List() []TypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]TypeInfo, 0, len(r.types))
	for _, info := range r.types {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}
