package sessions

import (
	"slices"
	"sort"
)

type ExerciseGroup struct {
	Type      string   `json:"type"`
	Exercises []string `json:"exercises"`
}

// Catalog is the set of recognized exercises, grouped by exercise type.
// A flat list is a catalog with a single group.
type Catalog struct {
	groups []ExerciseGroup
	names  map[string]bool
}

func DefaultCatalog() Catalog {
	return NewCatalog(map[string][]string{
		"Barbell": {"Squat", "Deadlift", "Bench press", "Overhead press"},
	})
}

// NewCatalog builds a catalog with groups ordered by type name.
func NewCatalog(groups map[string][]string) Catalog {
	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	c := Catalog{names: make(map[string]bool)}
	for _, t := range types {
		c.groups = append(c.groups, ExerciseGroup{
			Type:      t,
			Exercises: slices.Clone(groups[t]),
		})
		for _, name := range groups[t] {
			c.names[name] = true
		}
	}
	return c
}

func (c Catalog) Contains(exercise string) bool {
	return c.names[exercise]
}

func (c Catalog) Groups() []ExerciseGroup {
	return slices.Clone(c.groups)
}

// Exercises returns all exercise names, in group order.
func (c Catalog) Exercises() []string {
	var all []string
	for _, g := range c.groups {
		for _, name := range g.Exercises {
			if !slices.Contains(all, name) {
				all = append(all, name)
			}
		}
	}
	return all
}

func (c Catalog) Size() int {
	return len(c.names)
}
