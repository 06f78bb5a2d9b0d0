// Package recipe tracks what must be cut to clear a level.
package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomz197/faceslice/internal/object"
)

// ErrHazard is returned when a recipe asks for the hazard kind.
var ErrHazard = errors.New("recipe cannot require the hazard")

// Recipe maps each required kind to its cut count. It is immutable once built.
type Recipe struct {
	counts [object.NumKinds]int
}

// New builds a recipe from kind counts. Hazard kinds, unknown kinds and
// non-positive counts are rejected, as is an empty recipe.
func New(counts map[object.Kind]int) (Recipe, error) {
	var r Recipe
	for k, n := range counts {
		if !k.Valid() {
			return Recipe{}, fmt.Errorf("unknown kind %d", uint8(k))
		}
		if k.IsHazard() {
			return Recipe{}, fmt.Errorf("kind %s: %w", k, ErrHazard)
		}
		if n <= 0 {
			return Recipe{}, fmt.Errorf("kind %s: count must be positive, got %d", k, n)
		}
		r.counts[k] = n
	}
	if r.Total() == 0 {
		return Recipe{}, errors.New("recipe is empty")
	}
	return r, nil
}

// Parse builds a recipe from kind names, as read from configuration.
func Parse(counts map[string]int) (Recipe, error) {
	kinds := make(map[object.Kind]int, len(counts))
	for name, n := range counts {
		k, err := object.ParseKind(name)
		if err != nil {
			return Recipe{}, err
		}
		kinds[k] = n
	}
	return New(kinds)
}

// Need returns the required cut count for k, zero if k is not required.
func (r Recipe) Need(k object.Kind) int {
	if !k.Valid() {
		return 0
	}
	return r.counts[k]
}

// Kinds returns the required kinds in declaration order.
func (r Recipe) Kinds() []object.Kind {
	var kinds []object.Kind
	for _, k := range object.AllKinds() {
		if r.counts[k] > 0 {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Total returns the number of cuts needed to complete the recipe.
func (r Recipe) Total() int {
	total := 0
	for _, n := range r.counts {
		total += n
	}
	return total
}

func (r Recipe) String() string {
	parts := make([]string, 0, len(r.counts))
	for _, k := range r.Kinds() {
		parts = append(parts, fmt.Sprintf("%s:%d", k, r.counts[k]))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
