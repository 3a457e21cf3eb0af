// Package typechart computes defensive type-effectiveness profiles from a
// static pairwise multiplier chart.
package typechart

import "fmt"

// Category is one of the closed set of elemental types.
type Category int

// Known categories, in canonical display order.
const (
	Normal Category = iota
	Fire
	Water
	Electric
	Grass
	Ice
	Fighting
	Poison
	Ground
	Flying
	Psychic
	Bug
	Rock
	Ghost
	Dragon
	Dark
	Steel
	Fairy

	// NumCategories is the size of the closed category set.
	NumCategories = int(Fairy) + 1
)

var categoryNames = [NumCategories]string{
	"normal", "fire", "water", "electric", "grass", "ice",
	"fighting", "poison", "ground", "flying", "psychic", "bug",
	"rock", "ghost", "dragon", "dark", "steel", "fairy",
}

var categoryByName = func() map[string]Category {
	m := make(map[string]Category, NumCategories)
	for i, name := range categoryNames {
		m[name] = Category(i)
	}
	return m
}()

// UnknownCategoryError is returned when a category name is not part of the chart.
type UnknownCategoryError struct {
	Name string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Name)
}

// ParseCategory maps an upstream type name to its Category.
func ParseCategory(name string) (Category, error) {
	c, ok := categoryByName[name]
	if !ok {
		return 0, &UnknownCategoryError{Name: name}
	}
	return c, nil
}

// ParseCategories parses every name, failing on the first unknown one.
func ParseCategories(names []string) ([]Category, error) {
	out := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// All returns every category in canonical order.
func All() []Category {
	out := make([]Category, NumCategories)
	for i := range out {
		out[i] = Category(i)
	}
	return out
}

// Valid reports whether c is inside the closed set.
func (c Category) Valid() bool {
	return c >= 0 && int(c) < NumCategories
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}
