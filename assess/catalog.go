// Package assess scores a trainee's self-assessment against a checklist of
// required and bonus items.
//
// A Scorer is opened once the timed exercise is over. The trainee first
// acknowledges the honor pledge, then affirms the items they remembered.
// Submitting the assessment is irreversible: the Result is handed to a Sink
// and the affirmations are locked.
package assess

import (
	"fmt"
)

// Item is one checklist entry.
type Item struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Label    string `json:"label" yaml:"label" toml:"label"`
	Required bool   `json:"required" yaml:"required" toml:"required"`
	// Category groups items for display; it does not affect scoring.
	Category string `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
}

// Catalog is the ordered checklist for a session. Items that are not
// required form the bonus set.
type Catalog []Item

// Validate checks that every item has a unique, non-empty id.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(c))
	for i, it := range c {
		if it.ID == "" {
			return fmt.Errorf("%w: item %d has no id", ErrInvalidCatalog, i)
		}
		if seen[it.ID] {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, it.ID)
		}
		seen[it.ID] = true
	}
	return nil
}

// Lookup returns the item with the given id.
func (c Catalog) Lookup(id string) (Item, bool) {
	for _, it := range c {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Required returns the ids of required items in catalog order.
func (c Catalog) Required() []string {
	return c.ids(func(it Item) bool { return it.Required })
}

// Bonus returns the ids of bonus items in catalog order.
func (c Catalog) Bonus() []string {
	return c.ids(func(it Item) bool { return !it.Required })
}

func (c Catalog) ids(keep func(Item) bool) []string {
	var out []string
	for _, it := range c {
		if keep(it) {
			out = append(out, it.ID)
		}
	}
	return out
}

// Group is a run of consecutive items sharing a category.
type Group struct {
	Category string
	Items    []Item
}

// Groups splits the catalog into consecutive category runs, preserving
// order.
func (c Catalog) Groups() []Group {
	var groups []Group
	for _, it := range c {
		if n := len(groups); n > 0 && groups[n-1].Category == it.Category {
			groups[n-1].Items = append(groups[n-1].Items, it)
			continue
		}
		groups = append(groups, Group{Category: it.Category, Items: []Item{it}})
	}
	return groups
}
