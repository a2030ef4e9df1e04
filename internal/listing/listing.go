// Package listing owns the collection view behaviour shared by every admin
// list page: in-memory filtering over the fetched collection, optimistic
// removal, delete confirmation and spreadsheet export of the filtered view.
// Filtering is recomputed from the full collection on every call; nothing is
// pushed to the database.
package listing

import "strings"

// Item is what list pages know about a row.
type Item interface {
	ItemID() string
	// SearchText returns the concatenated text the search box matches against.
	SearchText() string
	ItemActive() bool
	// CategoryRef returns the category id, or "" for uncategorized resources.
	CategoryRef() string
}

// Filter is the current filter state of a list page. Zero value matches
// everything.
type Filter struct {
	Search   string
	Status   string // "", "active" or "inactive"
	Category string
}

// Matches is the pure predicate applied to each row.
func (f Filter) Matches(item Item) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(item.SearchText()), strings.ToLower(f.Search)) {
		return false
	}
	switch f.Status {
	case "active":
		if !item.ItemActive() {
			return false
		}
	case "inactive":
		if item.ItemActive() {
			return false
		}
	}
	if f.Category != "" && item.CategoryRef() != f.Category {
		return false
	}
	return true
}

// Collection is the page-owned copy of a fetched resource list.
type Collection[T Item] struct {
	items []T
}

// NewCollection wraps a fetched result set.
func NewCollection[T Item](items []T) *Collection[T] {
	return &Collection[T]{items: items}
}

// Replace swaps in a freshly fetched result set.
func (c *Collection[T]) Replace(items []T) {
	c.items = items
}

// Len returns the unfiltered size.
func (c *Collection[T]) Len() int { return len(c.items) }

// View returns the rows matching the filter. The result is always non-nil so
// the {"data": ...} envelope never carries null.
func (c *Collection[T]) View(f Filter) []T {
	view := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if f.Matches(item) {
			view = append(view, item)
		}
	}
	return view
}

// Remove drops an item optimistically after a confirmed delete succeeded.
// Callers still refetch afterwards; this only keeps the view honest until
// the refetch lands.
func (c *Collection[T]) Remove(id string) bool {
	for i, item := range c.items {
		if item.ItemID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Confirmed reports whether the typed confirmation matches the item name the
// dialog interpolated. Deletes must not reach the repository without it.
func Confirmed(itemName, typed string) bool {
	return typed != "" && strings.EqualFold(strings.TrimSpace(typed), strings.TrimSpace(itemName))
}
