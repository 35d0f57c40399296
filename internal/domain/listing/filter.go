// Package listing derives the visible rows of a list screen from a fetched collection.
package listing

import (
	"strings"
	"time"
)

// All is the selector value that disables the category and status predicates
const All = "all"

// DateLayout is the layout of the exact-date selector
const DateLayout = "2006-01-02"

// Filterable is implemented by every entity shown in a filtered list.
// Missing optional fields are reported as "" and never panic.
type Filterable interface {
	// SearchFields returns the fields matched by the free-text term
	SearchFields() []string
	// CategoryName returns the denormalized category name
	CategoryName() string
	// StatusKey returns the status compared case-insensitively
	StatusKey() string
	// CreatedOn returns the creation time when the entity has one
	CreatedOn() (time.Time, bool)
}

// Criteria is the set of list filter selectors
type Criteria struct {
	Search   string
	Category string
	Status   string
	Date     string
}

// MatchAll reports whether no predicate is active
func (c Criteria) MatchAll() bool {
	return c.Search == "" && isAll(c.Category) && isAll(c.Status) && c.Date == ""
}

// Filter returns the items passing every active predicate, in input order.
// The input slice is not modified; the result is always a new slice.
func Filter[T Filterable](items []T, c Criteria, loc *time.Location) []T {
	m := newMatcher(c, loc)
	out := make([]T, 0, len(items))
	for _, it := range items {
		if m.match(it) {
			out = append(out, it)
		}
	}
	return out
}

// Match reports whether a single item passes the criteria
func Match[T Filterable](item T, c Criteria, loc *time.Location) bool {
	return newMatcher(c, loc).match(item)
}

// DistinctCategories returns the non-empty category names in first-seen order
func DistinctCategories[T Filterable](items []T) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, it := range items {
		name := it.CategoryName()
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

type matcher struct {
	term     string
	category string
	status   string
	day      string
	dateSet  bool
	dateBad  bool
	loc      *time.Location
}

func newMatcher(c Criteria, loc *time.Location) matcher {
	if loc == nil {
		loc = time.UTC
	}
	m := matcher{
		term: strings.ToLower(c.Search),
		loc:  loc,
	}
	if !isAll(c.Category) {
		m.category = c.Category
	}
	if !isAll(c.Status) {
		m.status = strings.TrimSpace(c.Status)
	}
	if d := strings.TrimSpace(c.Date); d != "" {
		m.dateSet = true
		if _, err := time.Parse(DateLayout, d); err != nil {
			m.dateBad = true
		}
		m.day = d
	}
	return m
}

func (m matcher) match(it Filterable) bool {
	return m.matchText(it) && m.matchCategory(it) && m.matchStatus(it) && m.matchDate(it)
}

func (m matcher) matchText(it Filterable) bool {
	if m.term == "" {
		return true
	}
	for _, f := range it.SearchFields() {
		if strings.Contains(strings.ToLower(f), m.term) {
			return true
		}
	}
	return false
}

func (m matcher) matchCategory(it Filterable) bool {
	return m.category == "" || it.CategoryName() == m.category
}

func (m matcher) matchStatus(it Filterable) bool {
	return m.status == "" || strings.EqualFold(it.StatusKey(), m.status)
}

// An unparseable selector matches nothing
func (m matcher) matchDate(it Filterable) bool {
	if !m.dateSet {
		return true
	}
	if m.dateBad {
		return false
	}
	ts, ok := it.CreatedOn()
	if !ok {
		return false
	}
	return ts.In(m.loc).Format(DateLayout) == m.day
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, All)
}
