// Package filter derives the visible subset of a customer collection from a
// FilterSpec. Every function here is pure and order preserving.
package filter

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/Raymond9734/customer-dashboard/internal/models"
)

// fold applies Unicode case folding. A Caser is stateful, so each call
// builds its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Apply returns the customers matching spec, in their original order.
// An empty spec returns customers itself.
func Apply(customers []models.Customer, spec models.FilterSpec) []models.Customer {
	if spec.IsEmpty() {
		return customers
	}

	m := newMatcher(spec)
	out := make([]models.Customer, 0, len(customers))
	for i := range customers {
		if m.matches(&customers[i]) {
			out = append(out, customers[i])
		}
	}
	return out
}

// Search applies only the free-text query, as the dashboard list does
func Search(customers []models.Customer, query string) []models.Customer {
	return Apply(customers, models.FilterSpec{SearchQuery: query})
}

// Matches reports whether a single customer satisfies every active criterion
func Matches(c models.Customer, spec models.FilterSpec) bool {
	return newMatcher(spec).matches(&c)
}

// Installers returns the distinct installer names, sorted
func Installers(customers []models.Customer) []string {
	seen := make(map[string]struct{}, len(customers))
	out := make([]string, 0)
	for i := range customers {
		name := customers[i].InstalledBy
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// matcher holds a spec with its derived values computed once per Apply
type matcher struct {
	spec        models.FilterSpec
	foldedQuery string
	foldedBy    string
	from        time.Time
	to          time.Time
	badBound    bool
}

func newMatcher(spec models.FilterSpec) matcher {
	m := matcher{
		spec:        spec,
		foldedQuery: fold(spec.SearchQuery),
		foldedBy:    fold(spec.InstalledBy),
	}

	if spec.FromDate != "" {
		from, ok := parseDay(spec.FromDate)
		m.from, m.badBound = from, m.badBound || !ok
	}
	if spec.ToDate != "" {
		to, ok := parseDay(spec.ToDate)
		m.to, m.badBound = to, m.badBound || !ok
	}

	return m
}

func (m matcher) matches(c *models.Customer) bool {
	return m.matchesSearch(c) &&
		m.matchesDates(c) &&
		(m.spec.ServiceType == "" || c.ServiceType == m.spec.ServiceType) &&
		(m.spec.InstalledBy == "" || strings.Contains(fold(c.InstalledBy), m.foldedBy))
}

// matchesSearch folds case for license and name; phone numbers are matched
// as raw substrings
func (m matcher) matchesSearch(c *models.Customer) bool {
	q := m.spec.SearchQuery
	if q == "" {
		return true
	}
	return strings.Contains(fold(c.LicenseNumber), m.foldedQuery) ||
		strings.Contains(fold(c.Name), m.foldedQuery) ||
		strings.Contains(c.Mobile1, q) ||
		(c.Mobile2 != "" && strings.Contains(c.Mobile2, q))
}

// matchesDates compares calendar days inclusively. A bound that does not
// parse matches nothing, and so does an installation date that does not
// parse while any bound is set.
func (m matcher) matchesDates(c *models.Customer) bool {
	if !m.spec.HasDateBounds() {
		return true
	}
	if m.badBound {
		return false
	}

	day, ok := parseDay(c.InstalledOn)
	if !ok {
		return false
	}
	if m.spec.FromDate != "" && day.Before(m.from) {
		return false
	}
	if m.spec.ToDate != "" && day.After(m.to) {
		return false
	}
	return true
}

// parseDay accepts YYYY-MM-DD or an RFC 3339 timestamp and truncates to the
// calendar day the value names
func parseDay(s string) (time.Time, bool) {
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}
