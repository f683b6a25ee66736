package alignment

import (
	"fmt"
	"sort"
)

// Binding maps chronological indexes to display labels.
type Binding struct {
	Labels []string
	Roles  []string
	// Synthetic[k] is true when speaker k got a fallback label.
	Synthetic []bool
}

// Label returns the label for index k, or the fallback label when k is out
// of range.
func (b Binding) Label(k int) string {
	if k >= 0 && k < len(b.Labels) {
		return b.Labels[k]
	}
	return FallbackLabel(k)
}

// FallbackLabel is the label given to speaker k when the roster has no
// entry for it. Labels are 1-based.
func FallbackLabel(k int) string {
	return fmt.Sprintf("Speaker_%d", k+1)
}

// SortRoster returns a copy of roster in ascending Order.
func SortRoster(roster []RosterEntry) []RosterEntry {
	sorted := make([]RosterEntry, len(roster))
	copy(sorted, roster)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return sorted
}

// BindRoster labels speakers 0..speakers-1 with the sorted roster entry at
// the same position. Speakers past the end of the roster get FallbackLabel
// and one warning each; unused roster entries are ignored.
func BindRoster(speakers int, sortedRoster []RosterEntry) (Binding, []string) {
	b := Binding{
		Labels:    make([]string, speakers),
		Roles:     make([]string, speakers),
		Synthetic: make([]bool, speakers),
	}
	var warnings []string
	for k := 0; k < speakers; k++ {
		if k < len(sortedRoster) {
			b.Labels[k] = sortedRoster[k].DisplayName
			b.Roles[k] = sortedRoster[k].Role
			continue
		}
		b.Labels[k] = FallbackLabel(k)
		b.Synthetic[k] = true
		warnings = append(warnings, fmt.Sprintf(
			"speaker %d has no roster entry (roster has %d); labeled %s", k, len(sortedRoster), b.Labels[k]))
	}
	return b, warnings
}
