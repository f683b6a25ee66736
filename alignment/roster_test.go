package alignment

import (
	"reflect"
	"strings"
	"testing"
)

func TestBindRosterSurplusSpeakers(t *testing.T) {
	b, warnings := BindRoster(3, []RosterEntry{{DisplayName: "A", Order: 1}})

	if !reflect.DeepEqual(b.Labels, []string{"A", "Speaker_2", "Speaker_3"}) {
		t.Errorf("unexpected labels %v", b.Labels)
	}
	if !reflect.DeepEqual(b.Synthetic, []bool{false, true, true}) {
		t.Errorf("unexpected synthetic flags %v", b.Synthetic)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected one warning per synthetic label, got %v", warnings)
	}
	if !strings.Contains(warnings[0], "Speaker_2") || !strings.Contains(warnings[1], "Speaker_3") {
		t.Errorf("warnings should name the fallback labels: %v", warnings)
	}
}

func TestBindRosterLongerThanSpeakers(t *testing.T) {
	roster := []RosterEntry{
		{DisplayName: "Beto", Order: 1, Role: "chair"},
		{DisplayName: "Ely", Order: 2},
		{DisplayName: "Unused", Order: 3},
	}
	b, warnings := BindRoster(2, roster)
	if len(warnings) != 0 {
		t.Errorf("unused roster entries are not a warning: %v", warnings)
	}
	if !reflect.DeepEqual(b.Labels, []string{"Beto", "Ely"}) {
		t.Errorf("unexpected labels %v", b.Labels)
	}
	if b.Roles[0] != "chair" {
		t.Errorf("expected role carried, got %q", b.Roles[0])
	}
}

func TestBindRosterEmpty(t *testing.T) {
	b, warnings := BindRoster(0, nil)
	if len(b.Labels) != 0 || len(warnings) != 0 {
		t.Errorf("expected empty binding, got %+v %v", b, warnings)
	}
	if b.Label(4) != "Speaker_5" {
		t.Errorf("out of range labels fall back, got %q", b.Label(4))
	}
}

func TestSortRoster(t *testing.T) {
	roster := []RosterEntry{
		{DisplayName: "third", Order: 30},
		{DisplayName: "first", Order: 1},
		{DisplayName: "second", Order: 2},
	}
	sorted := SortRoster(roster)

	var names []string
	for _, r := range sorted {
		names = append(names, r.DisplayName)
	}
	if !reflect.DeepEqual(names, []string{"first", "second", "third"}) {
		t.Errorf("unexpected order %v", names)
	}
	if roster[0].DisplayName != "third" {
		t.Error("SortRoster must not reorder its argument")
	}
}

func TestFallbackLabel(t *testing.T) {
	if FallbackLabel(0) != "Speaker_1" || FallbackLabel(11) != "Speaker_12" {
		t.Errorf("fallback labels are 1-based: %q %q", FallbackLabel(0), FallbackLabel(11))
	}
}
