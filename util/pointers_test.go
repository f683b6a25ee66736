package util

import "testing"

func TestPtrAndDeref(t *testing.T) {
	p := Ptr(0.0)
	if p == nil || *p != 0 {
		t.Fatalf("expected pointer to zero, got %v", p)
	}
	if got := Deref(p); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
	var nilPtr *float64
	if got := Deref(nilPtr); got != 0 {
		t.Errorf("expected zero value for nil, got %v", got)
	}
	if got := Deref(Ptr("strict")); got != "strict" {
		t.Errorf("expected 'strict', got %q", got)
	}
}
