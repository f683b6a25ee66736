package provider

import (
	"context"
	"strings"
	"testing"
	"time"
)

// fakeBackend implements Provider for tests.
type fakeBackend struct {
	name      string
	available bool
}

func (p *fakeBackend) Name() string                        { return p.name }
func (p *fakeBackend) IsAvailable(ctx context.Context) bool { return p.available }

func backendFactory(name string, available bool) Factory[*fakeBackend] {
	return func(cfg map[string]any) (*fakeBackend, error) {
		return &fakeBackend{name: name, available: available}, nil
	}
}

func newTestManager(sel Selector[*fakeBackend]) *Manager[*fakeBackend] {
	return NewManager(NewRegistry[*fakeBackend](), sel)
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*fakeBackend]()
	reg.RegisterFactory("whisper", backendFactory("whisper", true))

	p, err := reg.Create("whisper", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "whisper" {
		t.Errorf("expected name 'whisper', got %q", p.Name())
	}

	_, err = reg.Create("missing", nil)
	if err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected 'not registered' error, got %v", err)
	}
}

func TestRegistryListAndCache(t *testing.T) {
	reg := NewRegistry[*fakeBackend]()
	reg.RegisterFactory("pyannote", backendFactory("pyannote", true))
	reg.RegisterFactory("nemo", backendFactory("nemo", true))

	if names := reg.List(); len(names) != 2 || names[0] != "nemo" || names[1] != "pyannote" {
		t.Errorf("expected sorted [nemo pyannote], got %v", names)
	}

	if _, ok := reg.Get("pyannote"); ok {
		t.Error("expected no cached instance before Set")
	}
	reg.Set("pyannote", &fakeBackend{name: "pyannote"})
	if got, ok := reg.Get("pyannote"); !ok || got.Name() != "pyannote" {
		t.Errorf("expected cached pyannote, got %v %v", got, ok)
	}
}

func TestSelectors(t *testing.T) {
	ctx := context.Background()
	providers := map[string]*fakeBackend{
		"a-primary":   {name: "a-primary", available: false},
		"b-secondary": {name: "b-secondary", available: true},
		"c-tertiary":  {name: "c-tertiary", available: true},
	}

	tests := []struct {
		name string
		sel  Selector[*fakeBackend]
		want string
	}{
		{"priority skips unavailable", &PrioritySelector[*fakeBackend]{Priority: []string{"a-primary", "c-tertiary"}}, "c-tertiary"},
		{"health check takes first available by name", &HealthCheckSelector[*fakeBackend]{}, "b-secondary"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p, err := tc.sel.Select(ctx, providers)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if p.Name() != tc.want {
				t.Errorf("expected %q, got %q", tc.want, p.Name())
			}
		})
	}
}

func TestSelectorsNoneAvailable(t *testing.T) {
	ctx := context.Background()
	down := map[string]*fakeBackend{"a": {name: "a"}}

	for name, sel := range map[string]Selector[*fakeBackend]{
		"priority":    &PrioritySelector[*fakeBackend]{Priority: []string{"a"}},
		"round robin": &RoundRobinSelector[*fakeBackend]{},
		"health":      &HealthCheckSelector[*fakeBackend]{},
	} {
		if _, err := sel.Select(ctx, down); err == nil {
			t.Errorf("%s: expected error when nothing is available", name)
		}
	}

	if _, err := (&RoundRobinSelector[*fakeBackend]{}).Select(ctx, map[string]*fakeBackend{}); err == nil {
		t.Error("expected error for empty provider set")
	}
}

func TestRoundRobinSelectorRotates(t *testing.T) {
	ctx := context.Background()
	providers := map[string]*fakeBackend{
		"a": {name: "a", available: true},
		"b": {name: "b", available: true},
	}
	sel := &RoundRobinSelector[*fakeBackend]{}

	var order []string
	for i := 0; i < 4; i++ {
		p, err := sel.Select(ctx, providers)
		if err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		order = append(order, p.Name())
	}
	if strings.Join(order, ",") != "a,b,a,b" {
		t.Errorf("expected alternating selection, got %v", order)
	}
}

func TestManagerLifecycle(t *testing.T) {
	ctx := context.Background()
	mgr := newTestManager(&HealthCheckSelector[*fakeBackend]{})
	mgr.Register("local", backendFactory("local", false))
	mgr.Register("remote", backendFactory("remote", true))

	if err := mgr.Initialize("local", nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := mgr.Initialize("remote", nil); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	p, err := mgr.Get(ctx)
	if err != nil || p.Name() != "remote" {
		t.Fatalf("expected selector to pick remote, got %v %v", p, err)
	}

	if err := mgr.SetDefault("local"); err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if p, _ := mgr.Get(ctx); p.Name() != "local" {
		t.Errorf("default should win over selector, got %q", p.Name())
	}

	if got := mgr.Available(); strings.Join(got, ",") != "local,remote" {
		t.Errorf("unexpected available list %v", got)
	}

	health := mgr.Health(ctx)
	if health["local"] || !health["remote"] {
		t.Errorf("unexpected health %v", health)
	}
}

func TestManagerErrors(t *testing.T) {
	mgr := newTestManager(&PrioritySelector[*fakeBackend]{})

	if err := mgr.Initialize("unregistered", nil); err == nil {
		t.Error("expected error initializing an unregistered provider")
	}
	if _, err := mgr.GetByName("missing"); err == nil {
		t.Error("expected error for missing provider")
	}
	if err := mgr.SetDefault("missing"); err == nil {
		t.Error("expected error for uninitialized default")
	}
}

func TestManagerAdd(t *testing.T) {
	mgr := newTestManager(&HealthCheckSelector[*fakeBackend]{})
	mgr.Add("fake", &fakeBackend{name: "fake", available: true})

	p, err := mgr.GetByName("fake")
	if err != nil || p.Name() != "fake" {
		t.Fatalf("expected added provider, got %v %v", p, err)
	}
}

func TestStringOption(t *testing.T) {
	cfg := map[string]any{"url": "http://whisper:8387", "port": 8387}

	if v, err := StringOption(cfg, "url"); err != nil || v != "http://whisper:8387" {
		t.Errorf("unexpected %q %v", v, err)
	}
	if v, err := StringOption(cfg, "missing"); err != nil || v != "" {
		t.Errorf("missing keys should be empty, got %q %v", v, err)
	}
	if _, err := StringOption(cfg, "port"); err == nil {
		t.Error("expected type error")
	}
}

func TestDurationOption(t *testing.T) {
	cfg := map[string]any{
		"typed":  90 * time.Second,
		"string": "2m",
		"bad":    "soon",
		"number": 5,
	}

	if d, err := DurationOption(cfg, "typed"); err != nil || d != 90*time.Second {
		t.Errorf("typed: %v %v", d, err)
	}
	if d, err := DurationOption(cfg, "string"); err != nil || d != 2*time.Minute {
		t.Errorf("string: %v %v", d, err)
	}
	if d, err := DurationOption(cfg, "missing"); err != nil || d != 0 {
		t.Errorf("missing: %v %v", d, err)
	}
	if _, err := DurationOption(cfg, "bad"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := DurationOption(cfg, "number"); err == nil {
		t.Error("expected type error")
	}
}

func TestBoolOption(t *testing.T) {
	cfg := map[string]any{"typed": true, "env": "true", "bad": "maybe", "number": 1}

	if b, err := BoolOption(cfg, "typed"); err != nil || !b {
		t.Errorf("typed: %v %v", b, err)
	}
	if b, err := BoolOption(cfg, "env"); err != nil || !b {
		t.Errorf("env: %v %v", b, err)
	}
	if b, err := BoolOption(cfg, "missing"); err != nil || b {
		t.Errorf("missing: %v %v", b, err)
	}
	if _, err := BoolOption(cfg, "bad"); err == nil {
		t.Error("expected parse error")
	}
	if _, err := BoolOption(cfg, "number"); err == nil {
		t.Error("expected type error")
	}
}
