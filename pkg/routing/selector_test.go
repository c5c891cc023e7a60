package routing

import (
	"context"
	"testing"
	"time"

	"polyglot-hq/hermes/pkg/adapters"
	"polyglot-hq/hermes/pkg/cache"
)

func newTestSelector(t *testing.T, provs ...*Provider) (*Selector, *Aggregator) {
	t.Helper()
	reg := newTestRegistry(t, provs...)
	for _, p := range provs {
		if err := reg.InitializeProvider(p.ID, "key"); err != nil {
			t.Fatalf("InitializeProvider(%s) error = %v", p.ID, err)
		}
	}
	agg := NewAggregator(cache.NewMemory(0), time.Hour, nil)
	return NewSelector(reg, agg), agg
}

func candidateIDs(cands []Candidate) []string {
	ids := make([]string, len(cands))
	for i, c := range cands {
		ids[i] = c.ID
	}
	return ids
}

func TestSelector_EstimatedCost(t *testing.T) {
	p, _ := newTestProvider("deepl", Params{Priority: 1, CostPerChar: 2e-5})
	sel, _ := newTestSelector(t, p)

	req := &adapters.Request{Text: "hello world", SourceLang: "en", TargetLang: "es"}
	got := sel.Candidates(context.Background(), req, Strategy{Mode: ModeCost})
	if len(got) != 1 {
		t.Fatalf("Candidates() returned %d entries, want 1", len(got))
	}
	// 11 characters at 2e-5 USD each.
	if want := 2.2e-4; got[0].EstimatedCost != want {
		t.Errorf("EstimatedCost = %g, want %g", got[0].EstimatedCost, want)
	}
}

func TestSelector_MaxCostCap(t *testing.T) {
	cheap, _ := newTestProvider("cheap", Params{Priority: 1, CostPerChar: 1e-5})
	pricey, _ := newTestProvider("pricey", Params{Priority: 2, CostPerChar: 5e-5})
	sel, _ := newTestSelector(t, cheap, pricey)

	// 10 characters: cheap estimates 1e-4, pricey 5e-4.
	req := &adapters.Request{Text: "0123456789", SourceLang: "en", TargetLang: "es"}

	tests := []struct {
		name    string
		maxCost float64
		want    []string
	}{
		{name: "cap excludes pricey", maxCost: 2e-4, want: []string{"cheap"}},
		{name: "cap admits both", maxCost: 1e-3, want: []string{"cheap", "pricey"}},
		{name: "zero cap disables the filter", maxCost: 0, want: []string{"cheap", "pricey"}},
		{name: "cap excludes everyone", maxCost: 1e-6, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidateIDs(sel.Candidates(context.Background(), req, Strategy{Mode: ModeCost, MaxCost: tt.maxCost}))
			if !equalIDSets(got, tt.want) {
				t.Errorf("Candidates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelector_MinQualityCap(t *testing.T) {
	high, _ := newTestProvider("high", Params{Priority: 1, QualityScore: 0.95})
	low, _ := newTestProvider("low", Params{Priority: 2, QualityScore: 0.75})
	sel, _ := newTestSelector(t, high, low)

	req := &adapters.Request{Text: "hello", SourceLang: "en", TargetLang: "es"}

	got := candidateIDs(sel.Candidates(context.Background(), req, Strategy{Mode: ModeQuality, MinQuality: 0.9}))
	if !equalIDSets(got, []string{"high"}) {
		t.Errorf("Candidates() with MinQuality 0.9 = %v, want [high]", got)
	}

	// The boundary is inclusive: a provider exactly at the floor passes.
	got = candidateIDs(sel.Candidates(context.Background(), req, Strategy{Mode: ModeQuality, MinQuality: 0.75}))
	if !equalIDSets(got, []string{"high", "low"}) {
		t.Errorf("Candidates() with MinQuality 0.75 = %v, want both", got)
	}
}

func TestSelector_MaxResponseTimeCap(t *testing.T) {
	ctx := context.Background()
	slow, _ := newTestProvider("slow", Params{Priority: 1})
	fresh, _ := newTestProvider("fresh", Params{Priority: 2})
	sel, agg := newTestSelector(t, slow, fresh)

	// slow has observed history averaging 500ms; fresh has none.
	agg.RecordSuccess(ctx, "slow", 600, 0.001)
	agg.RecordSuccess(ctx, "slow", 400, 0.001)

	req := &adapters.Request{Text: "hello", SourceLang: "en", TargetLang: "es"}

	got := candidateIDs(sel.Candidates(ctx, req, Strategy{Mode: ModeSpeed, MaxResponseTimeMS: 300}))
	if !equalIDSets(got, []string{"fresh"}) {
		t.Errorf("Candidates() with 300ms cap = %v, want [fresh] (no history passes)", got)
	}

	got = candidateIDs(sel.Candidates(ctx, req, Strategy{Mode: ModeSpeed, MaxResponseTimeMS: 500}))
	if !equalIDSets(got, []string{"fresh", "slow"}) {
		t.Errorf("Candidates() with 500ms cap = %v, want both (boundary inclusive)", got)
	}
}

func TestSelector_CombinedCaps(t *testing.T) {
	a, _ := newTestProvider("a", Params{Priority: 1, CostPerChar: 1e-5, QualityScore: 0.95})
	b, _ := newTestProvider("b", Params{Priority: 2, CostPerChar: 1e-5, QualityScore: 0.80})
	c, _ := newTestProvider("c", Params{Priority: 3, CostPerChar: 9e-5, QualityScore: 0.99})
	sel, _ := newTestSelector(t, a, b, c)

	req := &adapters.Request{Text: "0123456789", SourceLang: "en", TargetLang: "es"}
	strategy := Strategy{Mode: ModeBalanced, MaxCost: 2e-4, MinQuality: 0.9}

	got := candidateIDs(sel.Candidates(context.Background(), req, strategy))
	if !equalIDSets(got, []string{"a"}) {
		t.Errorf("Candidates() = %v, want [a]: b fails quality, c fails cost", got)
	}
}

func equalIDSets(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
