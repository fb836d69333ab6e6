package cmdb

import (
	"testing"

	"github.com/opsmind/opsmind/internal/log"
)

func testGraph(t *testing.T) *Graph {
	t.Helper()
	return SampleGraph(log.NewNop())
}

func TestGet(t *testing.T) {
	g := testGraph(t)

	ci, ok := g.Get("SRV-001")
	if !ok {
		t.Fatal("Get(SRV-001) not found")
	}
	if ci.Name != "prod-web-01" {
		t.Errorf("Get(SRV-001).Name = %q, want %q", ci.Name, "prod-web-01")
	}

	if _, ok := g.Get("SRV-999"); ok {
		t.Error("Get(SRV-999) should report not found")
	}
}

func TestUnknownIDTraversals(t *testing.T) {
	g := testGraph(t)

	if deps := g.Dependencies("NOPE-1"); len(deps) != 0 {
		t.Errorf("Dependencies(unknown) = %d items, want 0", len(deps))
	}
	if deps := g.Dependents("NOPE-1"); len(deps) != 0 {
		t.Errorf("Dependents(unknown) = %d items, want 0", len(deps))
	}
	if _, ok := g.ImpactAnalysis("NOPE-1"); ok {
		t.Error("ImpactAnalysis(unknown) should report not found")
	}
}

func TestDanglingReferencesDropped(t *testing.T) {
	g := testGraph(t)

	// APP-001 depends on API-001 which is not in the dataset.
	deps := g.Dependencies("APP-001")
	for _, d := range deps {
		if d.ID == "API-001" {
			t.Error("dangling reference API-001 should be dropped")
		}
	}
	if len(deps) != 1 || deps[0].ID != "DB-001" {
		t.Errorf("Dependencies(APP-001) = %v, want [DB-001]", ciIDs(deps))
	}
}

func TestEdgeConsistency(t *testing.T) {
	g := testGraph(t)

	// Every CI must show up in the dependents list of each of its resolvable
	// dependencies, and every dependent must list the target as a dependency.
	for _, ci := range g.All() {
		for _, depID := range ci.Dependencies {
			if _, exists := g.Get(depID); !exists {
				continue
			}
			if !containsID(g.Dependents(depID), ci.ID) {
				t.Errorf("%s depends on %s but is missing from Dependents(%s)", ci.ID, depID, depID)
			}
		}
		for _, dependent := range g.Dependents(ci.ID) {
			if !containsStr(dependent.Dependencies, ci.ID) {
				t.Errorf("Dependents(%s) includes %s which does not list it as a dependency", ci.ID, dependent.ID)
			}
		}
	}
}

func TestSearch(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"by type", Filter{Type: TypeDatabase}, []string{"DB-001", "DB-002"}},
		{"by environment", Filter{Environment: "Development"}, []string{"SRV-003"}},
		{"by owner and type", Filter{Owner: "Platform Team", Type: TypeServer}, []string{"SRV-001", "SRV-002"}},
		{"name substring is case-insensitive", Filter{Name: "PORTAL"}, []string{"APP-001"}},
		{"no filters returns all", Filter{}, []string{"SRV-001", "SRV-002", "SRV-003", "APP-001", "APP-002", "DB-001", "DB-002", "NET-001"}},
		{"no match", Filter{Status: "Retired"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ciIDs(g.Search(tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%+v) = %v, want %v", tt.filter, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search(%+v)[%d] = %s, want %s", tt.filter, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestImpactAnalysis(t *testing.T) {
	g := testGraph(t)

	impact, ok := g.ImpactAnalysis("DB-001")
	if !ok {
		t.Fatal("ImpactAnalysis(DB-001) not found")
	}

	wantDirect := []string{"SRV-001", "SRV-002", "APP-001", "APP-002"}
	if got := ciIDs(impact.DirectDependents); len(got) != len(wantDirect) {
		t.Fatalf("direct dependents = %v, want %v", got, wantDirect)
	}

	// NET-001 (via both servers, counted once) and SRV-003 (via APP-001).
	// SRV-001/SRV-002 reappear one hop out but are already counted as direct.
	wantIndirect := []string{"NET-001", "SRV-003"}
	gotIndirect := ciIDs(impact.IndirectDependents)
	if len(gotIndirect) != len(wantIndirect) {
		t.Fatalf("indirect dependents = %v, want %v", gotIndirect, wantIndirect)
	}

	for _, d := range impact.DirectDependents {
		if containsID(impact.IndirectDependents, d.ID) {
			t.Errorf("indirect dependents double-count direct dependent %s", d.ID)
		}
	}

	if impact.TotalImpact != len(impact.DirectDependents)+len(impact.IndirectDependents) {
		t.Errorf("TotalImpact = %d, want %d", impact.TotalImpact,
			len(impact.DirectDependents)+len(impact.IndirectDependents))
	}
	if impact.TotalImpact != 6 {
		t.Errorf("TotalImpact = %d, want 6", impact.TotalImpact)
	}
	if impact.RiskLevel != RiskCritical {
		t.Errorf("RiskLevel = %s, want %s", impact.RiskLevel, RiskCritical)
	}
}

func TestRiskLevelThresholds(t *testing.T) {
	tests := []struct {
		impact int
		env    string
		want   RiskLevel
	}{
		{0, EnvProduction, RiskLow},
		{1, EnvProduction, RiskMedium},
		{2, EnvProduction, RiskMedium},
		{3, EnvProduction, RiskHigh},
		{4, EnvProduction, RiskHigh},
		{5, EnvProduction, RiskCritical},
		{50, EnvProduction, RiskCritical},
		{0, "Development", RiskLow},
		{4, "Development", RiskLow},
		{5, "Development", RiskMedium},
		{9, "Staging", RiskMedium},
		{10, "Development", RiskHigh},
		{100, "Staging", RiskHigh},
	}

	for _, tt := range tests {
		if got := riskLevel(tt.impact, tt.env); got != tt.want {
			t.Errorf("riskLevel(%d, %s) = %s, want %s", tt.impact, tt.env, got, tt.want)
		}
	}
}

func TestRiskLevelMonotonic(t *testing.T) {
	rank := map[RiskLevel]int{RiskLow: 0, RiskMedium: 1, RiskHigh: 2, RiskCritical: 3}

	for _, env := range []string{EnvProduction, "Development"} {
		prev := riskLevel(0, env)
		for impact := 1; impact <= 20; impact++ {
			cur := riskLevel(impact, env)
			if rank[cur] < rank[prev] {
				t.Errorf("risk level decreased at impact=%d env=%s: %s -> %s", impact, env, prev, cur)
			}
			prev = cur
		}
	}
}

func ciIDs(cis []CI) []string {
	out := make([]string, 0, len(cis))
	for _, ci := range cis {
		out = append(out, ci.ID)
	}
	return out
}

func containsID(cis []CI, id string) bool {
	for _, ci := range cis {
		if ci.ID == id {
			return true
		}
	}
	return false
}

func containsStr(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
