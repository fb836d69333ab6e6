// Package cmdb provides an in-memory configuration management database.
//
// The graph of configuration items (CIs) and their typed dependency edges is
// built once at startup from a fixed dataset and is immutable afterwards,
// which makes it safe for concurrent readers without locking.
package cmdb

import (
	"log/slog"
	"strings"
)

// CIType classifies a configuration item.
type CIType string

// Known configuration item types.
const (
	TypeServer        CIType = "Server"
	TypeApplication   CIType = "Application"
	TypeDatabase      CIType = "Database"
	TypeNetworkDevice CIType = "Network Device"
)

// RiskLevel classifies the blast radius of a CI failure.
type RiskLevel string

// Risk levels ordered from lowest to highest.
const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// EnvProduction is the environment name that triggers the stricter risk
// thresholds in impact analysis.
const EnvProduction = "Production"

// CI is a configuration item: one tracked piece of infrastructure or
// software. Dependencies lists the IDs of CIs this item depends on; entries
// may reference IDs that are not present in the graph (dangling references
// are tolerated, traversal simply finds nothing).
type CI struct {
	ID           string            `json:"ci_id"`
	Type         CIType            `json:"ci_type"`
	Name         string            `json:"name"`
	Status       string            `json:"status"`
	Environment  string            `json:"environment"`
	Owner        string            `json:"owner"`
	Location     string            `json:"location,omitempty"`
	Specs        map[string]string `json:"specs,omitempty"`
	Dependencies []string          `json:"dependencies"`
}

// Filter restricts a Search. Zero-value fields are ignored; supplied fields
// are combined with AND. Name matches as a case-insensitive substring.
type Filter struct {
	Type        CIType
	Status      string
	Environment string
	Owner       string
	Name        string
}

// Impact is the result of a two-hop impact analysis for one CI.
//
// IndirectDependents contains the dependents of the direct dependents,
// deduplicated by ID and excluding every ID already counted as a direct
// dependent. TotalImpact is len(DirectDependents) + len(IndirectDependents).
type Impact struct {
	CI                 CI        `json:"ci"`
	DirectDependencies []CI      `json:"direct_dependencies"`
	DirectDependents   []CI      `json:"direct_dependents"`
	IndirectDependents []CI      `json:"indirect_dependents"`
	TotalImpact        int       `json:"total_impact"`
	RiskLevel          RiskLevel `json:"risk_level"`
}

// Graph is a directed graph of configuration items. It is immutable after
// construction and safe for concurrent use.
type Graph struct {
	items  map[string]CI
	order  []string // insertion order, for deterministic listing
	logger *slog.Logger
}

// NewGraph builds a graph from the given items. Later duplicates of an ID
// replace earlier ones. A nil logger falls back to slog.Default().
func NewGraph(items []CI, logger *slog.Logger) *Graph {
	if logger == nil {
		logger = slog.Default()
	}

	g := &Graph{
		items:  make(map[string]CI, len(items)),
		order:  make([]string, 0, len(items)),
		logger: logger,
	}
	for _, ci := range items {
		if _, exists := g.items[ci.ID]; !exists {
			g.order = append(g.order, ci.ID)
		}
		g.items[ci.ID] = ci
	}

	logger.Debug("configuration graph built", "items", len(g.items))
	return g
}

// Get returns the CI with the given ID. The second return value reports
// whether it was found.
func (g *Graph) Get(id string) (CI, bool) {
	ci, ok := g.items[id]
	return ci, ok
}

// All returns every CI in insertion order.
func (g *Graph) All() []CI {
	out := make([]CI, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.items[id])
	}
	return out
}

// Len returns the number of CIs in the graph.
func (g *Graph) Len() int {
	return len(g.items)
}

// Search returns all CIs matching the filter, in insertion order.
func (g *Graph) Search(f Filter) []CI {
	var out []CI
	for _, id := range g.order {
		ci := g.items[id]
		if f.Type != "" && ci.Type != f.Type {
			continue
		}
		if f.Status != "" && ci.Status != f.Status {
			continue
		}
		if f.Environment != "" && ci.Environment != f.Environment {
			continue
		}
		if f.Owner != "" && ci.Owner != f.Owner {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(ci.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, ci)
	}

	g.logger.Debug("cmdb search", "results", len(out))
	return out
}

// Dependencies resolves the dependency IDs of the given CI to CI records.
// Dangling references are silently dropped. An unknown ID yields an empty
// slice, not an error.
func (g *Graph) Dependencies(id string) []CI {
	ci, ok := g.items[id]
	if !ok {
		return nil
	}

	var out []CI
	for _, depID := range ci.Dependencies {
		if dep, found := g.items[depID]; found {
			out = append(out, dep)
		}
	}
	return out
}

// Dependents returns every CI whose dependency set contains the given ID,
// in insertion order. This is a linear reverse-edge scan.
func (g *Graph) Dependents(id string) []CI {
	var out []CI
	for _, candidateID := range g.order {
		ci := g.items[candidateID]
		for _, depID := range ci.Dependencies {
			if depID == id {
				out = append(out, ci)
				break
			}
		}
	}
	return out
}

// ImpactAnalysis computes the blast radius of a failure of the given CI.
// The second return value is false when the CI does not exist.
//
// The traversal is deliberately bounded at two hops (dependents of
// dependents); it is not a general reachability computation. Deeper
// cascading impact is out of scope for this model.
func (g *Graph) ImpactAnalysis(id string) (Impact, bool) {
	ci, ok := g.items[id]
	if !ok {
		g.logger.Warn("impact analysis for unknown CI", "ci_id", id)
		return Impact{}, false
	}

	direct := g.Dependents(id)

	seen := make(map[string]bool, len(direct))
	for _, d := range direct {
		seen[d.ID] = true
	}

	var indirect []CI
	for _, d := range direct {
		for _, dd := range g.Dependents(d.ID) {
			if seen[dd.ID] {
				continue
			}
			seen[dd.ID] = true
			indirect = append(indirect, dd)
		}
	}

	total := len(direct) + len(indirect)
	impact := Impact{
		CI:                 ci,
		DirectDependencies: g.Dependencies(id),
		DirectDependents:   direct,
		IndirectDependents: indirect,
		TotalImpact:        total,
		RiskLevel:          riskLevel(total, ci.Environment),
	}

	g.logger.Debug("impact analysis",
		"ci_id", id,
		"total_impact", total,
		"risk_level", impact.RiskLevel,
	)
	return impact, true
}

// riskLevel maps an impact count and environment to a risk classification.
// Production uses stricter thresholds than every other environment.
func riskLevel(impactCount int, environment string) RiskLevel {
	if environment == EnvProduction {
		switch {
		case impactCount >= 5:
			return RiskCritical
		case impactCount >= 3:
			return RiskHigh
		case impactCount >= 1:
			return RiskMedium
		}
		return RiskLow
	}

	switch {
	case impactCount >= 10:
		return RiskHigh
	case impactCount >= 5:
		return RiskMedium
	}
	return RiskLow
}
