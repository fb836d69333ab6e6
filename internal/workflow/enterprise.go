package workflow

import (
	"log/slog"
	"strings"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
)

// Keyword groups for the enrichment heuristic. Matching is a lower-cased
// substring test, deliberately crude: false positives and negatives are
// accepted in exchange for zero classification latency.
var (
	enterpriseKeywords = []string{
		"incident", "outage", "down", "issue", "problem", "server",
		"ci", "configuration", "change", "ticket", "status",
		"affected", "impact", "dependency",
	}

	incidentKeywords = []string{"incident", "issue", "outage", "down", "problem"}
	ciKeywords       = []string{"server", "ci", "configuration", "system"}
	changeKeywords   = []string{"change", "maintenance", "scheduled"}
)

// maxContextCIs bounds the configuration-item block so the generation prompt
// stays a reasonable size.
const maxContextCIs = 5

// Enterprise decides from question text which operational systems to query
// and renders their records into a labeled context block for synthesis.
type Enterprise struct {
	graph    *cmdb.Graph
	registry *itsm.Registry
	logger   *slog.Logger
}

// NewEnterprise creates an enrichment stage over the CMDB graph and ITSM
// registry.
func NewEnterprise(graph *cmdb.Graph, registry *itsm.Registry, logger *slog.Logger) *Enterprise {
	return &Enterprise{graph: graph, registry: registry, logger: logger}
}

// ShouldUse reports whether the question looks operational enough to warrant
// querying the enterprise systems.
func (e *Enterprise) ShouldUse(question string) bool {
	return containsAny(strings.ToLower(question), enterpriseKeywords)
}

// BuildContext queries each enterprise system whose keyword group matches
// the question and joins the resulting labeled blocks. The second return is
// false when no group matched or every matched query came back empty.
func (e *Enterprise) BuildContext(question string) (string, bool) {
	lower := strings.ToLower(question)
	var blocks []string

	if containsAny(lower, incidentKeywords) {
		if incidents := e.registry.OpenIncidents(); len(incidents) > 0 {
			blocks = append(blocks, formatIncidentBlock(incidents))
		}
	}
	if containsAny(lower, ciKeywords) {
		cis := e.graph.All()
		if len(cis) > maxContextCIs {
			cis = cis[:maxContextCIs]
		}
		if len(cis) > 0 {
			blocks = append(blocks, formatCIBlock(cis))
		}
	}
	if containsAny(lower, changeKeywords) {
		if changes := e.registry.UpcomingChanges(); len(changes) > 0 {
			blocks = append(blocks, formatChangeBlock(changes))
		}
	}

	if len(blocks) == 0 {
		return "", false
	}
	e.logger.Debug("built enterprise context", "blocks", len(blocks))
	return strings.Join(blocks, "\n\n"), true
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func formatIncidentBlock(incidents []itsm.Incident) string {
	var b strings.Builder
	b.WriteString("Open Incidents:\n")
	for i, inc := range incidents {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatIncident(inc))
	}
	return b.String()
}

func formatCIBlock(cis []cmdb.CI) string {
	var b strings.Builder
	b.WriteString("Configuration Items:\n")
	for i, ci := range cis {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatCI(ci))
	}
	return b.String()
}

func formatChangeBlock(changes []itsm.Change) string {
	var b strings.Builder
	b.WriteString("Upcoming Changes:\n")
	for i, chg := range changes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatChange(chg))
	}
	return b.String()
}
