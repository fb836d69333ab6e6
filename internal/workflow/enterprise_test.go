package workflow

import (
	"strings"
	"testing"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
	"github.com/opsmind/opsmind/internal/log"
)

func testEnterprise(t *testing.T) *Enterprise {
	t.Helper()
	logger := log.NewNop()
	return NewEnterprise(cmdb.SampleGraph(logger), itsm.SampleRegistry(logger), logger)
}

func TestShouldUse(t *testing.T) {
	e := testEnterprise(t)

	tests := []struct {
		question string
		want     bool
	}{
		{"What incidents are currently open?", true},
		{"Is the API gateway DOWN?", true},
		{"any scheduled changes this week?", true},
		{"What is the impact of DB-001 failing?", true},
		{"How do I write a for loop in Go?", false},
		{"", false},
		// "ci" matches inside "specific", an accepted false positive.
		{"Can you be more specific?", true},
	}

	for _, tt := range tests {
		if got := e.ShouldUse(tt.question); got != tt.want {
			t.Errorf("ShouldUse(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}

func TestBuildContextIncidents(t *testing.T) {
	e := testEnterprise(t)

	ctx, ok := e.BuildContext("What incidents are currently open?")
	if !ok {
		t.Fatal("expected context for incident question")
	}
	if !strings.Contains(ctx, "Open Incidents:") {
		t.Error("missing Open Incidents label")
	}
	if !strings.Contains(ctx, "INC-003") || !strings.Contains(ctx, "INC-001") {
		t.Error("open incidents missing from context")
	}
	if strings.Contains(ctx, "INC-004") {
		t.Error("resolved incident should not appear")
	}
	if strings.Contains(ctx, "Upcoming Changes:") {
		t.Error("changes block should not match an incident-only question")
	}
}

func TestBuildContextCITruncation(t *testing.T) {
	e := testEnterprise(t)

	ctx, ok := e.BuildContext("list all server configurations")
	if !ok {
		t.Fatal("expected context for CI question")
	}
	if !strings.Contains(ctx, "Configuration Items:") {
		t.Error("missing Configuration Items label")
	}
	if got := strings.Count(ctx, "Configuration Item: "); got != maxContextCIs {
		t.Errorf("CI block has %d items, want %d", got, maxContextCIs)
	}
}

func TestBuildContextChanges(t *testing.T) {
	e := testEnterprise(t)

	ctx, ok := e.BuildContext("any maintenance scheduled?")
	if !ok {
		t.Fatal("expected context for change question")
	}
	if !strings.Contains(ctx, "Upcoming Changes:") {
		t.Error("missing Upcoming Changes label")
	}
	if !strings.Contains(ctx, "CHG-001") || !strings.Contains(ctx, "CHG-002") {
		t.Error("upcoming changes missing from context")
	}
	if strings.Contains(ctx, "CHG-004") {
		t.Error("completed change should not appear")
	}
}

func TestBuildContextMultipleGroups(t *testing.T) {
	e := testEnterprise(t)

	ctx, ok := e.BuildContext("Is the incident on the server related to a scheduled change?")
	if !ok {
		t.Fatal("expected context")
	}

	// Fixed group order: incidents, CIs, changes.
	incIdx := strings.Index(ctx, "Open Incidents:")
	ciIdx := strings.Index(ctx, "Configuration Items:")
	chgIdx := strings.Index(ctx, "Upcoming Changes:")
	if incIdx < 0 || ciIdx < 0 || chgIdx < 0 {
		t.Fatalf("missing blocks: inc=%d ci=%d chg=%d", incIdx, ciIdx, chgIdx)
	}
	if !(incIdx < ciIdx && ciIdx < chgIdx) {
		t.Errorf("blocks out of order: inc=%d ci=%d chg=%d", incIdx, ciIdx, chgIdx)
	}
	if !strings.Contains(ctx, "\n\n") {
		t.Error("blocks should be blank-line separated")
	}
}

func TestBuildContextNoMatch(t *testing.T) {
	e := testEnterprise(t)

	if ctx, ok := e.BuildContext("how do I bake bread?"); ok {
		t.Errorf("expected no context, got %q", ctx)
	}
}

func TestBuildContextMatchedButEmpty(t *testing.T) {
	logger := log.NewNop()
	empty := NewEnterprise(
		cmdb.NewGraph(nil, logger),
		itsm.NewRegistry(nil, nil, logger),
		logger,
	)

	if ctx, ok := empty.BuildContext("any open incidents?"); ok {
		t.Errorf("matched group with no data should yield no context, got %q", ctx)
	}
}
