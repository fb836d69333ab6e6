package itsm

import (
	"testing"

	"github.com/opsmind/opsmind/internal/log"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return SampleRegistry(log.NewNop())
}

func TestGetIncident(t *testing.T) {
	r := testRegistry(t)

	inc, ok := r.GetIncident("INC-001")
	if !ok {
		t.Fatal("GetIncident(INC-001) not found")
	}
	if inc.Title != "Customer Portal - Slow Response Time" {
		t.Errorf("unexpected title %q", inc.Title)
	}
	if inc.AffectedCI != "APP-001" {
		t.Errorf("AffectedCI = %q, want APP-001", inc.AffectedCI)
	}

	if _, ok := r.GetIncident("INC-999"); ok {
		t.Error("GetIncident(INC-999) should report not found")
	}
}

func TestGetChange(t *testing.T) {
	r := testRegistry(t)

	chg, ok := r.GetChange("CHG-004")
	if !ok {
		t.Fatal("GetChange(CHG-004) not found")
	}
	if chg.Type != "Emergency" {
		t.Errorf("Type = %q, want Emergency", chg.Type)
	}
	if chg.CompletedDate == "" {
		t.Error("completed change should carry a completed date")
	}

	if _, ok := r.GetChange("CHG-999"); ok {
		t.Error("GetChange(CHG-999) should report not found")
	}
}

func TestSearchIncidents(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name   string
		filter IncidentFilter
		want   []string
	}{
		{"by status", IncidentFilter{Status: StatusResolved}, []string{"INC-004", "INC-005"}},
		{"by priority", IncidentFilter{Priority: "P1 - Critical"}, []string{"INC-002", "INC-005"}},
		{"by category and status", IncidentFilter{Category: "Performance", Status: StatusInProgress}, []string{"INC-001"}},
		{"by assignee", IncidentFilter{AssignedTo: "Platform Team"}, []string{"INC-001", "INC-002"}},
		{"no filters returns all", IncidentFilter{}, []string{"INC-001", "INC-002", "INC-003", "INC-004", "INC-005"}},
		{"no match", IncidentFilter{Priority: "P4 - Low"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := incidentIDs(r.SearchIncidents(tt.filter))
			assertIDs(t, got, tt.want)
		})
	}
}

func TestSearchChanges(t *testing.T) {
	r := testRegistry(t)

	tests := []struct {
		name   string
		filter ChangeFilter
		want   []string
	}{
		{"by type", ChangeFilter{Type: "Emergency"}, []string{"CHG-004"}},
		{"by affected ci membership", ChangeFilter{AffectedCI: "APP-002"}, []string{"CHG-003", "CHG-004"}},
		{"by status and priority", ChangeFilter{Status: ChangeScheduled, Priority: "High"}, []string{"CHG-001"}},
		{"no match", ChangeFilter{Type: "Normal"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := changeIDs(r.SearchChanges(tt.filter))
			assertIDs(t, got, tt.want)
		})
	}
}

func TestOpenIncidents(t *testing.T) {
	r := testRegistry(t)

	// Open first, then In Progress.
	got := incidentIDs(r.OpenIncidents())
	assertIDs(t, got, []string{"INC-003", "INC-001", "INC-002"})
}

func TestUpcomingChanges(t *testing.T) {
	r := testRegistry(t)

	// Scheduled first, then In Progress.
	got := changeIDs(r.UpcomingChanges())
	assertIDs(t, got, []string{"CHG-001", "CHG-002"})
}

func TestTicketsForCI(t *testing.T) {
	r := testRegistry(t)

	assertIDs(t, incidentIDs(r.IncidentsForCI("APP-002")), []string{"INC-002"})
	assertIDs(t, changeIDs(r.ChangesForCI("SRV-001")), []string{"CHG-002"})
	assertIDs(t, incidentIDs(r.IncidentsForCI("DB-002")), nil)
}

func assertIDs(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("result[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func incidentIDs(incs []Incident) []string {
	out := make([]string, 0, len(incs))
	for _, inc := range incs {
		out = append(out, inc.ID)
	}
	return out
}

func changeIDs(chgs []Change) []string {
	out := make([]string, 0, len(chgs))
	for _, chg := range chgs {
		out = append(out, chg.ID)
	}
	return out
}
