// Package itsm provides an in-memory IT service management registry holding
// incidents and change requests. Like the cmdb package it stands in for a
// real ServiceNow-style backend, exposing the lookup and search operations
// the workflow enrichment stage and HTTP API need.
package itsm

import "log/slog"

// Incident statuses.
const (
	StatusOpen       = "Open"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
)

// Change statuses.
const (
	ChangeScheduled       = "Scheduled"
	ChangeInProgress      = "In Progress"
	ChangePendingApproval = "Pending Approval"
	ChangeCompleted       = "Completed"
)

// Incident is a single service incident ticket.
type Incident struct {
	ID              string `json:"incident_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Priority        string `json:"priority"`
	Status          string `json:"status"`
	AffectedCI      string `json:"affected_ci"`
	AssignedTo      string `json:"assigned_to"`
	ReportedBy      string `json:"reported_by"`
	CreatedDate     string `json:"created_date"`
	UpdatedDate     string `json:"updated_date"`
	ResolvedDate    string `json:"resolved_date,omitempty"`
	Category        string `json:"category"`
	Impact          string `json:"impact"`
	Urgency         string `json:"urgency"`
	ResolutionNotes string `json:"resolution_notes"`
}

// Change is a change request ticket.
type Change struct {
	ID               string   `json:"change_id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Type             string   `json:"type"`
	Priority         string   `json:"priority"`
	Status           string   `json:"status"`
	AffectedCIs      []string `json:"affected_cis"`
	RequestedBy      string   `json:"requested_by"`
	AssignedTo       string   `json:"assigned_to"`
	CreatedDate      string   `json:"created_date"`
	ScheduledStart   string   `json:"scheduled_start"`
	ScheduledEnd     string   `json:"scheduled_end"`
	CompletedDate    string   `json:"completed_date,omitempty"`
	ImpactAssessment string   `json:"impact_assessment"`
	RiskLevel        string   `json:"risk_level"`
	RollbackPlan     string   `json:"rollback_plan"`
	CABApproval      string   `json:"cab_approval"`
	ApprovalDate     string   `json:"approval_date,omitempty"`
}

// IncidentFilter holds search criteria for incidents. Zero-value fields are
// ignored; set fields are combined with AND. String matches are exact.
type IncidentFilter struct {
	Priority   string
	Status     string
	AffectedCI string
	AssignedTo string
	Category   string
}

// ChangeFilter holds search criteria for change requests.
type ChangeFilter struct {
	Type       string
	Status     string
	Priority   string
	AffectedCI string
}

// Registry is an immutable collection of incidents and changes. Lookups are
// O(1) by ID; searches scan in insertion order so results are deterministic.
type Registry struct {
	incidents     map[string]Incident
	changes       map[string]Change
	incidentOrder []string
	changeOrder   []string
	logger        *slog.Logger
}

// NewRegistry builds a registry from the given tickets. Insertion order of
// the slices determines search result order.
func NewRegistry(incidents []Incident, changes []Change, logger *slog.Logger) *Registry {
	r := &Registry{
		incidents:     make(map[string]Incident, len(incidents)),
		changes:       make(map[string]Change, len(changes)),
		incidentOrder: make([]string, 0, len(incidents)),
		changeOrder:   make([]string, 0, len(changes)),
		logger:        logger,
	}
	for _, inc := range incidents {
		if _, dup := r.incidents[inc.ID]; !dup {
			r.incidentOrder = append(r.incidentOrder, inc.ID)
		}
		r.incidents[inc.ID] = inc
	}
	for _, chg := range changes {
		if _, dup := r.changes[chg.ID]; !dup {
			r.changeOrder = append(r.changeOrder, chg.ID)
		}
		r.changes[chg.ID] = chg
	}
	logger.Info("itsm registry initialized",
		"incidents", len(r.incidents),
		"changes", len(r.changes))
	return r
}

// GetIncident returns the incident with the given ID.
func (r *Registry) GetIncident(id string) (Incident, bool) {
	inc, ok := r.incidents[id]
	if !ok {
		r.logger.Warn("incident not found", "incident_id", id)
	}
	return inc, ok
}

// GetChange returns the change request with the given ID.
func (r *Registry) GetChange(id string) (Change, bool) {
	chg, ok := r.changes[id]
	if !ok {
		r.logger.Warn("change not found", "change_id", id)
	}
	return chg, ok
}

// SearchIncidents returns incidents matching every set filter field.
func (r *Registry) SearchIncidents(f IncidentFilter) []Incident {
	var out []Incident
	for _, id := range r.incidentOrder {
		inc := r.incidents[id]
		if f.Priority != "" && inc.Priority != f.Priority {
			continue
		}
		if f.Status != "" && inc.Status != f.Status {
			continue
		}
		if f.AffectedCI != "" && inc.AffectedCI != f.AffectedCI {
			continue
		}
		if f.AssignedTo != "" && inc.AssignedTo != f.AssignedTo {
			continue
		}
		if f.Category != "" && inc.Category != f.Category {
			continue
		}
		out = append(out, inc)
	}
	r.logger.Debug("incident search", "results", len(out))
	return out
}

// SearchChanges returns change requests matching every set filter field.
// AffectedCI matches membership in the change's affected CI list.
func (r *Registry) SearchChanges(f ChangeFilter) []Change {
	var out []Change
	for _, id := range r.changeOrder {
		chg := r.changes[id]
		if f.Type != "" && chg.Type != f.Type {
			continue
		}
		if f.Status != "" && chg.Status != f.Status {
			continue
		}
		if f.Priority != "" && chg.Priority != f.Priority {
			continue
		}
		if f.AffectedCI != "" && !containsCI(chg.AffectedCIs, f.AffectedCI) {
			continue
		}
		out = append(out, chg)
	}
	r.logger.Debug("change search", "results", len(out))
	return out
}

// OpenIncidents returns incidents that still need attention: first those
// with status Open, then those In Progress.
func (r *Registry) OpenIncidents() []Incident {
	open := r.SearchIncidents(IncidentFilter{Status: StatusOpen})
	return append(open, r.SearchIncidents(IncidentFilter{Status: StatusInProgress})...)
}

// UpcomingChanges returns changes that are scheduled or currently executing,
// in that order.
func (r *Registry) UpcomingChanges() []Change {
	upcoming := r.SearchChanges(ChangeFilter{Status: ChangeScheduled})
	return append(upcoming, r.SearchChanges(ChangeFilter{Status: ChangeInProgress})...)
}

// IncidentsForCI returns all incidents whose affected CI matches ciID.
func (r *Registry) IncidentsForCI(ciID string) []Incident {
	return r.SearchIncidents(IncidentFilter{AffectedCI: ciID})
}

// ChangesForCI returns all changes listing ciID among their affected CIs.
func (r *Registry) ChangesForCI(ciID string) []Change {
	return r.SearchChanges(ChangeFilter{AffectedCI: ciID})
}

func containsCI(cis []string, id string) bool {
	for _, ci := range cis {
		if ci == id {
			return true
		}
	}
	return false
}
