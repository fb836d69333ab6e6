package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
)

// cmdbHandler serves the configuration management endpoints.
type cmdbHandler struct {
	graph  *cmdb.Graph
	logger *slog.Logger
}

// cmdbSearchRequest is the body of POST /api/v1/enterprise/cmdb/search.
// All fields are optional; set fields are combined with AND.
type cmdbSearchRequest struct {
	CIType      string `json:"ci_type"`
	Status      string `json:"status"`
	Environment string `json:"environment"`
	Owner       string `json:"owner"`
	Name        string `json:"name"`
}

// getCI handles GET /api/v1/enterprise/cmdb/ci/{id}.
func (h *cmdbHandler) getCI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	ci, ok := h.graph.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "ci_not_found", "configuration item not found: "+id, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: ci}, h.logger)
}

// listCIs handles GET /api/v1/enterprise/cmdb/all.
func (h *cmdbHandler) listCIs(w http.ResponseWriter, _ *http.Request) {
	items := h.graph.All()
	writeListEnvelope(w, "", len(items), items, h.logger)
}

// searchCIs handles POST /api/v1/enterprise/cmdb/search.
func (h *cmdbHandler) searchCIs(w http.ResponseWriter, r *http.Request) {
	var req cmdbSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", h.logger)
		return
	}

	results := h.graph.Search(cmdb.Filter{
		Type:        cmdb.CIType(req.CIType),
		Status:      req.Status,
		Environment: req.Environment,
		Owner:       req.Owner,
		Name:        req.Name,
	})
	writeListEnvelope(w, "", len(results), results, h.logger)
}

// dependencies handles GET /api/v1/enterprise/cmdb/ci/{id}/dependencies.
func (h *cmdbHandler) dependencies(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.graph.Get(id); !ok {
		writeError(w, http.StatusNotFound, "ci_not_found", "configuration item not found: "+id, h.logger)
		return
	}
	deps := h.graph.Dependencies(id)
	writeListEnvelope(w, id, len(deps), deps, h.logger)
}

// dependents handles GET /api/v1/enterprise/cmdb/ci/{id}/dependents.
func (h *cmdbHandler) dependents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := h.graph.Get(id); !ok {
		writeError(w, http.StatusNotFound, "ci_not_found", "configuration item not found: "+id, h.logger)
		return
	}
	deps := h.graph.Dependents(id)
	writeListEnvelope(w, id, len(deps), deps, h.logger)
}

// impact handles GET /api/v1/enterprise/cmdb/ci/{id}/impact.
func (h *cmdbHandler) impact(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	analysis, ok := h.graph.ImpactAnalysis(id)
	if !ok {
		writeError(w, http.StatusNotFound, "ci_not_found", "configuration item not found: "+id, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: analysis}, h.logger)
}

// itsmHandler serves the incident and change management endpoints.
type itsmHandler struct {
	registry *itsm.Registry
	logger   *slog.Logger
}

// incidentSearchRequest is the body of POST /api/v1/enterprise/itsm/incidents/search.
type incidentSearchRequest struct {
	Priority   string `json:"priority"`
	Status     string `json:"status"`
	AffectedCI string `json:"affected_ci"`
	AssignedTo string `json:"assigned_to"`
	Category   string `json:"category"`
}

// changeSearchRequest is the body of POST /api/v1/enterprise/itsm/changes/search.
type changeSearchRequest struct {
	ChangeType string `json:"change_type"`
	Status     string `json:"status"`
	Priority   string `json:"priority"`
	AffectedCI string `json:"affected_ci"`
}

// getIncident handles GET /api/v1/enterprise/itsm/incident/{id}.
func (h *itsmHandler) getIncident(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	incident, ok := h.registry.GetIncident(id)
	if !ok {
		writeError(w, http.StatusNotFound, "incident_not_found", "incident not found: "+id, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: incident}, h.logger)
}

// searchIncidents handles POST /api/v1/enterprise/itsm/incidents/search.
func (h *itsmHandler) searchIncidents(w http.ResponseWriter, r *http.Request) {
	var req incidentSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", h.logger)
		return
	}

	results := h.registry.SearchIncidents(itsm.IncidentFilter{
		Priority:   req.Priority,
		Status:     req.Status,
		AffectedCI: req.AffectedCI,
		AssignedTo: req.AssignedTo,
		Category:   req.Category,
	})
	writeListEnvelope(w, "", len(results), results, h.logger)
}

// openIncidents handles GET /api/v1/enterprise/itsm/incidents/open.
func (h *itsmHandler) openIncidents(w http.ResponseWriter, _ *http.Request) {
	incidents := h.registry.OpenIncidents()
	writeListEnvelope(w, "", len(incidents), incidents, h.logger)
}

// getChange handles GET /api/v1/enterprise/itsm/change/{id}.
func (h *itsmHandler) getChange(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	change, ok := h.registry.GetChange(id)
	if !ok {
		writeError(w, http.StatusNotFound, "change_not_found", "change request not found: "+id, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: change}, h.logger)
}

// searchChanges handles POST /api/v1/enterprise/itsm/changes/search.
func (h *itsmHandler) searchChanges(w http.ResponseWriter, r *http.Request) {
	var req changeSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", h.logger)
		return
	}

	results := h.registry.SearchChanges(itsm.ChangeFilter{
		Type:       req.ChangeType,
		Status:     req.Status,
		Priority:   req.Priority,
		AffectedCI: req.AffectedCI,
	})
	writeListEnvelope(w, "", len(results), results, h.logger)
}

// upcomingChanges handles GET /api/v1/enterprise/itsm/changes/upcoming.
func (h *itsmHandler) upcomingChanges(w http.ResponseWriter, _ *http.Request) {
	changes := h.registry.UpcomingChanges()
	writeListEnvelope(w, "", len(changes), changes, h.logger)
}

// incidentsForCI handles GET /api/v1/enterprise/itsm/ci/{id}/incidents.
func (h *itsmHandler) incidentsForCI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	incidents := h.registry.IncidentsForCI(id)
	writeListEnvelope(w, id, len(incidents), incidents, h.logger)
}

// changesForCI handles GET /api/v1/enterprise/itsm/ci/{id}/changes.
func (h *itsmHandler) changesForCI(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	changes := h.registry.ChangesForCI(id)
	writeListEnvelope(w, id, len(changes), changes, h.logger)
}
