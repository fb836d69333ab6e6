// Package api provides the JSON REST API server for OpsMind.
//
// # Architecture
//
// The server uses Go 1.22+ routing with a layered middleware stack:
//
//	Recovery > RequestID > Logging > CORS > RateLimit > Routes
//
// Health probes (/health, /ready) bypass the middleware stack via a
// top-level mux, ensuring they remain fast and unauthenticated.
//
// # Endpoints
//
// Health probes (no middleware):
//   - GET /health: returns {"status":"ok"}
//   - GET /ready: 200 once the orchestrator is initialized, 503 before
//
// Query:
//   - POST /api/v1/query: run the question answering pipeline
//
// Enterprise CMDB:
//   - GET  /api/v1/enterprise/cmdb/ci/{id}
//   - GET  /api/v1/enterprise/cmdb/ci/{id}/dependencies
//   - GET  /api/v1/enterprise/cmdb/ci/{id}/dependents
//   - GET  /api/v1/enterprise/cmdb/ci/{id}/impact
//   - GET  /api/v1/enterprise/cmdb/all
//   - POST /api/v1/enterprise/cmdb/search
//
// Enterprise ITSM:
//   - GET  /api/v1/enterprise/itsm/incident/{id}
//   - POST /api/v1/enterprise/itsm/incidents/search
//   - GET  /api/v1/enterprise/itsm/incidents/open
//   - GET  /api/v1/enterprise/itsm/change/{id}
//   - POST /api/v1/enterprise/itsm/changes/search
//   - GET  /api/v1/enterprise/itsm/changes/upcoming
//   - GET  /api/v1/enterprise/itsm/ci/{id}/incidents
//   - GET  /api/v1/enterprise/itsm/ci/{id}/changes
//
// # Response format
//
// Enterprise endpoints use an envelope: {"success": true, "count": N,
// "data": <payload>}. The query endpoint returns the pipeline result
// directly. Errors always use {"error": {"code": "...", "message": "..."}}.
//
// # Security
//
// The middleware stack enforces per-IP rate limiting (token bucket), CORS
// with an explicit origin allowlist, and standard security headers. There is
// no authentication layer; the server is meant to sit behind a gateway.
package api
