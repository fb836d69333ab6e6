package itsm

import (
	"log/slog"
	"time"
)

// SampleRegistry builds the mock ITSM dataset used when no real ticketing
// backend is configured. Timestamps are generated relative to the current
// time so the data always reads as recent activity.
func SampleRegistry(logger *slog.Logger) *Registry {
	now := time.Now()
	return NewRegistry(sampleIncidents(now), sampleChanges(now), logger)
}

func sampleIncidents(now time.Time) []Incident {
	ts := func(d time.Duration) string { return now.Add(d).Format(time.RFC3339) }

	return []Incident{
		{
			ID:              "INC-001",
			Title:           "Customer Portal - Slow Response Time",
			Description:     "Users reporting slow page load times on customer portal",
			Priority:        "P2 - High",
			Status:          StatusInProgress,
			AffectedCI:      "APP-001",
			AssignedTo:      "Platform Team",
			ReportedBy:      "Service Desk",
			CreatedDate:     ts(-2 * time.Hour),
			UpdatedDate:     ts(-15 * time.Minute),
			Category:        "Performance",
			Impact:          "Multiple Users",
			Urgency:         "High",
			ResolutionNotes: "Investigating database query performance",
		},
		{
			ID:              "INC-002",
			Title:           "API Gateway - Connection Timeout",
			Description:     "API Gateway returning 504 timeout errors intermittently",
			Priority:        "P1 - Critical",
			Status:          StatusInProgress,
			AffectedCI:      "APP-002",
			AssignedTo:      "Platform Team",
			ReportedBy:      "Monitoring System",
			CreatedDate:     ts(-1 * time.Hour),
			UpdatedDate:     ts(-5 * time.Minute),
			Category:        "Availability",
			Impact:          "Business Critical",
			Urgency:         "Critical",
			ResolutionNotes: "Identified Redis cache connectivity issue",
		},
		{
			ID:              "INC-003",
			Title:           "Dev Server - Disk Space Warning",
			Description:     "Development server disk usage at 85%",
			Priority:        "P3 - Medium",
			Status:          StatusOpen,
			AffectedCI:      "SRV-003",
			AssignedTo:      "Infrastructure Team",
			ReportedBy:      "Monitoring System",
			CreatedDate:     ts(-6 * time.Hour),
			UpdatedDate:     ts(-6 * time.Hour),
			Category:        "Capacity",
			Impact:          "Single System",
			Urgency:         "Medium",
		},
		{
			ID:              "INC-004",
			Title:           "Database - Slow Query Performance",
			Description:     "PostgreSQL database experiencing slow query performance",
			Priority:        "P2 - High",
			Status:          StatusResolved,
			AffectedCI:      "DB-001",
			AssignedTo:      "Database Team",
			ReportedBy:      "Application Team",
			CreatedDate:     ts(-24 * time.Hour),
			UpdatedDate:     ts(-3 * time.Hour),
			ResolvedDate:    ts(-3 * time.Hour),
			Category:        "Performance",
			Impact:          "Multiple Applications",
			Urgency:         "High",
			ResolutionNotes: "Optimized indexes and updated statistics",
		},
		{
			ID:              "INC-005",
			Title:           "Load Balancer - Health Check Failure",
			Description:     "Load balancer reporting health check failures on prod-web-01",
			Priority:        "P1 - Critical",
			Status:          StatusResolved,
			AffectedCI:      "NET-001",
			AssignedTo:      "Network Team",
			ReportedBy:      "Monitoring System",
			CreatedDate:     ts(-48 * time.Hour),
			UpdatedDate:     ts(-44 * time.Hour),
			ResolvedDate:    ts(-44 * time.Hour),
			Category:        "Availability",
			Impact:          "Business Critical",
			Urgency:         "Critical",
			ResolutionNotes: "Restarted web server service, health checks passing",
		},
	}
}

func sampleChanges(now time.Time) []Change {
	ts := func(d time.Duration) string { return now.Add(d).Format(time.RFC3339) }

	return []Change{
		{
			ID:               "CHG-001",
			Title:            "Upgrade PostgreSQL to 15.4",
			Description:      "Security patch upgrade for production PostgreSQL database",
			Type:             "Standard",
			Priority:         "High",
			Status:           ChangeScheduled,
			AffectedCIs:      []string{"DB-001"},
			RequestedBy:      "Database Team",
			AssignedTo:       "Database Team",
			CreatedDate:      ts(-7 * 24 * time.Hour),
			ScheduledStart:   ts(2 * 24 * time.Hour),
			ScheduledEnd:     ts(2*24*time.Hour + 2*time.Hour),
			ImpactAssessment: "Low - Rolling upgrade with minimal downtime",
			RiskLevel:        "Low",
			RollbackPlan:     "Restore from snapshot if issues occur",
			CABApproval:      "Approved",
			ApprovalDate:     ts(-3 * 24 * time.Hour),
		},
		{
			ID:               "CHG-002",
			Title:            "Deploy Customer Portal v2.6.0",
			Description:      "Deploy new features and bug fixes to customer portal",
			Type:             "Standard",
			Priority:         "Medium",
			Status:           ChangeInProgress,
			AffectedCIs:      []string{"APP-001", "SRV-001"},
			RequestedBy:      "Product Team",
			AssignedTo:       "Platform Team",
			CreatedDate:      ts(-5 * 24 * time.Hour),
			ScheduledStart:   ts(0),
			ScheduledEnd:     ts(1 * time.Hour),
			ImpactAssessment: "Medium - 15 minute maintenance window",
			RiskLevel:        "Medium",
			RollbackPlan:     "Revert to v2.5.1 using blue-green deployment",
			CABApproval:      "Approved",
			ApprovalDate:     ts(-2 * 24 * time.Hour),
		},
		{
			ID:               "CHG-003",
			Title:            "Scale API Gateway Infrastructure",
			Description:      "Add additional instances to handle increased load",
			Type:             "Standard",
			Priority:         "High",
			Status:           ChangePendingApproval,
			AffectedCIs:      []string{"APP-002", "SRV-002"},
			RequestedBy:      "Platform Team",
			AssignedTo:       "Infrastructure Team",
			CreatedDate:      ts(-24 * time.Hour),
			ScheduledStart:   ts(3 * 24 * time.Hour),
			ScheduledEnd:     ts(3*24*time.Hour + 2*time.Hour),
			ImpactAssessment: "Low - Auto-scaling, no downtime expected",
			RiskLevel:        "Low",
			RollbackPlan:     "Reduce instance count if issues arise",
			CABApproval:      "Pending",
		},
		{
			ID:               "CHG-004",
			Title:            "Emergency Patch - Redis Security Update",
			Description:      "Critical security patch for Redis cache cluster",
			Type:             "Emergency",
			Priority:         "Critical",
			Status:           ChangeCompleted,
			AffectedCIs:      []string{"DB-002", "APP-002"},
			RequestedBy:      "Security Team",
			AssignedTo:       "Platform Team",
			CreatedDate:      ts(-3 * 24 * time.Hour),
			ScheduledStart:   ts(-3*24*time.Hour + 1*time.Hour),
			ScheduledEnd:     ts(-3*24*time.Hour + 90*time.Minute),
			CompletedDate:    ts(-3*24*time.Hour + 85*time.Minute),
			ImpactAssessment: "High - Requires cluster restart",
			RiskLevel:        "High",
			RollbackPlan:     "Snapshot available for rollback",
			CABApproval:      "Emergency Approved",
			ApprovalDate:     ts(-3*24*time.Hour + 2*time.Hour),
		},
	}
}
