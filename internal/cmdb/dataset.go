package cmdb

import "log/slog"

// SampleGraph builds the mock CMDB dataset used when no real CMDB backend is
// configured. The topology mirrors a small production estate: a load balancer
// in front of two servers, applications on top of shared databases.
func SampleGraph(logger *slog.Logger) *Graph {
	return NewGraph(sampleItems(), logger)
}

func sampleItems() []CI {
	return []CI{
		{
			ID:          "SRV-001",
			Type:        TypeServer,
			Name:        "prod-web-01",
			Status:      "Active",
			Environment: EnvProduction,
			Location:    "AWS US-East-1",
			Owner:       "Platform Team",
			Specs: map[string]string{
				"cpu":     "8 cores",
				"memory":  "32 GB",
				"storage": "500 GB SSD",
				"os":      "Ubuntu 22.04 LTS",
			},
			Dependencies: []string{"APP-001", "DB-001"},
		},
		{
			ID:          "SRV-002",
			Type:        TypeServer,
			Name:        "prod-api-01",
			Status:      "Active",
			Environment: EnvProduction,
			Location:    "AWS US-East-1",
			Owner:       "Platform Team",
			Specs: map[string]string{
				"cpu":     "16 cores",
				"memory":  "64 GB",
				"storage": "1 TB SSD",
				"os":      "Ubuntu 22.04 LTS",
			},
			Dependencies: []string{"APP-002", "DB-001"},
		},
		{
			ID:          "SRV-003",
			Type:        TypeServer,
			Name:        "dev-test-01",
			Status:      "Active",
			Environment: "Development",
			Location:    "AWS US-West-2",
			Owner:       "Development Team",
			Specs: map[string]string{
				"cpu":     "4 cores",
				"memory":  "16 GB",
				"storage": "200 GB SSD",
				"os":      "Ubuntu 22.04 LTS",
			},
			Dependencies: []string{"APP-001"},
		},
		{
			ID:          "APP-001",
			Type:        TypeApplication,
			Name:        "Customer Portal",
			Status:      "Active",
			Environment: EnvProduction,
			Owner:       "Product Team",
			Specs: map[string]string{
				"version":    "2.5.1",
				"tech_stack": "React, Node.js, PostgreSQL",
			},
			Dependencies: []string{"DB-001", "API-001"},
		},
		{
			ID:          "APP-002",
			Type:        TypeApplication,
			Name:        "Internal API Gateway",
			Status:      "Active",
			Environment: EnvProduction,
			Owner:       "Platform Team",
			Specs: map[string]string{
				"version":    "3.2.0",
				"tech_stack": "Go, Redis",
			},
			Dependencies: []string{"DB-001", "DB-002"},
		},
		{
			ID:          "DB-001",
			Type:        TypeDatabase,
			Name:        "prod-postgres-primary",
			Status:      "Active",
			Environment: EnvProduction,
			Location:    "AWS RDS US-East-1",
			Owner:       "Database Team",
			Specs: map[string]string{
				"db_type":       "PostgreSQL",
				"version":       "15.3",
				"instance_type": "db.r6g.2xlarge",
				"storage":       "2 TB",
				"backup":        "Daily",
			},
			Dependencies: []string{},
		},
		{
			ID:          "DB-002",
			Type:        TypeDatabase,
			Name:        "redis-cache-cluster",
			Status:      "Active",
			Environment: EnvProduction,
			Location:    "AWS ElastiCache US-East-1",
			Owner:       "Platform Team",
			Specs: map[string]string{
				"db_type":       "Redis",
				"version":       "7.0",
				"instance_type": "cache.r6g.large",
				"nodes":         "3",
			},
			Dependencies: []string{},
		},
		{
			ID:           "NET-001",
			Type:         TypeNetworkDevice,
			Name:         "prod-load-balancer",
			Status:       "Active",
			Environment:  EnvProduction,
			Location:     "AWS US-East-1",
			Owner:        "Network Team",
			Specs:        map[string]string{"device_type": "Application Load Balancer"},
			Dependencies: []string{"SRV-001", "SRV-002"},
		},
	}
}
