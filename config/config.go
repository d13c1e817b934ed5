package config

import (
	"github.com/appclacks/slo-dashboard/internal/database"
	"github.com/appclacks/slo-dashboard/internal/http"
	"github.com/appclacks/slo-dashboard/internal/localstore"
	"github.com/appclacks/slo-dashboard/internal/memory"
	"github.com/appclacks/slo-dashboard/internal/tracing"
)

const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendStore    = "store"
	BackendSQLite   = "sqlite"
)

type Store struct {
	Backend string `validate:"omitempty,oneof=memory postgres"`
}

type Drafts struct {
	// Backend "store" keeps drafts next to the SLOs, "sqlite" in a local file.
	Backend string
	Key     string
	SQLite  localstore.Configuration
}

type Dashboard struct {
	Interval string
}

type Configuration struct {
	HTTP      http.Configuration
	Store     Store
	Database  database.Configuration
	Memory    memory.Configuration
	Drafts    Drafts
	Dashboard Dashboard
	Tracing   tracing.Configuration
}
