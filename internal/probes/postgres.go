package probes

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	// Registers the pgx database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/nholik/pulsecheck/internal/health"
	"github.com/nholik/pulsecheck/internal/probe"
)

type postgresProbe struct {
	name string
	dsn  string
}

// NewPostgres probes a PostgreSQL server. The connection is opened per check
// so the probe holds no resources between passes. Failing to connect is
// Unhealthy; connecting but failing the version query is only Degraded.
func NewPostgres(name, dsn string) probe.Probe {
	return &postgresProbe{name: name, dsn: dsn}
}

func (p *postgresProbe) Name() string {
	return p.name
}

func (p *postgresProbe) Check(ctx context.Context) health.Result {
	db, err := sql.Open("pgx", p.dsn)
	if err != nil {
		return health.Unhealthy("invalid connection string", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return health.Unhealthy("connection failed", err)
	}

	var version string
	if err := db.QueryRowContext(ctx, "SELECT version()").Scan(&version); err != nil {
		return health.Degraded("connected but query failed", err)
	}

	return health.Healthy(fmt.Sprintf("connected - %s", shortVersion(version)))
}

// shortVersion keeps the product name and number from a version() reply,
// e.g. "PostgreSQL 16.2" out of the full build string.
func shortVersion(version string) string {
	fields := strings.Fields(version)
	if len(fields) >= 2 {
		return fields[0] + " " + fields[1]
	}
	return version
}
