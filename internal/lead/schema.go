// internal/lead/schema.go
//
// DDL for the lead tables.  MySQL is the production target; SQLite (via the
// pure-Go modernc driver) backs development and single-node installs.  Both
// dialects accept `?` placeholders, so only the DDL differs.
package lead

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var mysqlDDL = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id            CHAR(36)     NOT NULL PRIMARY KEY,
		lead_type     ENUM('consumer','domain','business') NOT NULL,
		domain        VARCHAR(255) NOT NULL,
		email         VARCHAR(255) NOT NULL,
		first_name    VARCHAR(100) NOT NULL DEFAULT '',
		last_name     VARCHAR(100) NOT NULL DEFAULT '',
		phone         VARCHAR(50)  NOT NULL DEFAULT '',
		company       VARCHAR(255) NOT NULL DEFAULT '',
		message       TEXT         NOT NULL,
		metadata      JSON         NULL,
		ip_address    VARCHAR(64)  NOT NULL DEFAULT '',
		user_agent    TEXT         NOT NULL,
		referrer      TEXT         NOT NULL,
		utm_source    VARCHAR(100) NOT NULL DEFAULT '',
		utm_medium    VARCHAR(100) NOT NULL DEFAULT '',
		utm_campaign  VARCHAR(100) NOT NULL DEFAULT '',
		status        ENUM('new','contacted','qualified','converted','archived') NOT NULL DEFAULT 'new',
		notes         TEXT         NOT NULL,
		created_at    DATETIME(6)  NOT NULL,
		updated_at    DATETIME(6)  NOT NULL,
		KEY idx_leads_domain (domain),
		KEY idx_leads_created (created_at)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS lead_interactions (
		id                CHAR(36)     NOT NULL PRIMARY KEY,
		lead_id           CHAR(36)     NOT NULL,
		interaction_type  VARCHAR(50)  NOT NULL,
		notes             TEXT         NOT NULL,
		created_by        VARCHAR(100) NOT NULL DEFAULT '',
		created_at        DATETIME(6)  NOT NULL,
		CONSTRAINT fk_interaction_lead FOREIGN KEY (lead_id) REFERENCES leads(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

var sqliteDDL = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id            TEXT NOT NULL PRIMARY KEY,
		lead_type     TEXT NOT NULL CHECK (lead_type IN ('consumer','domain','business')),
		domain        TEXT NOT NULL,
		email         TEXT NOT NULL,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		phone         TEXT NOT NULL DEFAULT '',
		company       TEXT NOT NULL DEFAULT '',
		message       TEXT NOT NULL DEFAULT '',
		metadata      TEXT,
		ip_address    TEXT NOT NULL DEFAULT '',
		user_agent    TEXT NOT NULL DEFAULT '',
		referrer      TEXT NOT NULL DEFAULT '',
		utm_source    TEXT NOT NULL DEFAULT '',
		utm_medium    TEXT NOT NULL DEFAULT '',
		utm_campaign  TEXT NOT NULL DEFAULT '',
		status        TEXT NOT NULL DEFAULT 'new',
		notes         TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMP NOT NULL,
		updated_at    TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_domain ON leads (domain)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created ON leads (created_at)`,
	`CREATE TABLE IF NOT EXISTS lead_interactions (
		id                TEXT NOT NULL PRIMARY KEY,
		lead_id           TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		interaction_type  TEXT NOT NULL,
		notes             TEXT NOT NULL DEFAULT '',
		created_by        TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMP NOT NULL
	)`,
}

// Migrate creates the lead tables when they do not exist.  The dialect is
// taken from the sqlx driver name.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	var stmts []string
	switch db.DriverName() {
	case "mysql":
		stmts = mysqlDDL
	case "sqlite":
		stmts = sqliteDDL
	default:
		return fmt.Errorf("lead migrate: unsupported driver %q", db.DriverName())
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("lead migrate: %w", err)
		}
	}
	zap.L().Info("lead schema ready", zap.String("driver", db.DriverName()))
	return nil
}
