package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL   PRIMARY KEY,
  email         TEXT        NOT NULL UNIQUE,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "seed_default_user",
		SQL: `INSERT INTO users (id, email, password_hash)
VALUES (1, 'ingest@finflow.local', '')
ON CONFLICT (id) DO NOTHING;`,
	},
	{
		Name: "create_table_vendors",
		SQL: `CREATE TABLE IF NOT EXISTS vendors (
  id       BIGSERIAL PRIMARY KEY,
  name     TEXT      NOT NULL UNIQUE,
  domain   TEXT,
  logo_url TEXT
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id           BIGSERIAL   PRIMARY KEY,
  user_id      BIGINT      NOT NULL REFERENCES users (id),
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  uploaded_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  processed    BOOLEAN     NOT NULL DEFAULT false
);`,
	},
	{
		Name: "create_table_transactions",
		SQL: `CREATE TABLE IF NOT EXISTS transactions (
  id          BIGSERIAL     PRIMARY KEY,
  user_id     BIGINT        NOT NULL REFERENCES users (id),
  vendor_id   BIGINT        REFERENCES vendors (id),
  document_id BIGINT        REFERENCES documents (id),
  tx_date     DATE          NOT NULL,
  amount      NUMERIC(14,2) NOT NULL,
  currency    TEXT          NOT NULL DEFAULT 'USD',
  description TEXT,
  category    TEXT          NOT NULL DEFAULT 'Uncategorized'
);`,
	},
	{
		Name: "create_table_alerts",
		SQL: `CREATE TABLE IF NOT EXISTS alerts (
  id             BIGSERIAL   PRIMARY KEY,
  user_id        BIGINT      NOT NULL REFERENCES users (id),
  transaction_id BIGINT      REFERENCES transactions (id),
  message        TEXT        NOT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_documents_processed",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_processed ON documents (processed, uploaded_at);`,
	},
	{
		Name: "create_index_transactions_document_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_transactions_document_id ON transactions (document_id);`,
	},
	{
		Name: "create_index_transactions_category",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions (category);`,
	},
	{
		Name: "create_index_transactions_tx_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_transactions_tx_date ON transactions (tx_date);`,
	},
}

// EnsureMigrated checks if the 'documents' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.documents') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
