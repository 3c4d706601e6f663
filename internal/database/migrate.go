package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migrate creates the schema if it does not exist. DDL is kept portable
// across the supported drivers; only the auto-increment primary key clause
// differs.
func Migrate(db *sqlx.DB) error {
	pk := pkClause(db.DriverName())

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS workers (
			id %s,
			login VARCHAR(100) NOT NULL UNIQUE,
			name VARCHAR(200) NOT NULL DEFAULT '',
			password_hash VARCHAR(200) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'worker',
			hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 10,
			refresh_token VARCHAR(500) NOT NULL DEFAULT '',
			refresh_token_expiry TIMESTAMP NULL,
			create_time TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS tickets (
			id %s,
			brand VARCHAR(100) NOT NULL,
			model VARCHAR(100) NOT NULL,
			registration_id VARCHAR(50) NOT NULL,
			description TEXT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'Created',
			total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			create_time TIMESTAMP NOT NULL,
			change_time TIMESTAMP NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS parts (
			id %s,
			ticket_id BIGINT NOT NULL,
			name VARCHAR(200) NOT NULL,
			price DOUBLE PRECISION NOT NULL,
			quantity DOUBLE PRECISION NOT NULL,
			total_price DOUBLE PRECISION NOT NULL
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS time_slots (
			id %s,
			ticket_id BIGINT NOT NULL,
			worker_id BIGINT NOT NULL,
			start_time TIMESTAMP NOT NULL,
			end_time TIMESTAMP NOT NULL
		)`, pk),
		`CREATE TABLE IF NOT EXISTS ticket_workers (
			ticket_id BIGINT NOT NULL,
			worker_id BIGINT NOT NULL,
			PRIMARY KEY (ticket_id, worker_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_ticket ON parts (ticket_id)`,
		`CREATE INDEX IF NOT EXISTS idx_slots_ticket ON time_slots (ticket_id)`,
		`CREATE INDEX IF NOT EXISTS idx_slots_worker ON time_slots (worker_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

func pkClause(driver string) string {
	switch driver {
	case "mysql":
		return "BIGINT AUTO_INCREMENT PRIMARY KEY"
	case "sqlite3":
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	default: // postgres
		return "BIGSERIAL PRIMARY KEY"
	}
}
