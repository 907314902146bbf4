package database

import (
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered, embedded schema history. New schema changes are
// appended with the next version number; applied versions are never edited.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_memos",
		SQL: `
			CREATE TABLE IF NOT EXISTS memos (
				id TEXT PRIMARY KEY,
				status TEXT NOT NULL,
				priority TEXT NOT NULL DEFAULT 'NORMAL',
				version INTEGER NOT NULL DEFAULT 1,
				title TEXT NOT NULL,
				body TEXT NOT NULL DEFAULT '',
				recipients TEXT NOT NULL DEFAULT '',
				department TEXT NOT NULL DEFAULT '',
				issued_at DATETIME NOT NULL,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_memos_status ON memos(status);
		`,
	},
	{
		Version: 2,
		Name:    "create_workflow_history",
		SQL: `
			CREATE TABLE IF NOT EXISTS workflow_history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				memo_id TEXT NOT NULL REFERENCES memos(id),
				sequence_number INTEGER NOT NULL,
				actor_id TEXT NOT NULL DEFAULT '',
				actor_role TEXT NOT NULL DEFAULT '',
				action TEXT NOT NULL DEFAULT '',
				comment TEXT NOT NULL DEFAULT '',
				timestamp_utc DATETIME NOT NULL,
				resulting_status TEXT NOT NULL,
				UNIQUE(memo_id, sequence_number)
			);
			CREATE INDEX IF NOT EXISTS idx_workflow_history_memo ON workflow_history(memo_id);
		`,
	},
	{
		Version: 3,
		Name:    "create_status_notifications",
		SQL: `
			CREATE TABLE IF NOT EXISTS status_notifications (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				memo_id TEXT NOT NULL REFERENCES memos(id),
				recipient TEXT NOT NULL DEFAULT '',
				new_status TEXT NOT NULL DEFAULT '',
				actor_id TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL DEFAULT '',
				status TEXT NOT NULL DEFAULT 'PENDING',
				error_message TEXT NOT NULL DEFAULT '',
				sent_at DATETIME,
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX IF NOT EXISTS idx_status_notifications_memo ON status_notifications(memo_id);
		`,
	},
}

// Migrator handles database migrations
type Migrator struct {
	db     *DB
	logger *zap.Logger
}

// NewMigrator creates a new migrator
func NewMigrator(db *DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
	}
}

// createMigrationsTable creates the migrations tracking table
func (m *Migrator) createMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	_, err := m.db.Exec(query)
	return err
}

// getAppliedMigrations returns the set of applied migration versions
func (m *Migrator) getAppliedMigrations() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// RunMigrations applies all pending embedded migrations in version order
func (m *Migrator) RunMigrations() error {
	if err := m.createMigrationsTable(); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	applied, err := m.getAppliedMigrations()
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		m.logger.Info("Applying migration",
			zap.Int("version", migration.Version),
			zap.String("name", migration.Name))

		tx, err := m.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if _, err := tx.Exec(migration.SQL); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", migration.Version, migration.Name, err)
		}

		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name,
		); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	m.logger.Info("Database migrations complete")
	return nil
}
