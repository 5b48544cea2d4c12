package migration

import (
	"database/sql"
	"fmt"
	"os"

	"go.uber.org/zap"
)

const initScript = "internal/repository/migration/init.sql"

// RunMigrations applies the schema script. A missing script is not fatal so
// the binary can run against an externally managed database.
func RunMigrations(db *sql.DB, logger *zap.Logger) error {
	content, err := os.ReadFile(initScript)
	if err != nil {
		logger.Warn("could not read migration file", zap.Error(err))
		return nil
	}

	if _, err := db.Exec(string(content)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	logger.Info("migrations completed")
	return nil
}
