package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/drivebox/internal/config"
	"github.com/templui/drivebox/internal/db"
)

// openDB connects to the metadata store named by the environment. JWT_SECRET
// is not needed here.
func openDB() (*config.Config, *sqlx.DB, error) {
	cfg := config.LoadAdmin()

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	return cfg, database, nil
}
