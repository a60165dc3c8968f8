package storage

import (
	"fmt"
	"log/slog"

	"github.com/rs/zerolog"

	"github.com/solarviz/orbits/internal/config"
	"github.com/solarviz/orbits/internal/database"
	"github.com/solarviz/orbits/internal/storage/file"
	"github.com/solarviz/orbits/internal/storage/postgres"
	sqlitestorage "github.com/solarviz/orbits/internal/storage/sqlite"
)

// Dependencies holds the loggers handed to backends.
type Dependencies struct {
	Logger   *slog.Logger
	DBLogger zerolog.Logger
	// Path overrides the generated output file name, when set.
	Path string
}

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, deps Dependencies) (Backend, error) {
	switch cfg.Type {
	case "html", "json":
		return file.New(file.Config{
			Format:    cfg.Type,
			OutputDir: cfg.OutputDir,
			Path:      deps.Path,
			Compress:  cfg.CompressOutput,
			PlotlyURL: cfg.PlotlyURL,
		}, deps.Logger), nil
	case "sqlite":
		path := cfg.SQLite.Path
		if deps.Path != "" {
			path = deps.Path
		}
		return sqlitestorage.New(sqlitestorage.Config{
			Path:      path,
			OutputDir: cfg.OutputDir,
		}, deps.DBLogger)
	case "postgres":
		return postgres.New(database.PostgresConfig{
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Username: cfg.Postgres.Username,
			Password: cfg.Postgres.Password,
			Database: cfg.Postgres.Database,
			SSLMode:  cfg.Postgres.SSLMode,
		}, deps.DBLogger), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
