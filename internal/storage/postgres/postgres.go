// Package postgres exports runs to a PostgreSQL database through GORM.
package postgres

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solarviz/orbits/internal/database"
	gormstorage "github.com/solarviz/orbits/internal/storage/gorm"
)

// Backend wraps the GORM backend with a Postgres connection opened on Init.
type Backend struct {
	*gormstorage.Backend
	manager *database.Manager
	cfg     database.PostgresConfig
	log     zerolog.Logger
}

// New creates a new Postgres storage backend. No connection is made until Init.
func New(cfg database.PostgresConfig, log zerolog.Logger) *Backend {
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{Logger: log}),
		manager: database.NewManager(log),
		cfg:     cfg,
		log:     log,
	}
}

// Init connects and migrates the schema.
func (b *Backend) Init() error {
	if err := b.manager.ConnectPostgres(b.cfg); err != nil {
		return err
	}
	if err := b.manager.Setup(); err != nil {
		return fmt.Errorf("postgres setup failed: %w", err)
	}
	b.Backend = gormstorage.New(gormstorage.Dependencies{
		DB:     b.manager.DB,
		Logger: b.log,
	})
	return nil
}

// Close releases the connection pool.
func (b *Backend) Close() error {
	return b.manager.Close()
}
