// Package daemon wires the database, upstream clients and the web service
// together into the running application.
package daemon

import (
	"fmt"

	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/GoEnrollSync/GoEnrollSync/internal/archive"
	"github.com/GoEnrollSync/GoEnrollSync/internal/config"
	"github.com/GoEnrollSync/GoEnrollSync/internal/db/dsn"
	"github.com/GoEnrollSync/GoEnrollSync/internal/db/store"
	"github.com/GoEnrollSync/GoEnrollSync/internal/directory"
	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
	"github.com/GoEnrollSync/GoEnrollSync/internal/web"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	store      *store.Store
	registry   *registry.Client
	directory  *directory.Client
	archiver   *archive.Archiver
	webService *web.Service
}

// Start starts the Daemon's web service.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until the web service has shut down.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	dbDriver := gormmysql.Open(dsn.Create(cfg)) // open db with gorm mysql driver

	db, err := gorm.Open(dbDriver, &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	st, err := store.New(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	registryClient, err := registry.New(cfg.Registry)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create registry client")
	}

	directoryClient, err := directory.New(&cfg.Directory)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create directory client")
	}

	archiver, err := archive.New(cfg.Archive)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create snapshot archiver")
	}

	d := &Daemon{
		cfg:       cfg,
		store:     st,
		registry:  registryClient,
		directory: directoryClient,
		archiver:  archiver,
	}

	d.webService = web.New(cfg, d)

	return d
}
