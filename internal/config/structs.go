package config

import (
	"github.com/GoEnrollSync/GoEnrollSync/internal/archive"
	"github.com/GoEnrollSync/GoEnrollSync/internal/directory"
	"github.com/GoEnrollSync/GoEnrollSync/internal/logger"
	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
)

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	Title     string
	DB        DB
	Log       logger.Log
	Webserver Webserver
	Registry  registry.Config
	Directory directory.Config
	Archive   archive.Config
	Sync      Sync
}

// Webserver implement webserver settings.
type Webserver struct {
	DisableRecover bool   // disable recover middleware
	Domain         string // domain name for the webserver
	Port           int    // listening port for the webserver
	ShutDownTime   int    // wait time for shutdown
	URL            string // base url for the webserver
}

// Sync holds the settings of the reconciliation runs.
type Sync struct {
	// FeideSuffix is the domain suffix federated usernames are derived with.
	FeideSuffix string `toml:"feideSuffix"`
	// ActorName is the fallback actor name stamped on records the sync writes.
	ActorName string `toml:"actorName"`
	// TriggerToken guards the HTTP sync trigger endpoint.
	TriggerToken string `toml:"triggerToken"`
}
