// Package bridge exposes a bundle of voice-assistant apps as a local REST
// service and registers it with a core orchestrator.
//
// App authors build their App graph in code and hand it to Serve. The bridge
// claims a free local port, announces every app to the core (callback URL,
// shared auth token, capability descriptor), and then dispatches each
// authenticated POST /{appID}/{intentID} call to the matching intent.
package bridge

import (
	"context"

	"github.com/intentlabs/bridge/internal/app"
	"github.com/intentlabs/bridge/internal/config"
	"github.com/intentlabs/bridge/internal/core"
	"github.com/intentlabs/bridge/internal/server"
)

// Re-exported model types. See the app package for details.
type (
	App         = app.App
	Intent      = app.Intent
	Slot        = app.Slot
	Call        = app.Call
	Runner      = app.Runner
	RunnerFunc  = app.RunnerFunc
	DataType    = app.DataType
	FiniteType  = app.FiniteType
	EnumType    = app.EnumType
	FreeText    = app.FreeText
	IntentError = app.IntentError

	Config = config.Config
)

// NewIntentError builds an intent failure with an explicit HTTP status.
var NewIntentError = app.NewIntentError

// DefaultConfig returns the built-in configuration: core at
// http://localhost:12777/, port range 12127-12712.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig parses YAML configuration with environment variable expansion.
func LoadConfig(data []byte) (Config, error) {
	return config.LoadFromBytes(data)
}

// Serve runs the bridge until ctx is cancelled: validate and load the apps,
// bind a port, register everything with the core, then serve. Startup errors
// (bind exhaustion, unreachable core, rejected registration) are returned
// before any request is handled.
func Serve(ctx context.Context, cfg Config, apps ...*App) error {
	registry, err := app.NewRegistry(apps...)
	if err != nil {
		return err
	}
	client, err := core.NewClient(cfg.Core.URL)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, registry)
	if err != nil {
		return err
	}
	return srv.Run(ctx, client)
}
