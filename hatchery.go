package hatchery

import "github.com/goliatone/go-hatchery/service"

// Re-export the service package entry point so consumers can do
// `hatchery.New(...)` without importing internal wiring helpers.
type (
	Service            = service.Service
	Config             = service.Config
	Commands           = service.Commands
	Queries            = service.Queries
	PreferenceResolver = service.PreferenceResolver
)

// New constructs the go-hatchery runtime using the provided configuration.
func New(cfg Config) *Service {
	return service.New(cfg)
}
