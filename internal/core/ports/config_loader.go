package ports

import "go.trai.ch/bale/internal/core/domain"

// ConfigLoader reads and validates the build configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path.
	Load(path string) (*domain.BuildOptions, error)
}
