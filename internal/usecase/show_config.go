package usecase

import (
	"context"

	"github.com/runoshun/ticktree/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct{}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	Config *domain.Config    // Effective configuration (defaults + file)
	Info   domain.ConfigInfo // Config file location
}

// ShowConfig reports the effective configuration.
type ShowConfig struct {
	loader        domain.ConfigLoader
	configManager domain.ConfigManager
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(loader domain.ConfigLoader, configManager domain.ConfigManager) *ShowConfig {
	return &ShowConfig{
		loader:        loader,
		configManager: configManager,
	}
}

// Execute loads the effective configuration and its file location.
func (uc *ShowConfig) Execute(_ context.Context, _ ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.loader.Load()
	if err != nil {
		return nil, err
	}
	return &ShowConfigOutput{
		Config: cfg,
		Info:   uc.configManager.Info(),
	}, nil
}
