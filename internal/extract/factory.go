package extract

import (
	"fmt"

	"invomail/internal/config"
	"invomail/internal/port"
)

// ModelFactory is a function that creates a DocumentModel from a provider config.
type ModelFactory func(cfg *config.ExtractProviderConfig) (port.DocumentModel, error)

// registry of model provider factories, populated by init() in each provider
// package or explicitly via RegisterProvider.
var providers = map[string]ModelFactory{}

// RegisterProvider registers a model provider factory by name.
func RegisterProvider(name string, factory ModelFactory) {
	providers[name] = factory
}

// NewModel creates a DocumentModel from a provider config using the registered factory.
func NewModel(cfg *config.ExtractProviderConfig) (port.DocumentModel, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// NewFromConfig builds the configured model chain: the primary provider
// alone, or wrapped in a FallbackModel when a secondary is configured.
func NewFromConfig(cfg *config.ExtractConfig) (port.DocumentModel, error) {
	primaryCfg := cfg.PrimaryConfig()
	primary, err := NewModel(primaryCfg)
	if err != nil {
		return nil, fmt.Errorf("building primary model: %w", err)
	}

	secondaryCfg := cfg.SecondaryConfig()
	if secondaryCfg == nil {
		return primary, nil
	}
	secondary, err := NewModel(secondaryCfg)
	if err != nil {
		return nil, fmt.Errorf("building secondary model: %w", err)
	}
	return NewFallbackModel(
		[]port.DocumentModel{primary, secondary},
		[]string{primaryCfg.Provider, secondaryCfg.Provider},
	), nil
}
