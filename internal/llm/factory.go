package llm

import (
	"fmt"

	"invoicr/internal/config"
	"invoicr/internal/port"
)

// ProviderFactory creates a Generator bound to one model name.
type ProviderFactory func(cfg *config.GenerationConfig, model string) (port.Generator, error)

// registry of generator provider factories, populated by init() in each
// provider package or explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a generator provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewGenerator creates a Generator for the configured provider and model.
func NewGenerator(cfg *config.GenerationConfig, model string) (port.Generator, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown generation provider: %s", cfg.Provider)
	}
	return factory(cfg, model)
}
