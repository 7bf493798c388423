package backend

import (
	"fmt"

	"insureport/internal/config"
	"insureport/internal/domain"
	"insureport/internal/port"
)

// ProviderFactory creates a ModelBackend bound to a backend slot from a
// provider config.
type ProviderFactory func(id domain.BackendID, cfg *config.BackendConfig) (port.ModelBackend, error)

// registry of backend provider factories, populated explicitly via
// RegisterProvider at startup.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a backend provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a ModelBackend from a provider config using the registered factory.
func New(id domain.BackendID, cfg *config.BackendConfig) (port.ModelBackend, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown backend provider: %s", cfg.Provider)
	}
	return factory(id, cfg)
}

// BuildAll constructs the three backend slots from config. A slot whose
// provider is unknown is a wiring error; a slot whose credential is missing
// is still constructed, its Invoke reports domain.ErrBackendUnavailable.
func BuildAll(cfg *config.BackendsConfig) (map[domain.BackendID]port.ModelBackend, error) {
	slots := map[domain.BackendID]*config.BackendConfig{
		domain.BackendModelA: &cfg.ModelA,
		domain.BackendModelB: &cfg.ModelB,
		domain.BackendModelC: &cfg.ModelC,
	}
	backends := make(map[domain.BackendID]port.ModelBackend, len(slots))
	for id, c := range slots {
		b, err := New(id, c)
		if err != nil {
			return nil, fmt.Errorf("building backend %s: %w", id, err)
		}
		backends[id] = b
	}
	return backends, nil
}
