package classifier

import (
	"fmt"

	"github.com/pbaille/wastesort/internal/config"
)

// FromConfig builds the configured backend. categories is the closed set the
// Anthropic backend may answer with.
func FromConfig(cfg config.ClassifierConfig, categories []string) (Classifier, error) {
	switch cfg.Backend {
	case config.BackendSimulated, "":
		table := DefaultTable()
		if cfg.TableFile != "" {
			var err error
			if table, err = LoadTable(cfg.TableFile); err != nil {
				return nil, err
			}
		}
		return NewSimulated(table, SimulatedOptions{Latency: cfg.Latency, Seed: cfg.Seed})

	case config.BackendRemote:
		return NewRemote(cfg.Remote.Endpoint, cfg.Remote.APIKey, nil)

	case config.BackendAnthropic:
		return NewAnthropic(categories, AnthropicOptions{
			APIKey: cfg.Anthropic.APIKey,
			Model:  cfg.Anthropic.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported classifier backend: %s", cfg.Backend)
	}
}
