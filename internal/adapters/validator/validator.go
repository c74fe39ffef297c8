package validator

import (
	"fmt"

	"unicampus/internal/config"
	"unicampus/internal/core/services"
	"unicampus/internal/pkg/jwt"
	"unicampus/internal/pkg/metrics"
)

// Strategy names, as selected by AUTH_STRATEGY
const (
	StrategyLocal     = config.StrategyLocal
	StrategyDelegated = config.StrategyDelegated
)

// New builds the validator selected by cfg.Strategy. codec is only used by
// the local strategy and may be nil for delegated.
func New(cfg config.ValidatorConfig, codec *jwt.Codec, m *metrics.Metrics) (services.TokenValidator, error) {
	switch cfg.Strategy {
	case StrategyLocal:
		if codec == nil {
			return nil, fmt.Errorf("local validation needs JWT_SECRET")
		}
		return NewLocal(codec, m), nil
	case StrategyDelegated:
		if cfg.IssuerURL == "" {
			return nil, fmt.Errorf("delegated validation needs ISSUER_URL")
		}
		return NewDelegated(cfg.IssuerURL, cfg.Timeout, m), nil
	}
	return nil, fmt.Errorf("unknown validation strategy %q", cfg.Strategy)
}
