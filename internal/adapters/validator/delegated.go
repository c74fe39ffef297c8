package validator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"unicampus/internal/core/domain"
	"unicampus/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// DefaultTimeout bounds a validation call when none is configured
const DefaultTimeout = 10 * time.Second

// Delegated resolves tokens by calling GET {issuer}/auth/validate?token=...
// on the identity service. It is stateless: every call goes over the wire.
type Delegated struct {
	endpoint string
	timeout  time.Duration
	metrics  *metrics.Metrics
}

// NewDelegated creates a delegated validator. issuerURL is the API root of
// the identity service, e.g. http://identity:8081/api/v1.
func NewDelegated(issuerURL string, timeout time.Duration, m *metrics.Metrics) *Delegated {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Delegated{
		endpoint: strings.TrimRight(issuerURL, "/") + "/auth/validate",
		timeout:  timeout,
		metrics:  m,
	}
}

// Strategy returns "delegated"
func (v *Delegated) Strategy() string { return StrategyDelegated }

// validateResponse is the issuer's validate body. Fields may be null or missing.
type validateResponse struct {
	Email     *string    `json:"email"`
	FirstName *string    `json:"firstName"`
	LastName  *string    `json:"lastName"`
	Role      *string    `json:"role"`
	UserID    flexString `json:"userId"`
}

// flexString accepts a JSON string, number or null
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// Resolve calls the issuer. Transport errors, timeouts, non-2xx answers and
// bodies without a recognised role all resolve to unauthenticated.
func (v *Delegated) Resolve(ctx context.Context, token string) (identity *domain.Identity, err error) {
	defer func() { v.metrics.TokenValidation(StrategyDelegated, err) }()

	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: token is required", domain.ErrUnauthenticated)
	}

	timeout, err := v.callTimeout(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	agent := fiber.Get(v.endpoint)
	agent.QueryString("token=" + url.QueryEscape(token))
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, fmt.Errorf("%w: issuer request: %v", domain.ErrUnauthenticated, err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: issuer unreachable: %v", domain.ErrUnauthenticated, errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: issuer answered %d", domain.ErrUnauthenticated, status)
	}

	var resp validateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: issuer body: %v", domain.ErrUnauthenticated, err)
	}

	role, ok := domain.ParseRole(deref(resp.Role))
	if !ok {
		return nil, fmt.Errorf("%w: issuer returned no recognised role", domain.ErrUnauthenticated)
	}

	userID := string(resp.UserID)
	return &domain.Identity{
		Subject:   userID,
		UserID:    userID,
		Email:     deref(resp.Email),
		FirstName: deref(resp.FirstName),
		LastName:  deref(resp.LastName),
		Role:      role,
	}, nil
}

// callTimeout is the configured timeout, shortened to the context deadline
func (v *Delegated) callTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := v.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return 0, context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}
	return timeout, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
