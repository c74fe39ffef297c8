package jobs

import (
	"fmt"
	"sync"
	"time"

	"unicampus/internal/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// IssuerProbe periodically checks that the identity service answers its
// health endpoint. It only reports; token validation never consults it.
type IssuerProbe struct {
	healthURL string
	timeout   time.Duration
	schedule  string
	metrics   *metrics.Metrics
	log       *logrus.Entry

	cron *cron.Cron

	mu    sync.Mutex
	known bool
	up    bool
}

// NewIssuerProbe creates a probe for healthURL run on a cron schedule
// (e.g. "@every 1m")
func NewIssuerProbe(healthURL string, timeout time.Duration, schedule string, m *metrics.Metrics, log *logrus.Entry) *IssuerProbe {
	return &IssuerProbe{
		healthURL: healthURL,
		timeout:   timeout,
		schedule:  schedule,
		metrics:   m,
		log:       log,
	}
}

// Start schedules the probe and runs it once immediately
func (p *IssuerProbe) Start() error {
	p.cron = cron.New()
	if _, err := p.cron.AddFunc(p.schedule, func() { p.Probe() }); err != nil {
		return fmt.Errorf("schedule issuer probe %q: %w", p.schedule, err)
	}
	p.cron.Start()
	go p.Probe()

	p.log.WithFields(logrus.Fields{"url": p.healthURL, "schedule": p.schedule}).Info("🚀 Issuer probe started")
	return nil
}

// Stop stops the scheduler and waits for a running probe to finish
func (p *IssuerProbe) Stop() {
	if p.cron == nil {
		return
	}
	<-p.cron.Stop().Done()
	p.log.Info("🛑 Issuer probe stopped")
}

// Probe performs one check and returns whether the issuer is up
func (p *IssuerProbe) Probe() bool {
	up, err := p.check()
	p.metrics.SetIssuerUp(up)

	p.mu.Lock()
	changed := !p.known || p.up != up
	p.known, p.up = true, up
	p.mu.Unlock()

	if changed {
		entry := p.log.WithField("url", p.healthURL)
		if up {
			entry.Info("✅ Issuer is reachable")
		} else {
			entry.WithError(err).Warn("⚠️ Issuer is unreachable")
		}
	}
	return up
}

func (p *IssuerProbe) check() (bool, error) {
	agent := fiber.Get(p.healthURL)
	agent.Timeout(p.timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return false, err
	}

	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return false, errs[0]
	}
	if status != fiber.StatusOK {
		return false, fmt.Errorf("health answered %d", status)
	}
	return true, nil
}
