package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger builds the service logger: text output in dev, JSON in prod
func NewLogger(cfg *Config, service string) *logrus.Entry {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if cfg.IsProd() {
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		log.SetLevel(logrus.DebugLevel)
	}

	if lvl, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "")); err == nil {
		log.SetLevel(lvl)
	}

	return log.WithField("service", service)
}
