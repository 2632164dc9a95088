// Package logging configures the process-wide logrus logger.
package logging

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/hebed-ai/hebed/internal/config"
)

// Setup applies level and formatter from the application config.
// Unknown levels fall back to info.
func Setup(cfg config.AppConfig) {
	log.SetOutput(os.Stdout)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if cfg.Debug {
		level = log.DebugLevel
	}
	log.SetLevel(level)

	if cfg.IsDevelopment() {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&log.JSONFormatter{})
	}

	if err != nil {
		log.WithError(err).Warnf("unknown log level %q, using info", cfg.LogLevel)
	}
}
