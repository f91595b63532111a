package logging

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
)

// Setup configures the process-wide logger. An empty level means info.
func Setup(level string, out io.Writer) error {
	if level == "" {
		level = "info"
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(lvl)
	log.SetOutput(out)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}
