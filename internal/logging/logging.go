// Package logging configures the shared logrus logger.
package logging

import (
	log "github.com/sirupsen/logrus"
)

// Setup applies the configured log level to the standard logger. Unknown
// levels fall back to info.
func Setup(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
