// Package logger holds the process-wide structured logger.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the global logger. It is usable before Init with logrus defaults,
// so packages and tests never see a nil logger.
var Log = logrus.New()

// Init configures the global logger from the environment.
// Call once from main before anything else logs.
//
//	LOG_LEVEL  = trace|debug|info|warn|error (default info)
//	LOG_FORMAT = json|text (default text)
func Init() {
	level, err := logrus.ParseLevel(getEnvWithDefault("LOG_LEVEL", "info"))
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

func getEnvWithDefault(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return defaultVal
}
