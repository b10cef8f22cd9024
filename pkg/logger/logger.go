package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the standard logrus logger until InitLogger configures it.
var Log = logrus.StandardLogger()

// InitLogger switches Log to JSON on stdout at the given level. An unknown
// level falls back to info.
func InitLogger(level string) {
	Log = logrus.StandardLogger()

	// Output to stdout instead of the default stderr
	Log.SetOutput(os.Stdout)

	// Set JSON formatter for structured logging
	Log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Log.WithField("level", level).Warn("Unknown log level, using info")
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
}
