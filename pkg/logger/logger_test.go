package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	InitLogger("debug")
	assert.Equal(t, logrus.DebugLevel, Log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, Log.Formatter)

	// Package-level logrus calls share the configuration.
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	InitLogger("shouting")
	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}
