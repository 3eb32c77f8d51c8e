package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/natefinch/lumberjack"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestSetup_WritesToRotatingFile(t *testing.T) {
	std := logrus.StandardLogger()
	prevOut, prevLevel := std.Out, std.GetLevel()
	t.Cleanup(func() {
		logrus.SetOutput(prevOut)
		logrus.SetLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "app.log")
	w, err := Setup(path, "info")
	require.NoError(t, err)
	t.Cleanup(func() { w.(*lumberjack.Logger).Close() })

	logrus.WithField("request_id", "r-1").Info("Pickup scheduled")
	logrus.Debug("hidden")

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Pickup scheduled")
	assert.Contains(t, string(raw), "request_id=r-1")
	assert.NotContains(t, string(raw), "hidden")
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, err := Setup(filepath.Join(t.TempDir(), "x.log"), "chatty")
	assert.Error(t, err)
}

func TestGormLogger_FollowsLogrusLevel(t *testing.T) {
	prev := logrus.GetLevel()
	t.Cleanup(func() { logrus.SetLevel(prev) })

	for _, level := range []logrus.Level{logrus.DebugLevel, logrus.WarnLevel} {
		logrus.SetLevel(level)
		var l gormlogger.Interface = GormLogger()
		assert.NotNil(t, l, level.String())
	}
}
