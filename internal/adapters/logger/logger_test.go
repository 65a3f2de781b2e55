package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/bale/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	t.Parallel()

	log, ok := logger.New().(*logger.Logger)
	require.True(t, ok)

	buf := new(bytes.Buffer)
	log.SetOutput(buf)

	log.Debug("debug message")
	log.Info("info message")
	log.Warn("warn message")
	log.Error(zerr.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "debug message")
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "boom")
}

func TestLogger_ConcurrentUse(t *testing.T) {
	t.Parallel()

	log, ok := logger.New().(*logger.Logger)
	require.True(t, ok)
	log.SetOutput(new(bytes.Buffer))

	done := make(chan struct{}, 8)
	for range 8 {
		go func() {
			for range 50 {
				log.Info("concurrent")
			}
			done <- struct{}{}
		}()
	}
	for range 8 {
		<-done
	}
}
