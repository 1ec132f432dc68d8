package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	logger := New()
	assert.NotNil(t, logger)
	assert.NotNil(t, logger.info)
	assert.NotNil(t, logger.warn)
	assert.NotNil(t, logger.error)
}

func TestLogger_Levels(t *testing.T) {
	logger := New()

	// None of the levels should panic
	logger.Info("upload session %s opened", "session-1")
	logger.Warn("geolocation fix is %d seconds old", 45)
	logger.Error("failed to write post: %v", "connection refused")
}

func TestLogger_Formatting(t *testing.T) {
	logger := New()

	logger.Info("user %s created post %s at (%f, %f)", "user-1", "post-1", 12.9716, 77.5946)
	logger.Error("request %d failed: %s", 500, "internal error")
}
