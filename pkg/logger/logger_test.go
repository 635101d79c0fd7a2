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

	// None of these should panic
	logger.Info("article %s published", "slug-1")
	logger.Warn("cache invalidation skipped: %v", "redis down")
	logger.Error("batch %d failed: %s", 2, "smtp timeout")
}

func TestLogger_Formatting(t *testing.T) {
	logger := New()

	// Formatting with mixed argument types must not panic
	logger.Info("user %s logged in with role %s", "jeanne", "ADMIN")
	logger.Error("failed to send to %d recipients: %v", 50, assert.AnError)
}
