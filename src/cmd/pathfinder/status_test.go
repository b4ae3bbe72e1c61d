// FILE: pathfinder/src/cmd/pathfinder/status_test.go
package main

import (
	"testing"

	"pathfinder/src/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestEnableStatusReporter(t *testing.T) {
	cfg := config.Defaults()

	t.Setenv("PATHFINDER_DISABLE_STATUS_REPORTER", "")
	assert.True(t, enableStatusReporter(cfg))

	cfg.DisableStatusReporter = true
	assert.False(t, enableStatusReporter(cfg))

	cfg.DisableStatusReporter = false
	t.Setenv("PATHFINDER_DISABLE_STATUS_REPORTER", "1")
	assert.False(t, enableStatusReporter(cfg))
}
