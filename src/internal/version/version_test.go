// FILE: pathfinder/src/internal/version/version_test.go
package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v1.2.3"
	s := String()
	assert.Contains(t, s, "pathfinder v1.2.3")
	assert.Contains(t, s, runtime.Version())
	assert.Equal(t, "v1.2.3", Short())
}
