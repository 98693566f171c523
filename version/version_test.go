package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/glyphreel/version"
)

func TestString(t *testing.T) {
	t.Parallel()

	got := version.String()

	assert.True(t, strings.HasPrefix(got, "glyphreel "), got)
	assert.Contains(t, got, "revision "+version.Revision)
	assert.Contains(t, got, runtime.Version())
	assert.Contains(t, got, runtime.GOOS+"/"+runtime.GOARCH)

	if version.Version == "" {
		assert.Contains(t, got, "glyphreel dev")
	}
}
