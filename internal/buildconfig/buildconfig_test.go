package buildconfig

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionInfo(t *testing.T) {
	info := VersionInfo()
	assert.Equal(t, "deduce", info.Service)
	assert.Equal(t, Version(), info.Version)
	assert.Equal(t, Commit(), info.Commit)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, SchemaVersion, info.SchemaVersion)
}
