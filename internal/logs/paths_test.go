package logs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogDir_ReturnsPathContainingUpdatewing(t *testing.T) {
	dir, err := GetLogDir()
	require.NoError(t, err)
	assert.Contains(t, dir, "updatewing")
}

func TestGetLogFilePathWithDir_ExplicitDirTakesPrecedence(t *testing.T) {
	tmp := t.TempDir()
	path, err := GetLogFilePathWithDir(tmp, "app.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmp, "app.log"), path)
}

func TestGetLogFilePathWithDir_EmptyDirFallsBackToStandard(t *testing.T) {
	path, err := GetLogFilePathWithDir("", "app.log")
	require.NoError(t, err)
	assert.Contains(t, path, "updatewing")
	assert.Equal(t, "app.log", filepath.Base(path))
}

func TestGetLogDirInfo_DescribesCurrentOS(t *testing.T) {
	info, err := GetLogDirInfo()
	require.NoError(t, err)
	assert.NotEmpty(t, info.OS)
	assert.NotEmpty(t, info.Description)
}
