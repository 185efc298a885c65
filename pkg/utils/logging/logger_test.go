package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLogger_WritesDebugToFile(t *testing.T) {
	chdir(t, t.TempDir())

	logger, err := InitLogger("test", "warn")
	require.NoError(t, err)

	logger.Debug("file only", zap.String("key", "value"))
	_ = logger.Sync()

	files, err := filepath.Glob(filepath.Join(logsDir, "test_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `"msg":"file only"`))
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestInitLogger_InvalidLevel(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := InitLogger("test", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")

	_, statErr := os.Stat(logsDir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, OrNop(nil))

	logger := zap.NewExample()
	assert.Same(t, logger, OrNop(logger))
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
