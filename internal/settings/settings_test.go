package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	require.Equal(t, ":8080", s.HTTP.Addr)
	require.Equal(t, "file", s.Save.Backend)
	require.Equal(t, 200*time.Millisecond, s.Config.Debounce)
	require.Equal(t, "info", s.Log.Level)
}

func TestFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  addr: ":9000"
  rate_limit: 5
save:
  backend: sqlite
  path: /tmp/petgacha.db
log:
  level: debug
seed: 42
`), 0o644))
	t.Setenv("PETGACHA_HTTP_ADDR", ":9100")
	t.Setenv("PETGACHA_CONFIG_WATCH", "false")

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":9100", s.HTTP.Addr)
	require.Equal(t, 5.0, s.HTTP.RateLimit)
	require.Equal(t, "sqlite", s.Save.Backend)
	require.False(t, s.Config.Watch)
	require.Equal(t, "debug", s.Log.Level)
	require.Equal(t, uint64(42), s.Seed)
}

func TestValidate(t *testing.T) {
	t.Setenv("PETGACHA_SAVE_BACKEND", "tape")
	_, err := Load("")
	require.ErrorContains(t, err, "save.backend")
}
