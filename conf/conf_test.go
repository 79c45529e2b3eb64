package conf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	raw := []byte(`
server:
  port: 8090
  name: orghub
db:
  dsn: postgres://localhost/orghub
auth:
  secret_key: file-secret
log:
  level: info
`)
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	t.Setenv("ORGHUB_CONFIG", path)
	t.Setenv("ORGHUB_AUTH_SECRET_KEY", "env-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "orghub", cfg.Server.Name)
	assert.Equal(t, "postgres://localhost/orghub", cfg.DB.DSN)

	// Environment overrides win over the file.
	assert.Equal(t, "env-secret", cfg.Auth.SecretKey)
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv("ORGHUB_CONFIG", "")
	t.Setenv("ORGHUB_SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}
