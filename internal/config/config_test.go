package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/siren-alert/internal/config"
)

func TestParseAppliesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GOOGLE_VISION_API_KEY", "")

	cfg, err := config.Parse([]byte("server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
	assert.InDelta(t, 0.2, cfg.AI.Temperature, 0.0001)
	assert.Equal(t, "ko", cfg.AI.LanguageHint)
	assert.Equal(t, 60, cfg.RateLimit.Capacity)
	assert.Equal(t, "Asia/Seoul", cfg.Collector.Timezone)
	assert.Empty(t, cfg.AI.OpenAIAPIKey)
	assert.False(t, cfg.SMTPConfigured())
	assert.False(t, cfg.MinioConfigured())
}

func TestSecretsComeFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("GOOGLE_VISION_API_KEY", "vision-key")

	cfg, err := config.Parse([]byte("ai:\n  model: gpt-4o\n"))
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.AI.OpenAIAPIKey)
	assert.Equal(t, "vision-key", cfg.AI.VisionAPIKey)
	assert.Equal(t, "gpt-4o", cfg.AI.Model)
}

func TestDSNs(t *testing.T) {
	cfg, err := config.Parse([]byte(`
database:
  driver: postgres
  host: db
  user: siren
  password: secret
  name: siren
`))
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "host=db port=5432 user=siren password=secret dbname=siren sslmode=disable", cfg.PostgresDSN())

	cfg.Database.Port = 3306
	assert.Equal(t, "siren:secret@tcp(db:3306)/siren?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestParseRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"driver":       "database:\n  driver: sqlite\n",
		"source kind":  "collector:\n  sources:\n    - name: a\n      url: http://x\n      kind: ftp\n",
		"board select": "collector:\n  sources:\n    - name: a\n      url: http://x\n      kind: board\n",
		"no url":       "collector:\n  sources:\n    - name: a\n      kind: feed\n",
		"yaml":         "server: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadAndPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "siren.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600))

	t.Setenv("CONFIG_PATH", path)
	assert.Equal(t, path, config.PathFromEnv())

	cfg, err := config.Load(config.PathFromEnv())
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)

	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, config.DefaultPath, config.PathFromEnv())

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := config.LoadOrDefault(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("database:\n  driver: sqlite\n"), 0o600))
	_, err = config.LoadOrDefault(bad)
	assert.Error(t, err)
}
