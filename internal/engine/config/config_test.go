package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lunabeam/lunabeam/internal/engine/service/claim"
	"github.com/lunabeam/lunabeam/internal/pkg/notify"
	"github.com/lunabeam/lunabeam/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[log]
level = "debug"

[http]
port = 9000
readTimeout = "3s"

[http.auth]
secretKey = "test-secret"

[database]
driver = "sqlite"

[database.sqlite]
path = "file:lunabeam?mode=memory&cache=shared"

[claim]
livePolicy = "reject"
ttl = "3d"
minCredentialLength = 8

[notify]
channel = "webhook"

[notify.webhook]
url = "https://hooks.lunabeam.test/mail"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	l, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	cfg := l.Config()

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "stdout", cfg.Log.Output)
	assert.Equal(t, 9000, cfg.Http.Port)
	assert.Equal(t, 3*time.Second, cfg.Http.ReadTimeout)
	assert.Equal(t, "/api/v1", cfg.Http.ContextPath)
	assert.Equal(t, database.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, claim.PolicyReject, cfg.Claim.LivePolicy)
	assert.Equal(t, 72*time.Hour, cfg.Claim.DefaultTTL())
	assert.Equal(t, 8, cfg.Claim.MinCredentialLength)
	assert.Equal(t, notify.ChannelTypeWebhook, cfg.Notify.Channel)
	assert.Equal(t, "@every 5m", cfg.Cron.SweepSpec)
	assert.Equal(t, 9090, cfg.Metrics.Port)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LUNABEAM_HTTP_PORT", "9100")
	l, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, 9100, l.Config().Http.Port)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "[database]\ndriver = \"sqlite\"\n[database.sqlite]\npath = \"x\"\n"))
	assert.ErrorContains(t, err, "secretKey")

	_, err = Load(writeConfig(t, sample+"\n[cron]\nenable = true\n"+"[redis]\nmode = \"single\"\n"))
	assert.NoError(t, err)

	bad := `
[http.auth]
secretKey = "s"
[database]
driver = "sqlite"
[database.sqlite]
path = "x"
[claim]
livePolicy = "sometimes"
`
	_, err = Load(writeConfig(t, bad))
	assert.ErrorContains(t, err, "livePolicy")
}

func TestLoader_Reload(t *testing.T) {
	path := writeConfig(t, sample)
	l, err := Load(path)
	require.NoError(t, err)

	changed := make(chan AppConfig, 1)
	l.Watch(func(_, cur AppConfig) {
		select {
		case changed <- cur:
		default:
		}
	})

	updated := sample + "\n[cron]\nsweepSpec = \"@every 1m\"\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o600))

	select {
	case cur := <-changed:
		assert.Equal(t, "@every 1m", cur.Cron.SweepSpec)
		assert.Equal(t, "@every 1m", l.Config().Cron.SweepSpec)
	case <-time.After(5 * time.Second):
		t.Fatal("reload not observed")
	}
}
