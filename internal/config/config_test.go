package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "manygolf.yaml", `
timing:
  timer_ms: 60000
  hurry_up_ms: 5000
server:
  addr: ":9000"
  codec: msgpack
  allow_origins: ["https://example.com"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.EqualValues(t, 60000, cfg.Timing.TimerMS)
	assert.EqualValues(t, 5000, cfg.Timing.HurryUpMS)
	assert.Equal(t, DefaultTiming().IdleKickMS, cfg.Timing.IdleKickMS, "unset keys keep defaults")
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, "msgpack", cfg.Server.Codec)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.AllowOrigins)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "manygolf.json", `{"timing":{"match_length_ms":120000},"server":{"token_issuer":"test"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.EqualValues(t, 120000, cfg.Timing.MatchLengthMS)
	assert.Equal(t, "test", cfg.Server.TokenIssuer)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.yaml", "timing: [not, a, map]"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "zero.yaml", "timing:\n  timer_ms: 0\n"))
	assert.ErrorIs(t, err, ErrInvalidTiming)

	_, err = Load(writeFile(t, "codec.yaml", "server:\n  codec: xml\n"))
	assert.ErrorIs(t, err, ErrInvalidServer)
}

func TestTimingValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Timing)
	}{
		{"negative idle", func(t *Timing) { t.IdleKickMS = -1 }},
		{"zero match over", func(t *Timing) { t.MatchOverMS = 0 }},
		{"tick rate too high", func(t *Timing) { t.TickRate = 120 }},
		{"no sync", func(t *Timing) { t.SyncEveryTicks = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timing := DefaultTiming()
			tt.mutate(&timing)
			assert.ErrorIs(t, timing.Validate(), ErrInvalidTiming)
		})
	}
}

func TestTimingWithEnv(t *testing.T) {
	got := DefaultTiming().WithEnv(map[string]string{
		"manygolf_timer_ms":         "30000",
		"manygolf_tick_rate":        "30",
		"manygolf_idle_kick_ms":     "not-a-number",
		"manygolf_sync_every_ticks": "3",
		"unrelated":                 "1",
	})
	want := DefaultTiming()
	want.TimerMS = 30000
	want.TickRate = 30
	want.SyncEveryTicks = 3
	assert.Equal(t, want, got)
}

func TestServerFromEnv(t *testing.T) {
	env := map[string]string{
		"MANYGOLF_ADDR":         ":7000",
		"MANYGOLF_TOKEN_SECRET": "s3cret",
	}
	got := Default().Server.FromEnv(func(k string) string { return env[k] })
	assert.Equal(t, ":7000", got.Addr)
	assert.Equal(t, "s3cret", got.TokenSecret)
	assert.Equal(t, "json", got.Codec)
}

func TestLoadDotEnv(t *testing.T) {
	const key = "MANYGOLF_TEST_DOTENV_KEY"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := writeFile(t, ".env", key+"=from-file\n")
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path))
	assert.Equal(t, "from-file", os.Getenv(key))
}
