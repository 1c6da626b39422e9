package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vdi", "config.json")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval())
	assert.False(t, cfg.NotificationsEnabled)
	assert.Equal(t, "ctrl+alt+right", cfg.Hotkeys.Forward)
	assert.Equal(t, path, cfg.Path())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestLoadFromRoundTripsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	require.NoError(t, cfg.SetNotifications(true))

	again, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, again.NotificationsEnabled)
}

func TestNotificationsConcurrentToggle(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	// 轮询读取与菜单切换并发进行
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = cfg.SetNotifications(i%2 == 0)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = cfg.Notifications()
		}
	}()
	wg.Wait()

	require.NoError(t, cfg.SetNotifications(true))
	assert.True(t, cfg.Notifications())
}

func TestLoadFromKeepsDefaultsForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"notificationsEnabled": true}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, cfg.NotificationsEnabled)
	assert.Equal(t, 250, cfg.PollIntervalMs)
	assert.Equal(t, "ctrl+alt+left", cfg.Hotkeys.Backward)
}

func TestLoadFromInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))

	cfg, err := LoadFrom(path)
	require.Error(t, err)
	assert.Equal(t, 250, cfg.PollIntervalMs)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		PollIntervalMs: 10,
		Hotkeys:        Hotkeys{Forward: "Ctrl + Shift + PageDown", Backward: "hyper+x"},
		Log:            Log{Level: "LOUD"},
	}
	cfg.Validate()

	assert.Equal(t, 100, cfg.PollIntervalMs)
	assert.Equal(t, "ctrl+shift+pagedown", cfg.Hotkeys.Forward)
	assert.Empty(t, cfg.Hotkeys.Backward)
	assert.Equal(t, "info", cfg.Log.Level)

	cfg.PollIntervalMs = 60000
	cfg.Validate()
	assert.Equal(t, 5000, cfg.PollIntervalMs)
}

func TestParseHotkey(t *testing.T) {
	mods, key, err := ParseHotkey("ctrl+alt+right")
	require.NoError(t, err)
	assert.Equal(t, []string{"ctrl", "alt"}, mods)
	assert.Equal(t, "right", key)

	mods, key, err = ParseHotkey("f9")
	require.NoError(t, err)
	assert.Empty(t, mods)
	assert.Equal(t, "f9", key)

	_, _, err = ParseHotkey("+")
	assert.Error(t, err)
}
