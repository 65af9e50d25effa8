package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `log-level: debug
http-port: "8080"

game:
  width: 10
  height: 10
  max-ship-size: 4
  difficulty: medium
`

func writeConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	return path
}

func TestMustLoad(t *testing.T) {
	t.Run("File values and defaults", func(t *testing.T) {
		// When: a config file without some sections is loaded
		conf := MustLoad(writeConfig(t))

		// Then: missing values fall back to their defaults
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "8080", conf.HTTPPort)
		assert.Equal(t, "9091", conf.SocketPort)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, Game{Width: 10, Height: 10, MaxShipSize: 4, Difficulty: "medium", MaxRegenerations: 1000}, conf.Game)
	})

	t.Run("Environment overrides game settings", func(t *testing.T) {
		// Given: game settings in the environment
		t.Setenv("GAME_WIDTH", "12")
		t.Setenv("GAME_HEIGHT", "8")
		t.Setenv("GAME_MAX_SHIP_SIZE", "3")
		t.Setenv("GAME_DIFFICULTY", "hard")
		t.Setenv("GAME_MAX_REGENERATIONS", "50")

		// When: the file is loaded
		conf := MustLoad(writeConfig(t))

		// Then: the environment wins over the file
		assert.Equal(t, Game{Width: 12, Height: 8, MaxShipSize: 3, Difficulty: "hard", MaxRegenerations: 50}, conf.Game)
	})

	t.Run("Missing file panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
		})
	})
}
