package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hypocrite/pkg/config"
	"github.com/yaklabco/hypocrite/pkg/fsutil"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	assert.Equal(t, []string{".hypo"}, cfg.Extensions)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.True(t, cfg.ShouldWriteIfChanged())
	assert.Equal(t, fsutil.BackupConfig{Enabled: false, Mode: fsutil.BackupModeSidecar}, cfg.BackupConfig())
	assert.True(t, config.Validate(cfg).Valid())
}

func TestShouldWriteIfChanged(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.True(t, nilCfg.ShouldWriteIfChanged())
	assert.True(t, (&config.Config{}).ShouldWriteIfChanged())
	assert.False(t, (&config.Config{WriteIfChanged: config.Bool(false)}).ShouldWriteIfChanged())
}

func TestBackupConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Backups: config.BackupsConfig{Enabled: config.Bool(true), Mode: "none"}}
	assert.Equal(t, fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeNone}, cfg.BackupConfig())
}

func TestColorMode_IsValid(t *testing.T) {
	t.Parallel()

	for _, mode := range []config.ColorMode{config.ColorAuto, config.ColorAlways, config.ColorNever} {
		assert.True(t, mode.IsValid(), mode)
	}
	assert.False(t, config.ColorMode("sometimes").IsValid())
	assert.False(t, config.ColorMode("").IsValid())
}

func TestClone(t *testing.T) {
	t.Parallel()

	var nilCfg *config.Config
	assert.Nil(t, nilCfg.Clone())

	original := config.NewConfig()
	original.Ignore = []string{"vendor/**"}

	clone := original.Clone()
	require.NotNil(t, clone)
	assert.Equal(t, original, clone)

	clone.Extensions[0] = ".other"
	clone.Ignore[0] = "build/**"
	*clone.WriteIfChanged = false
	*clone.Backups.Enabled = true

	assert.Equal(t, ".hypo", original.Extensions[0])
	assert.Equal(t, "vendor/**", original.Ignore[0])
	assert.True(t, *original.WriteIfChanged)
	assert.False(t, *original.Backups.Enabled)
}
