package configloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/hypocrite/pkg/config"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// isolated returns options that only see files under dir.
func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		LookupEnv:          env(nil),
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), result.Config)
	assert.Empty(t, result.LoadedFrom)
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	path := writeFile(t, filepath.Join(dir, ".hypocrite.yml"), "output_dir: gen\njobs: 2\n")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	result, err := Load(context.Background(), isolated(sub))
	require.NoError(t, err)
	assert.Equal(t, "gen", result.Config.OutputDir)
	assert.Equal(t, 2, result.Config.Jobs)
	assert.Equal(t, []string{path}, result.LoadedFrom)
	assert.Equal(t, path, result.Paths.Project)

	// Defaults survive for fields the file does not mention.
	assert.True(t, result.Config.ShouldWriteIfChanged())
	assert.Equal(t, []string{".hypo"}, result.Config.Extensions)
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hypocrite.yml"), "jobs: 1\n")
	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))

	found, err := FindProjectConfig(context.Background(), repo)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestFindProjectConfig_Preference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "hypocrite.yaml"), "")
	preferred := writeFile(t, filepath.Join(dir, ".hypocrite.yml"), "")

	found, err := FindProjectConfig(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, preferred, found)
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".hypocrite.yml"), `
output_dir: from-project
template_dir: from-project
jobs: 1
color: never
ignore: ["project/**"]
`)
	explicit := writeFile(t, filepath.Join(dir, "explicit.yml"), `
template_dir: from-explicit
jobs: 2
backups:
  enabled: true
`)

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	opts.LookupEnv = env(map[string]string{
		"HYPOCRITE_JOBS":  "3",
		"HYPOCRITE_COLOR": "always",
	})
	opts.CLIConfig = &config.Config{Color: config.ColorAuto, WriteIfChanged: config.Bool(false)}

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)

	cfg := result.Config
	assert.Equal(t, "from-project", cfg.OutputDir)
	assert.Equal(t, "from-explicit", cfg.TemplateDir)
	assert.Equal(t, 3, cfg.Jobs)
	assert.Equal(t, config.ColorAuto, cfg.Color)
	assert.Equal(t, []string{"project/**"}, cfg.Ignore)
	assert.True(t, cfg.BackupConfig().Enabled)
	assert.False(t, cfg.ShouldWriteIfChanged())
	assert.Len(t, result.LoadedFrom, 2)
	assert.Equal(t, explicit, result.LoadedFrom[1])
}

func TestLoad_NoConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hypocrite.yml"), "output_dir: ignored\n")

	opts := isolated(dir)
	opts.NoConfig = true

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, result.Config.OutputDir)
	assert.Empty(t, result.LoadedFrom)
	assert.Empty(t, result.Paths.Project)
}

func TestLoad_NoConfigStillLoadsExplicit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	explicit := writeFile(t, filepath.Join(dir, "custom.yml"), "output_dir: custom\n")

	opts := isolated(dir)
	opts.NoConfig = true
	opts.ExplicitPath = explicit

	result, err := Load(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "custom", result.Config.OutputDir)
}

func TestLoad_UserConfig(t *testing.T) {
	// Not parallel: sets XDG_CONFIG_HOME.
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	writeFile(t, filepath.Join(home, "hypocrite", "config.yml"), "template_dir: mine\n")

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	result, err := Load(context.Background(), LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		LookupEnv:          env(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, "mine", result.Config.TemplateDir)
	assert.Equal(t, filepath.Join(home, "hypocrite", "config.yml"), result.Paths.User)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		env      map[string]string
		cli      *config.Config
		explicit string
		contains string
	}{
		{name: "invalid yaml", file: "jobs: [\n", contains: "parse yaml"},
		{name: "unknown key", file: "colour: auto\n", contains: "colour"},
		{name: "invalid value in file", file: "color: plaid\n", contains: ".hypocrite.yml: color"},
		{name: "invalid env", env: map[string]string{"HYPOCRITE_JOBS": "lots"}, contains: "HYPOCRITE_JOBS"},
		{name: "invalid env value", env: map[string]string{"HYPOCRITE_BACKUPS_MODE": "xdg"}, contains: "backups.mode"},
		{name: "invalid flag", cli: &config.Config{Jobs: -1}, contains: "jobs"},
		{name: "missing explicit", explicit: "missing.yml", contains: "file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
			if tt.file != "" {
				writeFile(t, filepath.Join(dir, ".hypocrite.yml"), tt.file)
			}

			opts := isolated(dir)
			opts.LookupEnv = env(tt.env)
			opts.CLIConfig = tt.cli
			if tt.explicit != "" {
				opts.ExplicitPath = filepath.Join(dir, tt.explicit)
			}

			_, err := Load(context.Background(), opts)
			require.ErrorIs(t, err, config.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))
	writeFile(t, filepath.Join(dir, ".hypocrite.yml"), "extensions: [.hypo, .hypo]\n")

	result, err := Load(context.Background(), isolated(dir))
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "listed more than once")
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, isolated(t.TempDir()))
	require.ErrorIs(t, err, context.Canceled)
}

func TestLoadFromEnv(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := loadFromEnv(cfg, env(map[string]string{
		"HYPOCRITE_OUTPUT_DIR":       "out",
		"HYPOCRITE_TEMPLATE_DIR":     "tmpl",
		"HYPOCRITE_BACKUPS":          "1",
		"HYPOCRITE_WRITE_IF_CHANGED": "false",
		"HYPOCRITE_EXTENSIONS":       ".hypo, .t ,",
		"HYPOCRITE_IGNORE":           "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "tmpl", cfg.TemplateDir)
	assert.True(t, *cfg.Backups.Enabled)
	assert.False(t, cfg.ShouldWriteIfChanged())
	assert.Equal(t, []string{".hypo", ".t"}, cfg.Extensions)
	assert.Nil(t, cfg.Ignore)
}

func TestEnvVarNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "HYPOCRITE_OUTPUT_DIR", GetEnvVarName("output_dir"))
	assert.Equal(t, "HYPOCRITE_BACKUPS", GetEnvVarName("backups.enabled"))
	assert.Empty(t, GetEnvVarName("nope"))

	vars := ListEnvVars()
	assert.Len(t, vars, len(envMappings))
	assert.Contains(t, vars, "HYPOCRITE_COLOR")
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.Ignore = []string{"a/**"}

	merged := MergeAll(base, &config.Config{}, &config.Config{
		Backups:        config.BackupsConfig{Enabled: config.Bool(true)},
		WriteIfChanged: config.Bool(false),
		Extensions:     []string{".t"},
	})

	assert.Equal(t, []string{"a/**"}, merged.Ignore)
	assert.Equal(t, []string{".t"}, merged.Extensions)
	assert.True(t, *merged.Backups.Enabled)
	assert.Equal(t, "sidecar", merged.Backups.Mode)
	assert.False(t, merged.ShouldWriteIfChanged())

	// Inputs are not modified.
	assert.Equal(t, []string{".hypo"}, base.Extensions)
	assert.False(t, *base.Backups.Enabled)

	assert.Nil(t, MergeAll())
}
