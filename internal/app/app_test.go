package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/strset/internal/script"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))
	return path
}

const scenario = `
call "create" {
  as = "a"
}
call "insert" {
  set   = set.a
  value = "a"
}
call "immutable_singleton" {
  value = "x"
  as    = "frozen"
}
call "clear" {
  set = set.frozen
}
call "size" {
  set    = set.frozen
  expect = 1
}
`

func TestNewConfig(t *testing.T) {
	_, err := NewConfig(Config{})
	assert.ErrorContains(t, err, "ScriptPath is a required configuration field")

	cfg, err := NewConfig(Config{ScriptPath: "main.hcl"})
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestRun_Success(t *testing.T) {
	cfg := &Config{ScriptPath: writeScript(t, scenario)}
	testApp, out, logs := SetupAppTest(t, cfg)

	err := testApp.Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "create() = 1")
	assert.Contains(t, out.String(), "size(2) = 1")
	assert.Contains(t, logs.String(), "Script finished.")
	assert.Equal(t, 1, testApp.Registry().Test(1, "a"))
}

func TestRun_DebugControlsRegistryDiagnostics(t *testing.T) {
	t.Run("debug off", func(t *testing.T) {
		cfg := &Config{ScriptPath: writeScript(t, scenario)}
		testApp, _, logs := SetupAppTest(t, cfg)
		require.NoError(t, testApp.Run(context.Background()))
		assert.NotContains(t, logs.String(), "component=registry")
	})

	t.Run("debug on", func(t *testing.T) {
		cfg := &Config{ScriptPath: writeScript(t, scenario), Debug: true}
		testApp, out, logs := SetupAppTest(t, cfg)
		require.NoError(t, testApp.Run(context.Background()))
		assert.Contains(t, logs.String(), "component=registry")
		assert.Contains(t, logs.String(), "cannot perform modifications to the immutable set")
		// Output is identical regardless of diagnostics.
		assert.Contains(t, out.String(), "size(2) = 1")
	})
}

func TestRun_JSONLogs(t *testing.T) {
	cfg := &Config{ScriptPath: writeScript(t, scenario), LogFormat: "json"}
	testApp, _, logs := SetupAppTest(t, cfg)
	require.NoError(t, testApp.Run(context.Background()))
	assert.Contains(t, logs.String(), `"msg":"Script finished."`)
}

func TestRun_ExpectationFailure(t *testing.T) {
	src := "call \"create\" {\n  expect = 7\n}\n"
	testApp, _, _ := SetupAppTest(t, &Config{ScriptPath: writeScript(t, src)})

	err := testApp.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, script.ErrExpectationFailed)
	assert.ErrorContains(t, err, "script run failed")
}

func TestRun_LoadFailure(t *testing.T) {
	testApp, _, _ := SetupAppTest(t, &Config{ScriptPath: filepath.Join(t.TempDir(), "missing.hcl")})

	err := testApp.Run(context.Background())
	assert.ErrorContains(t, err, "failed to load script")
}

func TestRun_DebugAtInfoLevel(t *testing.T) {
	src := "call \"size\" {\n  set = 999\n}\ncall \"create\" {}\n"
	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	cfg := &Config{ScriptPath: writeScript(t, src), Debug: true, LogLevel: "info", LogFormat: "text"}

	err := NewApp(out, logs, cfg).Run(context.Background())
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "set doesn't exist")
	assert.Contains(t, logs.String(), "Set created.")
	// The app's own debug records stay filtered.
	assert.NotContains(t, logs.String(), "App.Run method started.")
}

func TestRun_SkipsSettingsFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.hcl"), []byte("call \"create\" {}\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strset.hcl"), []byte("debug = true\n"), 0o600))
	custom := filepath.Join(dir, "settings.hcl")
	require.NoError(t, os.WriteFile(custom, []byte("debug = false\n"), 0o600))

	testApp, out, _ := SetupAppTest(t, &Config{ScriptPath: dir, ConfigPath: custom})

	require.NoError(t, testApp.Run(context.Background()))
	assert.Equal(t, "create() = 1\n", out.String())
}
