package minext

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minext.yaml")
	writeFile(t, path, "input_dir: instancias\nskip:\n  - enunciado.txt\n  - borrador.txt\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "instancias", cfg.InputDir)
	assert.Equal(t, []string{"enunciado.txt", "borrador.txt"}, cfg.Skip)
	assert.Equal(t, "DatosDZN", cfg.OutputDir)
	assert.Equal(t, ".dzn", cfg.DznExt)
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "skip: [unterminated\n")
	_, err = LoadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")

	clash := filepath.Join(dir, "clash.yaml")
	writeFile(t, clash, "dzn_ext: .txt\n")
	_, err = LoadConfig(clash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "instance_ext and dzn_ext")
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputExt = "out"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_ext must start with a dot")

	cfg = DefaultConfig()
	cfg.InstanceExt = ""
	assert.Error(t, cfg.Validate())
}
