package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"sketchforge/internal/firmware"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	require.Equal(t, "https://arduboy.ried.cl/repo.json", cfg.Catalog.URL)
	require.Equal(t, "arduino-cli", cfg.Compiler.Binary)
	require.Equal(t, "arduboy-homemade:avr:arduboy-homemade", cfg.Compiler.FQBN)
	require.Equal(t, "git", cfg.Git.Binary)
	require.Empty(t, cfg.History.Path)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadAppliesDefaultsToPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketchforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
compiler:
  binary: /opt/arduino/arduino-cli
history:
  path: builds.db
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/opt/arduino/arduino-cli", cfg.Compiler.Binary)
	require.Equal(t, "arduboy-homemade:avr:arduboy-homemade", cfg.Compiler.FQBN)
	require.Equal(t, "builds.db", cfg.History.Path)
	require.Equal(t, "https://arduboy.ried.cl/repo.json", cfg.Catalog.URL)
}

func TestLoadExpandsEnvironment(t *testing.T) {
	t.Setenv("SKETCH_STAGING", "/var/tmp/forge")
	path := filepath.Join(t.TempDir(), "sketchforge.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staging:\n  base_dir: ${SKETCH_STAGING}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/tmp/forge", cfg.Staging.BaseDir)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [:::\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestHardwareBuildConfiguration(t *testing.T) {
	h := HardwareConfig{Variant: string(firmware.VariantLeonardo)}
	cfg := h.BuildConfiguration()
	require.Equal(t, firmware.VariantLeonardo, cfg.Variant)
	require.Equal(t, firmware.DisplaySSD1306, cfg.Display)
	require.Equal(t, firmware.FlashSDA, cfg.FlashChip)

	full := HardwareConfig{
		Variant:   string(firmware.VariantMicro),
		Display:   string(firmware.DisplaySH1106),
		FlashChip: string(firmware.FlashRx),
	}.BuildConfiguration()
	require.Equal(t, firmware.VariantMicro, full.Variant)
	require.Equal(t, firmware.DisplaySH1106, full.Display)
	require.Equal(t, firmware.FlashRx, full.FlashChip)
}
