package main

import (
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReadConfigMissing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.yaml")

	cfg, err := readConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	_, err = readConfig(missing, true)
	assert.Error(t, err)

	cfg, err = readConfig("", true)
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Output)
}

func TestReadConfig(t *testing.T) {
	cfg, err := readConfig(writeConfig(t, `
schemes: [gpt, mbr]
max_depth: 2
log_level: debug
output: json
sector_size: 2048
optical: true
`), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt", "mbr"}, cfg.Schemes)
	assert.Equal(t, 2, cfg.MaxDepth)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, uint32(2048), cfg.SectorSize)
	assert.True(t, cfg.Optical)
	assert.Equal(t, int64(8*gb), cfg.MaxInflate)
}

func TestReadConfigInvalid(t *testing.T) {
	for name, body := range map[string]string{
		"output":  "output: xml\n",
		"depth":   "max_depth: -1\n",
		"level":   "log_level: loud\n",
		"unknown": "colour: blue\n",
		"syntax":  "schemes: [gpt\n",
	} {
		_, err := readConfig(writeConfig(t, body), true)
		assert.Error(t, err, name)
	}
}

func TestSetupLogging(t *testing.T) {
	defer log.SetLevel(log.GetLevel())

	require.NoError(t, setupLogging("error", false))
	assert.Equal(t, log.ErrorLevel, log.GetLevel())
	require.NoError(t, setupLogging("error", true))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	assert.Error(t, setupLogging("nope", false))
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/dskpart/config.yaml", defaultConfigPath())
}
