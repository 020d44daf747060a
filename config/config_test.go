package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative domain margin", func(c *Config) { c.DomainMargin = -1 }},
		{"zero elevation resolution", func(c *Config) { c.ElevationModelResolution = 0 }},
		{"roof percentile out of range", func(c *Config) { c.RoofPercentile = 1.5 }},
		{"zero mesh resolution", func(c *Config) { c.MeshResolution = 0 }},
		{"zero domain height", func(c *Config) { c.DomainHeight = 0 }},
		{"zero smoothing iterations", func(c *Config) { c.SmoothingMaxIterations = 0 }},
		{"inverted manual bounds", func(c *Config) {
			c.AutoDomain = false
			c.XMin, c.XMax, c.YMin, c.YMax = 10, 0, 10, 0
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.modify(&cfg)
			assert.Error(t, cfg.Validate(), "expected Validate() to reject: %s", tc.name)
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dtcc-builder.yml")

	want := Default()
	want.MeshResolution = 5.0
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.MeshResolution)
	assert.Equal(t, want.DomainHeight, got.DomainHeight)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yml")
	require.NoError(t, Save(path, Config{}))
	_, err := Load(path)
	assert.Error(t, err, "expected Load to reject a config that fails Validate()")
}

func TestLoadMissingFileIsError(t *testing.T) {
	_, err := Load("/nonexistent/path/dtcc-builder.yml")
	assert.Error(t, err, "expected an error for a missing config file")
}
