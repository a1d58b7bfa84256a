package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, 8090, cfg.Server.Port)
	assert.Equal(t, "light", cfg.Theme.Name)
	assert.Equal(t, 50, cfg.Generator.DefaultCount)
	assert.Equal(t, 500, cfg.Generator.MaxCount)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"zero read timeout", func(c *Config) { c.Server.ReadTimeout = 0 }},
		{"zero default count", func(c *Config) { c.Generator.DefaultCount = 0 }},
		{"max below default", func(c *Config) { c.Generator.MaxCount = 10; c.Generator.DefaultCount = 20 }},
		{"unknown theme", func(c *Config) { c.Theme.Name = "sepia" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestValidateNormalizesLogging(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "syslog"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.validate())
	assert.Equal(t, "both", cfg.Logging.Output)
	assert.NotEmpty(t, cfg.Logging.FilePath)
}

func TestMergeConfigsEnvWins(t *testing.T) {
	fileCfg := *Default()
	fileCfg.Server.Port = 9000
	fileCfg.Theme.Name = "dark"

	envCfg := Config{}
	envCfg.Server.Port = 8500

	merged := mergeConfigs(fileCfg, envCfg)
	assert.Equal(t, 8500, merged.Server.Port, "env value wins")
	assert.Equal(t, "dark", merged.Theme.Name, "file fills the gap")
}

func TestScoreToGrade(t *testing.T) {
	tests := []struct {
		score int
		want  int
	}{
		{100, 5}, {90, 5},
		{89, 4}, {80, 4},
		{79, 3}, {65, 3},
		{64, 2}, {50, 2},
		{49, 1}, {0, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ScoreToGrade(tt.score), "score %d", tt.score)
	}
}
