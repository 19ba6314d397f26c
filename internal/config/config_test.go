package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s := Load(v)

	assert.Equal(t, "warren.yaml", s.MemoryFile)
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, 30*time.Minute, s.StaleAfter)
	assert.NotEmpty(t, s.Agent, "agent identity must always have a fallback")
}

func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("memory_file", "/tmp/other.yaml")
	v.Set("agent", "worker-42")
	v.Set("log_level", "debug")
	v.Set("stale_after", "2h")

	s := Load(v)

	assert.Equal(t, "/tmp/other.yaml", s.MemoryFile)
	assert.Equal(t, "worker-42", s.Agent)
	assert.Equal(t, "debug", s.LogLevel)
	assert.Equal(t, 2*time.Hour, s.StaleAfter)
}
