// Package config holds the runtime settings for the warren CLI, read
// from flags, WARREN_* environment variables, and an optional
// warren-config.yaml file, in that precedence order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Settings is the typed configuration for one CLI invocation.
type Settings struct {
	// MemoryFile is the path of the memory document to operate on.
	MemoryFile string

	// Agent is the identity recorded on locks, log entries, and status
	// updates when no --agent flag is given.
	Agent string

	// LogLevel is debug, info, warn, or error.
	LogLevel string

	// StaleAfter is the advisory threshold used by the status command
	// to flag a long-held lock. Nothing is evicted automatically.
	StaleAfter time.Duration
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("memory_file", "warren.yaml")
	v.SetDefault("agent", defaultAgent())
	v.SetDefault("log_level", "info")
	v.SetDefault("stale_after", 30*time.Minute)
}

// Load reads all values from the given viper instance.
func Load(v *viper.Viper) Settings {
	return Settings{
		MemoryFile: v.GetString("memory_file"),
		Agent:      v.GetString("agent"),
		LogLevel:   v.GetString("log_level"),
		StaleAfter: v.GetDuration("stale_after"),
	}
}

// defaultAgent derives a worker identity from the host and process so
// concurrent workers on one machine stay distinguishable.
func defaultAgent() string {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown-host"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}
