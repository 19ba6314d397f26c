package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRootCommand_HasAllSubcommands verifies the full CLI surface is
// registered: one subcommand per store operation.
func TestRootCommand_HasAllSubcommands(t *testing.T) {
	expected := []string{
		"init",
		"status",
		"pick",
		"update",
		"log",
		"tried",
		"lock",
		"unlock",
		"validate",
		"generate-from-tasks",
		"add-feature",
		"record-tests",
	}

	registered := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "subcommand %q not registered", name)
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	assert.Contains(t, rootCmd.Version, "1.2.3")
	assert.Contains(t, rootCmd.Version, "abc123")
}
