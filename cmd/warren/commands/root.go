package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/burrowhq/warren/internal/config"
	"github.com/burrowhq/warren/pkg/memory"
)

var (
	version string
	commit  string
	date    string
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warren",
	Short: "Warren - persistent coordination store for stateless workers",
	Long: `Warren is a persistent coordination store that lets independent,
stateless worker processes collaborate on a set of discrete features
across repeated invocations with no shared memory.

All state lives in a single human-inspectable YAML document: the feature
list, the single active work lock, an append-only audit log, per-feature
attempt history, and aggregate test counters. An external orchestrator
repeatedly calls 'pick', 'lock', and 'unlock' and spawns the workers
that do the actual work.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ./warren-config.yaml)")
	rootCmd.PersistentFlags().StringP("file", "f", "warren.yaml", "memory document path")
	rootCmd.PersistentFlags().String("agent", "", "agent identity recorded on mutations (default: <hostname>-<pid>)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug | info | warn | error")
	bindFlag("memory_file", rootCmd.PersistentFlags(), "file")
	bindFlag("agent_flag", rootCmd.PersistentFlags(), "agent")
	bindFlag("log_level", rootCmd.PersistentFlags(), "log-level")
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("warren-config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("WARREN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "error reading config file:", err)
			os.Exit(1)
		}
	}
}

// settings returns the effective configuration for this invocation.
func settings() config.Settings {
	s := config.Load(viper.GetViper())
	// The --agent flag outranks the configured identity.
	if flagAgent := viper.GetString("agent_flag"); flagAgent != "" {
		s.Agent = flagAgent
	}
	return s
}

// buildLogger creates the slog logger used by the store. Logs go to
// stderr so stdout stays reserved for structured command output.
func buildLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})).
		With(slog.String("component", "warren"))
}

// newStore builds the memory store for the configured document path.
func newStore(s config.Settings) *memory.Store {
	return memory.NewStore(s.MemoryFile, buildLogger(s.LogLevel))
}

func bindFlag(viperKey string, fs *pflag.FlagSet, flagName string) {
	if err := viper.BindPFlag(viperKey, fs.Lookup(flagName)); err != nil {
		panic(fmt.Sprintf("bindFlag %q -> %q: %v", flagName, viperKey, err))
	}
}
