// Package cmd implements the command-line interface for eventcrawl.
// It provides the root command and subcommands for running ingestion and
// managing sources and the editorial queue.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joho/godotenv"
	"github.com/jonesrussell/eventcrawl/cmd/ingest"
	cmdqueue "github.com/jonesrussell/eventcrawl/cmd/queuecmd"
	cmdsources "github.com/jonesrussell/eventcrawl/cmd/sources"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands
	Debug bool

	// rootCmd represents the root command for the eventcrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "eventcrawl",
		Short: "An event ingestion pipeline",
		Long: `eventcrawl discovers candidate events from configured sources,
normalizes and deduplicates them and hands them to an editorial queue.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get debug flag before creating logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	// Initialize configuration
	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Execute the root command with a fresh context
	return rootCmd.ExecuteContext(context.Background())
}

// init initializes the root command and its subcommands.
func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	// Add subcommands
	rootCmd.AddCommand(ingest.Command())
	rootCmd.AddCommand(cmdsources.Command())
	rootCmd.AddCommand(cmdqueue.Command())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetEnvPrefix("EVENTCRAWL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errorsAs(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// A missing config file is fine; defaults and env vars apply.
	}

	if Debug {
		viper.Set("app.debug", true)
	}

	return nil
}

// errorsAs is a small indirection so the import list stays tidy.
func errorsAs(err error, target *viper.ConfigFileNotFoundError) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	if ok {
		*target = err.(viper.ConfigFileNotFoundError)
	}
	return ok
}
