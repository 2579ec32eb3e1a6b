package cmd

import (
	"context"
	"fmt"
	"os"

	"shellrun/pkg/config"
	"shellrun/pkg/log"
	"shellrun/pkg/system"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type loggerKey struct{}

var (
	cfgFile    string
	logLevel   string
	logFormat  string
	jsonOutput bool
	// newRunner builds the runner used by subcommands; tests replace it.
	newRunner = func(opts system.Options) system.CommandRunner {
		return system.NewLiveCommandRunner(opts)
	}
	rootCmd = &cobra.Command{
		Use:   "shellrun",
		Short: "shellrun runs shell commands and captures their output",
		Long: `A small tool that runs a command through the host shell, waits for it to exit,
and reports the captured standard output or a diagnosable failure.
Jobs declared in a config file can be run as a batch and checked against expected output.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			format, err := log.ParseFormat(logFormat)
			if err != nil {
				return err
			}
			logger := log.NewSlogLoggerWithFormat(level, format, cmd.ErrOrStderr())
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, log.Logger(logger)))
			return nil
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loggerFrom(cmd *cobra.Command) log.Logger {
	return cmd.Context().Value(loggerKey{}).(log.Logger)
}

// loadConfig loads the config file. The default file is optional; a file
// named with --config must exist.
func loadConfig(cmd *cobra.Command, logger log.Logger) (*config.Config, error) {
	if !cmd.Flags().Changed("config") {
		exists, err := afero.Exists(system.AppFs, cfgFile)
		if err != nil {
			return nil, err
		}
		if !exists {
			logger.Debug("No config file, using defaults", "path", cfgFile)
			return &config.Config{}, nil
		}
	}
	cfg, err := config.LoadConfig(cfgFile, logger)
	if err != nil {
		return nil, fmt.Errorf("error loading config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultFile, "config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
}
