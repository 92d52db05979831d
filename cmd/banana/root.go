// Root command and global flags for the banana CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/banana/internal/logging"
	"github.com/mesh-intelligence/banana/internal/paths"
	"github.com/mesh-intelligence/banana/pkg/banana"
	"github.com/mesh-intelligence/banana/pkg/types"
)

// errUsage marks malformed command-line arguments.
var errUsage = errors.New("usage")

// Global flag values.
var (
	flagConfigDir     string
	flagDB            string
	flagLogLevel      string
	flagRedirectStdio bool
	flagJSON          bool
)

// storeConfig is resolved by PersistentPreRunE for all subcommands.
var storeConfig types.Config

// restoreLogging undoes logging.Setup; nil until setup ran.
var restoreLogging func()

var rootCmd = &cobra.Command{
	Use:           "banana",
	Short:         "Record commit metadata in a local SQLite store",
	Version:       banana.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		configDir, err := paths.ResolveConfigDir(flagConfigDir)
		if err != nil {
			return err
		}
		v, err := loadConfig(configDir)
		if err != nil {
			return err
		}

		dbPath, err := paths.ResolveDBPath(flagDB, v.GetString(cfgKeyDBPath))
		if err != nil {
			return err
		}
		level := v.GetString(cfgKeyLogLevel)
		if cmd.Flags().Changed("log-level") {
			level = flagLogLevel
		}

		storeConfig = types.Config{
			DBPath:        dbPath,
			LogLevel:      level,
			RedirectStdio: flagRedirectStdio || v.GetBool(cfgKeyRedirectStdio),
			BusyTimeoutMS: v.GetInt(cfgKeyBusyTimeoutMS),
		}
		if err := storeConfig.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}

		restore, err := logging.Setup(logging.Options{
			Level:         storeConfig.LogLevel,
			RedirectStdio: storeConfig.RedirectStdio,
			Output:        os.Stderr,
		})
		if err != nil {
			return err
		}
		restoreLogging = restore
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database file (default: $(CWD)/banana.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", types.LogLevelInfo, "log level: info, debug or error")
	rootCmd.PersistentFlags().BoolVar(&flagRedirectStdio, "redirect-stdio", false, "route stdout and stderr through the logger")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(insertCmd)
	rootCmd.AddCommand(selectCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// closeLogging restores stdio and the default logger if Setup ran.
func closeLogging() {
	if restoreLogging != nil {
		restoreLogging()
		restoreLogging = nil
	}
}
