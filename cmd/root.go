package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"aprskit/aprs"
	"aprskit/config"
	"aprskit/logging"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "aprskit",
	Short: "APRS frame codec and monitor",
	Long: `aprskit decodes and encodes APRS frames in TNC2 text, raw AX.25 and
KISS form, and monitors a KISS TNC or APRS-IS server in the terminal.

Configuration is read from config.toml (see --config). When the default
file does not exist the built-in defaults are used.`,
	Version:       aprs.SoftwareVersion,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to config.toml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error, off)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads --config. A missing default file is not an error.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	conf, err := config.Load(configPath)
	if err == nil {
		return conf, nil
	}
	if errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") {
		return config.Default(), nil
	}
	return config.Config{}, fmt.Errorf("failed to load config: %w", err)
}

// newLogger honours --log-level over the configured level.
func newLogger(conf config.Config, w io.Writer) *log.Logger {
	level := conf.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logging.New(level, w)
}

// openLogFile returns the configured log destination for full-screen
// commands, which cannot log to the terminal.
func openLogFile(conf config.Config) (io.WriteCloser, error) {
	if conf.Log.File == "" {
		return nopCloser{io.Discard}, nil
	}
	return os.OpenFile(conf.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
