// Package commands implements the CLI commands for dailyfeed.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/dailyfeed/internal/config"
	"github.com/jmylchreest/dailyfeed/internal/logger"
	"github.com/jmylchreest/dailyfeed/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "dailyfeed",
	Short: "Build a daily reading digest from RSS feeds and comment threads",
	Long: `Dailyfeed fetches the configured feeds, converts every article into a
small document model, and renders the result as a single HTML or Markdown
digest. The document model can also be exported as JSON or YAML and
rendered later.

Examples:
  # Build the digest described by ./dailyfeed.yaml
  dailyfeed build

  # Build with an explicit config and write Markdown
  dailyfeed build --config feeds.yaml -o today.md

  # Export the document model, then render it separately
  dailyfeed build -o today.json
  dailyfeed render today.json -o today.html

  # Inspect how an HTML fragment is parsed
  echo '<p>Hello <b>world</b></p>' | dailyfeed parse`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default ./dailyfeed.yaml or $XDG_CONFIG_HOME/dailyfeed/dailyfeed.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "only log errors")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text, json")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetString("log_format") == "json",
		})
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.Full())
		},
	})
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// loadConfig reads the file named by --config, or searches the default
// locations.
func loadConfig() (*config.Config, error) {
	if path := viper.GetString("config"); path != "" {
		return config.LoadFile(path)
	}
	return config.LoadDefault()
}

// writeTo opens path for writing and passes it to fn. An empty path or "-"
// writes to stdout.
func writeTo(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}

	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
