package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"imgopt/internal/logging"
)

var (
	version = "0.1.0"
	verbose bool
	logFile string
)

var rootCmd = &cobra.Command{
	Use:   "imgopt",
	Short: "Bulk image optimizer for web-ready assets",
	Long: `imgopt — shrinks folders of photos into web-ready assets.

Re-encodes JPEG/PNG/WebP with tuned quality settings, resizes into layout
bounds, center-crops to aspect ratios, strips or carries EXIF/ICC metadata,
and writes a machine-readable report of every byte saved.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write a rotated JSON log to this file")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"imgopt %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// newLogger builds the logger handed to the pipeline. The console core is
// dropped while the progress view owns the terminal; a --log-file sink
// keeps full detail either way.
func newLogger(noConsole bool) logging.Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{Level: level, File: logFile, NoConsole: noConsole})
}
