package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sms-gateway-addon/internal/logging"
)

var (
	cfgFile  string
	logLevel string
	device   string
	appDir   string

	// log is replaced once options are resolved.
	log = logging.Setup(zerolog.InfoLevel)
)

var rootCmd = &cobra.Command{
	Use:   "sms-gateway-launcher",
	Short: "Start the SMS gateway add-on",
	Long: `sms-gateway-launcher checks that the configured GSM modem device exists,
then replaces itself with the SMS gateway REST server.

A missing device is reported but does not stop startup; the gateway makes the
authoritative attempt to open the modem.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLaunch,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "options file (default /data/options.json inside the add-on)")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	pf.StringVar(&device, "device", "", "modem character device, e.g. /dev/ttyUSB0")
	pf.StringVar(&appDir, "app-dir", "", "directory of the gateway server")

	rootCmd.AddCommand(
		newRunCmd(),
		newCheckCmd(),
		newInstallCmd(),
		newUninstallCmd(),
		newVersionCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("launcher failed")
		os.Exit(1)
	}
}
