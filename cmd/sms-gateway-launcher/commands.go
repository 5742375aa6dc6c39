package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sms-gateway-addon/internal/config"
	"sms-gateway-addon/internal/daemon"
	"sms-gateway-addon/internal/diag"
	"sms-gateway-addon/internal/launcher"
	"sms-gateway-addon/internal/logging"
	"sms-gateway-addon/internal/serialdev"
	"sms-gateway-addon/internal/store"
	"sms-gateway-addon/pkg/version"
)

func optionsPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultPath()
}

// loadOptions resolves options and switches the process logger to the
// configured level.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	path := optionsPath()
	opts, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	log = logging.Setup(opts.Level())
	log.Debug().Str("options", path).Interface("resolved", opts.Redacted()).Msg("options loaded")
	return opts, nil
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Check the modem device and start the gateway (default)",
		Args:  cobra.NoArgs,
		RunE:  runLaunch,
	}
}

func runLaunch(cmd *cobra.Command, args []string) error {
	opts, err := loadOptions(cmd)
	if err != nil {
		return err
	}
	log.Info().
		Str("version", version.Version).
		Str("device", opts.Device).
		Int("port", opts.Port).
		Msg("sms gateway launcher starting")

	_, err = launcher.New(opts, log).Start()
	return err
}

func newCheckCmd() *cobra.Command {
	var asJSON bool
	var output string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report modem device status and serial devices without starting the gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			guard := serialdev.New(log, opts.DevicePattern)
			res := guard.Check(opts.Device)
			ports := res.Ports
			if res.CharDevice {
				if ports, err = guard.List(); err != nil {
					res.ListErr = err.Error()
				}
			}

			report := diag.Collector{}.Build(*opts, res, ports, version.Version)
			if output != "" {
				b, err := report.JSON()
				if err != nil {
					return err
				}
				if err := store.AtomicWrite(output, b, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				log.Info().Str("path", output).Msg("report written")
			}
			if asJSON {
				b, err := report.JSON()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return report.WriteText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the JSON report to this file")
	return cmd
}

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install and start the launcher as a system service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Fail early on options the service would reject at every start.
			if _, err := loadOptions(cmd); err != nil {
				return err
			}
			return daemon.Install(log, optionsPath())
		},
	}
}

func newUninstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Stop and remove the system service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return daemon.Uninstall(log)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
