// Package daemon registers the launcher with the host service manager, for
// installs that run the gateway outside the add-on supervisor.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kardianos/service"
	"github.com/rs/zerolog"
)

const (
	ServiceName = "sms-gateway"
	ServiceDesc = "SMS gateway launcher (GSM modem REST server)"
)

// launcherProgram is a stub; the service manager execs the binary directly.
type launcherProgram struct{}

func (p *launcherProgram) Start(s service.Service) error { return nil }
func (p *launcherProgram) Stop(s service.Service) error  { return nil }

// serviceConfig describes the unit for executable started with configPath.
func serviceConfig(executable, configPath string) *service.Config {
	return &service.Config{
		Name:        ServiceName,
		DisplayName: ServiceName,
		Description: ServiceDesc,
		Executable:  executable,
		Arguments:   []string{"run", "--config", configPath},
		Option: service.KeyValue{
			"Restart": "on-failure",
		},
	}
}

func newService(configPath string) (service.Service, error) {
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("get executable path: %w", err)
	}
	exePath, err = filepath.EvalSymlinks(exePath)
	if err != nil {
		return nil, fmt.Errorf("resolve executable symlink: %w", err)
	}
	absConfig, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("absolute config path: %w", err)
	}
	s, err := service.New(&launcherProgram{}, serviceConfig(exePath, absConfig))
	if err != nil {
		return nil, fmt.Errorf("create service definition: %w", err)
	}
	return s, nil
}

// Install replaces any existing definition and starts the service.
func Install(log zerolog.Logger, configPath string) error {
	s, err := newService(configPath)
	if err != nil {
		return err
	}

	if status, err := s.Status(); err == nil && status == service.StatusRunning {
		log.Info().Msg("service is running, stopping it first")
		if err := s.Stop(); err != nil {
			log.Warn().Err(err).Msg("failed to stop existing service")
		}
	}
	// Uninstall first so a moved binary or config path is picked up.
	_ = s.Uninstall()

	log.Info().Str("platform", service.Platform()).Msg("installing system service")
	if err := s.Install(); err != nil {
		return fmt.Errorf("install service (root privileges required?): %w", err)
	}
	log.Info().Msg("starting system service")
	if err := s.Start(); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	return nil
}

// Uninstall stops (best effort) and removes the service definition.
func Uninstall(log zerolog.Logger) error {
	s, err := newService(".")
	if err != nil {
		return err
	}
	if err := s.Stop(); err != nil {
		log.Debug().Err(err).Msg("stop before uninstall")
	}
	if err := s.Uninstall(); err != nil {
		return fmt.Errorf("uninstall service: %w", err)
	}
	log.Info().Msg("service uninstalled")
	return nil
}
