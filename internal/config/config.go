// Package config loads the add-on options the supervisor writes to
// /data/options.json, layered with SMS_GATEWAY_* environment variables and
// command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "SMS_GATEWAY"

	addonDataDir  = "/data"
	addonOptions  = "/data/options.json"
	localOptions  = "./data/options.json"
	redactedValue = "***"
)

// Options are the settings consumed by the launcher. PIN, Port, Username and
// Password are not interpreted here; they are handed to the wrapped server.
type Options struct {
	Device        string `mapstructure:"device" json:"device"`
	PIN           string `mapstructure:"pin" json:"pin"`
	Port          int    `mapstructure:"port" json:"port"`
	Username      string `mapstructure:"username" json:"username"`
	Password      string `mapstructure:"password" json:"password"`
	LogLevel      string `mapstructure:"log_level" json:"log_level"`
	AppDir        string `mapstructure:"app_dir" json:"app_dir"`
	Interpreter   string `mapstructure:"interpreter" json:"interpreter"`
	Entrypoint    string `mapstructure:"entrypoint" json:"entrypoint"`
	DevicePattern string `mapstructure:"device_pattern" json:"device_pattern"`
}

var defaults = map[string]any{
	"device":         "/dev/ttyUSB0",
	"pin":            "",
	"port":           5000,
	"username":       "",
	"password":       "",
	"log_level":      "info",
	"app_dir":        "/app",
	"interpreter":    "python3",
	"entrypoint":     "run.py",
	"device_pattern": "/dev/tty*",
}

// flagKeys maps flag names to option keys for flags the CLI may register.
var flagKeys = map[string]string{
	"device":    "device",
	"log-level": "log_level",
	"app-dir":   "app_dir",
	"port":      "port",
}

// DefaultPath picks the supervisor-managed options file inside an add-on
// container and a project-local one during development.
func DefaultPath() string {
	if _, err := os.Stat(addonDataDir); err == nil || os.Getenv("HA_ADDON") != "" {
		return addonOptions
	}
	return localOptions
}

// Load resolves options from path, the environment and flags (highest wins).
// A missing file is fine; a malformed one is not.
func Load(path string, flags *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("read options %s: %w", path, err)
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("validate options: %w", err)
	}
	return &opts, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate trims string fields and checks the few invariants the launcher
// relies on. The device path is only checked advisorily, at startup.
func (o *Options) Validate() error {
	o.Device = strings.TrimSpace(o.Device)
	o.AppDir = strings.TrimSpace(o.AppDir)
	o.Interpreter = strings.TrimSpace(o.Interpreter)
	o.Entrypoint = strings.TrimSpace(o.Entrypoint)
	o.LogLevel = strings.ToLower(strings.TrimSpace(o.LogLevel))

	if o.Device == "" {
		return fmt.Errorf("device path required")
	}
	if o.AppDir == "" {
		return fmt.Errorf("app_dir required")
	}
	if o.Interpreter == "" {
		return fmt.Errorf("interpreter required")
	}
	if o.Entrypoint == "" {
		return fmt.Errorf("entrypoint required")
	}
	if o.Port < 1 || o.Port > 65535 {
		return fmt.Errorf("port %d out of range", o.Port)
	}
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
	if _, err := zerolog.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if o.DevicePattern == "" {
		o.DevicePattern = defaults["device_pattern"].(string)
	}
	return nil
}

// Level returns the parsed log level; Validate guarantees it parses.
func (o *Options) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(o.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// PassThrough is the environment handed to the wrapped server.
func (o *Options) PassThrough() map[string]string {
	return map[string]string{
		"DEVICE":           o.Device,
		"PIN":              o.PIN,
		"PORT":             strconv.Itoa(o.Port),
		"USERNAME":         o.Username,
		"PASSWORD":         o.Password,
		"PYTHONUNBUFFERED": "1",
	}
}

// Redacted returns a copy safe to log or write into reports.
func (o Options) Redacted() Options {
	if o.PIN != "" {
		o.PIN = redactedValue
	}
	if o.Password != "" {
		o.Password = redactedValue
	}
	return o
}
