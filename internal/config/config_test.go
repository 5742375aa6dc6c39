package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

const sampleOptions = `{
  "device": "/dev/ttyACM0",
  "pin": "1234",
  "port": 5001,
  "username": "admin",
  "password": "secret",
  "log_level": "debug"
}`

func writeOptions(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "missing.json"), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Device != "/dev/ttyUSB0" {
		t.Fatalf("device default: %s", opts.Device)
	}
	if opts.Port != 5000 || opts.AppDir != "/app" || opts.Interpreter != "python3" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	if opts.DevicePattern != "/dev/tty*" {
		t.Fatalf("pattern default: %s", opts.DevicePattern)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := writeOptions(t, sampleOptions)

	opts, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Device != "/dev/ttyACM0" || opts.Port != 5001 || opts.PIN != "1234" {
		t.Fatalf("file values not applied: %+v", opts)
	}
	if opts.LogLevel != "debug" {
		t.Fatalf("log level from file: %s", opts.LogLevel)
	}

	t.Setenv("SMS_GATEWAY_DEVICE", "/dev/ttyUSB3")
	t.Setenv("SMS_GATEWAY_PORT", "8080")
	t.Setenv("SMS_GATEWAY_APP_DIR", "/srv/gateway")

	opts2, err := Load(path, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts2.Device != "/dev/ttyUSB3" {
		t.Fatalf("device env override: %s", opts2.Device)
	}
	if opts2.Port != 8080 {
		t.Fatalf("port env override: %d", opts2.Port)
	}
	if opts2.AppDir != "/srv/gateway" {
		t.Fatalf("app_dir env override: %s", opts2.AppDir)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	path := writeOptions(t, sampleOptions)
	t.Setenv("SMS_GATEWAY_DEVICE", "/dev/ttyUSB3")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("device", "", "")
	fs.String("log-level", "", "")
	if err := fs.Parse([]string{"--device", "/dev/ttyUSB7"}); err != nil {
		t.Fatal(err)
	}

	opts, err := Load(path, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Device != "/dev/ttyUSB7" {
		t.Fatalf("flag override: %s", opts.Device)
	}
	// unchanged flag must not clobber the file value
	if opts.LogLevel != "debug" {
		t.Fatalf("unset flag overrode file: %s", opts.LogLevel)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeOptions(t, `{"device": `)
	if _, err := Load(path, nil); err == nil {
		t.Fatal("expected error for malformed options")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Options)
		ok   bool
	}{
		{"valid", func(o *Options) {}, true},
		{"empty device", func(o *Options) { o.Device = "  " }, false},
		{"empty app dir", func(o *Options) { o.AppDir = "" }, false},
		{"port zero", func(o *Options) { o.Port = 0 }, false},
		{"port too high", func(o *Options) { o.Port = 70000 }, false},
		{"bad level", func(o *Options) { o.LogLevel = "loud" }, false},
		{"upper level", func(o *Options) { o.LogLevel = "WARN" }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := Options{
				Device:      "/dev/ttyUSB0",
				Port:        5000,
				LogLevel:    "info",
				AppDir:      "/app",
				Interpreter: "python3",
				Entrypoint:  "run.py",
			}
			tc.mut(&o)
			err := o.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestPassThroughAndRedacted(t *testing.T) {
	o := Options{Device: "/dev/ttyUSB0", PIN: "1234", Port: 5000, Username: "u", Password: "p"}
	env := o.PassThrough()
	if env["PYTHONUNBUFFERED"] != "1" {
		t.Fatalf("PYTHONUNBUFFERED missing")
	}
	if env["PORT"] != "5000" || env["DEVICE"] != "/dev/ttyUSB0" || env["PIN"] != "1234" {
		t.Fatalf("unexpected env: %v", env)
	}

	r := o.Redacted()
	if r.PIN != "***" || r.Password != "***" {
		t.Fatalf("secrets not redacted: %+v", r)
	}
	if o.PIN != "1234" {
		t.Fatalf("Redacted mutated receiver")
	}
	if (Options{}).Redacted().Password != "" {
		t.Fatalf("empty password should stay empty")
	}
}

func TestDefaultPathHonoursAddonEnv(t *testing.T) {
	t.Setenv("HA_ADDON", "1")
	if got := DefaultPath(); got != "/data/options.json" {
		t.Fatalf("DefaultPath = %s", got)
	}
}
