package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sms-gateway-addon/pkg/version"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		cfgFile, logLevel, device, appDir = "", "", "", ""
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version.Version) {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCheckCommandJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ttyUSB0"), nil, 0o600); err != nil {
		t.Fatal(err)
	}
	opts := `{"device": "` + filepath.Join(dir, "ttyUSB9") + `", "password": "hunter2", "device_pattern": "` + filepath.Join(dir, "tty*") + `"}`
	cfg := filepath.Join(dir, "options.json")
	if err := os.WriteFile(cfg, []byte(opts), 0o600); err != nil {
		t.Fatal(err)
	}
	report := filepath.Join(dir, "out", "report.json")

	out, err := execute(t, "check", "--config", cfg, "--json", "--output", report)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if strings.Contains(out, "hunter2") {
		t.Fatalf("password leaked: %s", out)
	}

	var decoded struct {
		Guard struct {
			CharDevice bool `json:"char_device"`
		} `json:"guard"`
		Ports []struct {
			Path string `json:"path"`
		} `json:"ports"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("invalid json: %v\n%s", err, out)
	}
	if decoded.Guard.CharDevice {
		t.Fatalf("missing device reported present")
	}
	if len(decoded.Ports) != 1 || decoded.Ports[0].Path != filepath.Join(dir, "ttyUSB0") {
		t.Fatalf("unexpected ports: %+v", decoded.Ports)
	}
	if _, err := os.Stat(report); err != nil {
		t.Fatalf("report file not written: %v", err)
	}
}

func TestCheckCommandRejectsBadOptions(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "options.json")
	if err := os.WriteFile(cfg, []byte(`{"port": 0}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "check", "--config", cfg); err == nil {
		t.Fatal("expected validation error")
	}
}
