// Package diag assembles the report printed by the check command: resolved
// options with secrets redacted, the device guard result and a few host facts
// that help when reading an operator's bug report.
package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/host"

	"sms-gateway-addon/internal/config"
	"sms-gateway-addon/internal/serialdev"
)

const appID = "sms-gateway"

type Report struct {
	LaunchID  string            `json:"launch_id"`
	HostID    string            `json:"host_id"`
	Hostname  string            `json:"hostname,omitempty"`
	Platform  string            `json:"platform,omitempty"`
	Kernel    string            `json:"kernel,omitempty"`
	Version   string            `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	Options   config.Options    `json:"options"`
	Guard     serialdev.Result  `json:"guard"`
	Ports     []serialdev.Port  `json:"ports"`
	Notes     map[string]string `json:"notes,omitempty"`
}

// Collector gathers host facts. Nil fields use gopsutil and machineid.
type Collector struct {
	HostInfo  func() (*host.InfoStat, error)
	MachineID func(appID string) (string, error)
	Now       func() time.Time
}

// Build returns a report for opts. ports is the full listing, independent of
// whether the guard needed one.
func (c Collector) Build(opts config.Options, res serialdev.Result, ports []serialdev.Port, version string) Report {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	r := Report{
		LaunchID:  uuid.NewString(),
		Version:   version,
		CreatedAt: now().UTC(),
		Options:   opts.Redacted(),
		Guard:     res,
		Ports:     ports,
		Notes:     map[string]string{},
	}
	r.HostID = c.hostID(r.Notes)

	hostInfo := c.HostInfo
	if hostInfo == nil {
		hostInfo = host.Info
	}
	if hi, err := hostInfo(); err == nil && hi != nil {
		r.Hostname = hi.Hostname
		r.Platform = strings.TrimSpace(hi.Platform + " " + hi.PlatformVersion)
		r.Kernel = strings.TrimSpace(hi.KernelVersion + " " + hi.KernelArch)
	} else if err != nil {
		r.Notes["host"] = err.Error()
	}
	if len(r.Notes) == 0 {
		r.Notes = nil
	}
	return r
}

func (c Collector) hostID(notes map[string]string) string {
	protected := c.MachineID
	if protected == nil {
		protected = machineid.ProtectedID
	}
	id, err := protected(appID)
	if err != nil || id == "" {
		if err != nil {
			notes["host_id"] = "machine id unavailable, using random id: " + err.Error()
		}
		return uuid.NewString()
	}
	return id
}

// JSON renders the report indented.
func (r Report) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}
	return append(b, '\n'), nil
}

// WriteText renders the report for a terminal.
func (r Report) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %s\n", "launch id", r.LaunchID)
	fmt.Fprintf(&b, "%-14s %s\n", "host id", r.HostID)
	if r.Hostname != "" {
		fmt.Fprintf(&b, "%-14s %s\n", "hostname", r.Hostname)
	}
	if r.Platform != "" {
		fmt.Fprintf(&b, "%-14s %s\n", "platform", r.Platform)
	}
	if r.Kernel != "" {
		fmt.Fprintf(&b, "%-14s %s\n", "kernel", r.Kernel)
	}
	fmt.Fprintf(&b, "%-14s %s\n", "version", r.Version)
	fmt.Fprintf(&b, "%-14s %s\n", "app dir", r.Options.AppDir)
	fmt.Fprintf(&b, "%-14s %s -u %s\n", "command", r.Options.Interpreter, r.Options.Entrypoint)
	fmt.Fprintf(&b, "%-14s %d\n", "port", r.Options.Port)
	fmt.Fprintf(&b, "%-14s %s\n", "pin", orNone(r.Options.PIN))
	fmt.Fprintf(&b, "%-14s %s\n", "auth", authSummary(r.Options))

	b.WriteString("\nModem device:\n")
	status := "OK (character device)"
	if !r.Guard.CharDevice {
		status = "NOT A CHARACTER DEVICE (" + r.Guard.Mode + ")"
	}
	fmt.Fprintf(&b, "  %s: %s\n", r.Guard.Path, status)
	if r.Guard.Err != "" {
		fmt.Fprintf(&b, "  error: %s\n", r.Guard.Err)
	}

	fmt.Fprintf(&b, "\nSerial devices (%s):\n", r.Options.DevicePattern)
	if len(r.Ports) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, p := range r.Ports {
		fmt.Fprintf(&b, "  - %s\n", p.Label())
	}
	if r.Guard.ListErr != "" {
		fmt.Fprintf(&b, "  listing error: %s\n", r.Guard.ListErr)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func authSummary(o config.Options) string {
	if o.Username == "" {
		return "disabled"
	}
	return "basic (user " + o.Username + ")"
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
