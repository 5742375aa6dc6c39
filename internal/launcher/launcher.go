// Package launcher wires the startup guard to the process handoff: check the
// modem device, log diagnostics if it is missing, then start the gateway
// regardless.
package launcher

import (
	"github.com/rs/zerolog"

	"sms-gateway-addon/internal/config"
	"sms-gateway-addon/internal/handoff"
	"sms-gateway-addon/internal/serialdev"
)

type Launcher struct {
	Device  string
	Guard   *serialdev.Guard
	Handoff *handoff.Handoff
}

// New builds a launcher from resolved options.
func New(opts *config.Options, log zerolog.Logger) *Launcher {
	return &Launcher{
		Device:  opts.Device,
		Guard:   serialdev.New(log, opts.DevicePattern),
		Handoff: handoff.New(log, opts.AppDir, opts.Interpreter, opts.Entrypoint, opts.PassThrough()),
	}
}

// Start runs the guard and hands off. On success it does not return outside
// tests; the returned error is always from the handoff, never the guard.
func (l *Launcher) Start() (serialdev.Result, error) {
	res := l.Guard.Check(l.Device)
	return res, l.Handoff.Run()
}
