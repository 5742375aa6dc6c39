// Package serialdev checks that the configured modem device exists before the
// gateway is started, and lists candidate serial devices when it does not.
// Nothing here is fatal: the wrapped server makes the authoritative attempt
// to open the modem and reports its own failure.
package serialdev

import (
	"github.com/rs/zerolog"
	"go.bug.st/serial/enumerator"
)

const DefaultPattern = "/dev/tty*"

// Result is the outcome of a guard check.
type Result struct {
	Path       string `json:"path"`
	CharDevice bool   `json:"char_device"`
	Mode       string `json:"mode,omitempty"`
	Err        string `json:"error,omitempty"`
	Ports      []Port `json:"ports,omitempty"`
	ListErr    string `json:"list_error,omitempty"`
}

// Guard performs the startup device check. The function fields are seams for
// tests; zero values fall back to the real filesystem and USB enumerator.
type Guard struct {
	Pattern   string
	Log       zerolog.Logger
	Stat      func(path string) (isChar bool, kind string, err error)
	Glob      func(pattern string) ([]string, error)
	Enumerate func() ([]*enumerator.PortDetails, error)
}

// New returns a Guard listing pattern on failure.
func New(log zerolog.Logger, pattern string) *Guard {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Guard{Pattern: pattern, Log: log}
}

// Check tests path for a character device. On failure it logs one warning
// naming the path followed by a best-effort device listing.
func (g *Guard) Check(path string) Result {
	res := Result{Path: path}

	isChar, kind, err := g.stat(path)
	res.Mode = kind
	if err == nil && isChar {
		res.CharDevice = true
		g.Log.Debug().Str("device", path).Msg("modem device present")
		return res
	}
	if err != nil {
		res.Err = err.Error()
	}

	g.Log.Warn().
		Str("device", path).
		Str("mode", kind).
		Msgf("device %s not found or not a character device, the gateway may fail to reach the modem", path)

	ports, err := g.List()
	if err != nil {
		res.ListErr = err.Error()
		g.Log.Debug().Err(err).Str("pattern", g.Pattern).Msg("listing serial devices failed")
		return res
	}
	res.Ports = ports
	g.Log.Info().
		Str("pattern", g.Pattern).
		Strs("available", portPaths(ports)).
		Msg("available serial devices")
	return res
}

func (g *Guard) stat(path string) (bool, string, error) {
	if g.Stat != nil {
		return g.Stat(path)
	}
	return statDevice(path)
}

func portPaths(ports []Port) []string {
	paths := make([]string, 0, len(ports))
	for _, p := range ports {
		paths = append(paths, p.Path)
	}
	return paths
}
