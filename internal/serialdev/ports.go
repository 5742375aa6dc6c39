package serialdev

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"go.bug.st/serial/enumerator"
)

// Port is a device node matching the listing pattern, annotated with USB
// identifiers when the enumerator knows about it.
type Port struct {
	Path         string `json:"path"`
	USB          bool   `json:"usb"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
}

// Label renders the port on one line for text output.
func (p Port) Label() string {
	if !p.USB {
		return p.Path
	}
	var b strings.Builder
	b.WriteString(p.Path)
	fmt.Fprintf(&b, " [usb %s:%s", strings.ToLower(p.VID), strings.ToLower(p.PID))
	if p.Product != "" {
		b.WriteString(" " + p.Product)
	}
	if p.SerialNumber != "" {
		b.WriteString(" sn=" + p.SerialNumber)
	}
	b.WriteString("]")
	return b.String()
}

// List returns the device nodes matching the guard's pattern, sorted.
// Enumerator failures only drop the USB annotations.
func (g *Guard) List() ([]Port, error) {
	glob := g.Glob
	if glob == nil {
		glob = filepath.Glob
	}
	matches, err := glob(g.Pattern)
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", g.Pattern, err)
	}
	sort.Strings(matches)

	details := g.usbDetails()
	ports := make([]Port, 0, len(matches))
	for _, m := range matches {
		p := Port{Path: m}
		if d, ok := details[m]; ok && d.IsUSB {
			p.USB = true
			p.VID = d.VID
			p.PID = d.PID
			p.SerialNumber = d.SerialNumber
			p.Product = d.Product
		}
		ports = append(ports, p)
	}
	return ports, nil
}

func (g *Guard) usbDetails() map[string]*enumerator.PortDetails {
	enumerate := g.Enumerate
	if enumerate == nil {
		enumerate = enumerator.GetDetailedPortsList
	}
	list, err := enumerate()
	if err != nil {
		g.Log.Debug().Err(err).Msg("usb enumeration unavailable")
		return nil
	}
	byName := make(map[string]*enumerator.PortDetails, len(list))
	for _, d := range list {
		if d == nil {
			continue
		}
		byName[d.Name] = d
	}
	return byName
}
