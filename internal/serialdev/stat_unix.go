//go:build unix

package serialdev

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// statDevice follows symlinks, as the udev by-id links point at tty nodes.
func statDevice(path string) (bool, string, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false, "missing", fmt.Errorf("stat %s: %w", path, err)
	}
	kind := fileKind(uint32(st.Mode) & unix.S_IFMT)
	return kind == "char device", kind, nil
}

func fileKind(format uint32) string {
	switch format {
	case unix.S_IFCHR:
		return "char device"
	case unix.S_IFBLK:
		return "block device"
	case unix.S_IFREG:
		return "regular file"
	case unix.S_IFDIR:
		return "directory"
	case unix.S_IFIFO:
		return "fifo"
	case unix.S_IFSOCK:
		return "socket"
	default:
		return "unknown"
	}
}
