//go:build !unix

package serialdev

import (
	"fmt"
	"io/fs"
	"os"
)

func statDevice(path string) (bool, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return false, "missing", fmt.Errorf("stat %s: %w", path, err)
	}
	m := fi.Mode()
	switch {
	case m&fs.ModeCharDevice != 0:
		return true, "char device", nil
	case m&fs.ModeDevice != 0:
		return false, "block device", nil
	case m.IsDir():
		return false, "directory", nil
	case m.IsRegular():
		return false, "regular file", nil
	default:
		return false, "unknown", nil
	}
}
