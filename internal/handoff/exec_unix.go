//go:build unix

package handoff

import "golang.org/x/sys/unix"

func execve(argv0 string, argv []string, envv []string) error {
	return unix.Exec(argv0, argv, envv)
}
