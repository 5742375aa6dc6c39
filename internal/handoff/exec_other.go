//go:build !unix

package handoff

import "errors"

var errExecUnsupported = errors.New("process replacement is not supported on this platform")

func execve(argv0 string, argv []string, envv []string) error {
	return errExecUnsupported
}
