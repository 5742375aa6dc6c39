// Package handoff replaces the launcher process with the wrapped gateway
// server. Once Exec succeeds the launcher is gone; the server inherits the
// PID, stdio and exit status.
package handoff

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Handoff describes the program that takes over the process.
type Handoff struct {
	Dir         string
	Interpreter string
	Args        []string
	Env         []string
	Log         zerolog.Logger

	Chdir    func(dir string) error
	LookPath func(file string) (string, error)
	Exec     func(argv0 string, argv []string, envv []string) error
}

// New builds a handoff running "<interpreter> -u <entrypoint>" from dir with
// extra merged over the current environment.
func New(log zerolog.Logger, dir, interpreter, entrypoint string, extra map[string]string) *Handoff {
	return &Handoff{
		Dir:         dir,
		Interpreter: interpreter,
		Args:        []string{"-u", entrypoint},
		Env:         MergeEnv(os.Environ(), extra),
		Log:         log,
	}
}

// Run changes into Dir and execs the interpreter. It only returns on failure;
// a failed chdir stops before the interpreter is looked up.
func (h *Handoff) Run() error {
	chdir := h.Chdir
	if chdir == nil {
		chdir = os.Chdir
	}
	lookPath := h.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	execFn := h.Exec
	if execFn == nil {
		execFn = execve
	}

	if err := chdir(h.Dir); err != nil {
		return fmt.Errorf("chdir %s: %w", h.Dir, err)
	}

	bin, err := lookPath(h.Interpreter)
	if err != nil {
		return fmt.Errorf("find interpreter %s: %w", h.Interpreter, err)
	}

	argv := append([]string{h.Interpreter}, h.Args...)
	h.Log.Info().
		Str("dir", h.Dir).
		Str("binary", bin).
		Strs("argv", argv).
		Msg("starting sms gateway")

	if err := execFn(bin, argv, h.Env); err != nil {
		return fmt.Errorf("exec %s: %w", bin, err)
	}
	return nil
}

// MergeEnv overlays extra onto base KEY=VALUE pairs. Base entries whose key
// appears in extra are dropped and extra is appended in sorted key order.
func MergeEnv(base []string, extra map[string]string) []string {
	out := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, ok := extra[key]; ok {
			continue
		}
		out = append(out, kv)
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+extra[k])
	}
	return out
}
