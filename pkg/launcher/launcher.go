// Package launcher hands off to the managed application once its profile
// is active. The engine never launches anything itself; callers activate
// first and then use a Launcher.
package launcher

import (
	"context"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/install"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/rs/zerolog"
)

// CommandFactory creates the command to start. Tests replace it.
type CommandFactory func(ctx context.Context, name string, args ...string) *exec.Cmd

// ProcessLister returns the executable names of running processes.
type ProcessLister func(ctx context.Context) ([]string, error)

// Launcher starts the managed application's executables.
type Launcher struct {
	fs      types.FS
	layout  install.Layout
	command CommandFactory
	list    ProcessLister
	logger  zerolog.Logger
}

// New creates a Launcher for installations with the given layout.
func New(fs types.FS, layout install.Layout) *Launcher {
	return &Launcher{
		fs:      fs,
		layout:  layout,
		command: exec.CommandContext,
		list:    RunningProcesses,
		logger:  logging.GetLogger("launcher"),
	}
}

// WithCommandFactory replaces how commands are created.
func (l *Launcher) WithCommandFactory(f CommandFactory) *Launcher {
	l.command = f
	return l
}

// WithProcessLister replaces how running processes are found.
func (l *Launcher) WithProcessLister(f ProcessLister) *Launcher {
	l.list = f
	return l
}

// IsRunning reports whether a process started from an executable with the
// same base name as path is running. Extensions and case are ignored.
func (l *Launcher) IsRunning(ctx context.Context, path string) (bool, error) {
	names, err := l.list(ctx)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrInternal, "failed to list running processes")
	}
	want := processName(path)
	for _, name := range names {
		if strings.EqualFold(processName(name), want) {
			return true, nil
		}
	}
	return false, nil
}

// EnsureGameNotRunning fails with ErrAlreadyRunning while the executable
// of the installation at root is running. Callers check it before swapping
// the configuration link.
func (l *Launcher) EnsureGameNotRunning(ctx context.Context, root string) error {
	return l.ensureNotRunning(ctx, l.layout.ExecutablePath(root))
}

func (l *Launcher) ensureNotRunning(ctx context.Context, path string) error {
	running, err := l.IsRunning(ctx, path)
	if err != nil {
		return err
	}
	if running {
		return errors.Newf(errors.ErrAlreadyRunning, "an instance of %s is already running", filepath.Base(path)).
			WithDetail("path", path)
	}
	return nil
}

// processName strips directories and the extension from an executable
// name, so "C:\Games\Binaries\APB.exe" and "APB" compare equal.
func processName(path string) string {
	base := path
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// Command builds the command that starts the executable of the
// installation at root with p's launch arguments.
func (l *Launcher) Command(ctx context.Context, root string, p types.Profile) (*exec.Cmd, error) {
	if err := l.layout.Validate(l.fs, root); err != nil {
		return nil, err
	}
	exe := l.layout.ExecutablePath(root)
	args, err := SplitArgs(p.LaunchArgs)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid launch arguments for profile %q", p.Name).
			WithDetail("profile_id", p.ID.String())
	}
	cmd := l.command(ctx, exe, args...)
	cmd.Dir = filepath.Dir(exe)
	return cmd, nil
}

// Run starts the executable with p's launch arguments and returns once the
// process is running; it does not wait for it to exit. It refuses while
// another instance is running.
func (l *Launcher) Run(ctx context.Context, root string, p types.Profile) error {
	if err := l.EnsureGameNotRunning(ctx, root); err != nil {
		return err
	}
	cmd, err := l.Command(ctx, root, p)
	if err != nil {
		return err
	}
	return l.start(cmd, p.Name)
}

// RunAdvancedLauncher starts the configured third-party launcher of the
// installation at root.
func (l *Launcher) RunAdvancedLauncher(ctx context.Context, root string) error {
	path := l.layout.LauncherPath(root)
	if path == "" {
		return errors.New(errors.ErrInvalidInput, "no launcher configured")
	}
	info, err := l.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return errors.Newf(errors.ErrInvalidGamePath, "launcher %s not found", path).
			WithDetail("path", path)
	}
	if err := l.ensureNotRunning(ctx, path); err != nil {
		return err
	}
	cmd := l.command(ctx, path)
	cmd.Dir = filepath.Dir(path)
	return l.start(cmd, "")
}

func (l *Launcher) start(cmd *exec.Cmd, profile string) error {
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "failed to start %s", cmd.Path).
			WithDetail("path", cmd.Path)
	}
	l.logger.Info().
		Str("path", cmd.Path).
		Strs("args", cmd.Args[1:]).
		Str("name", profile).
		Int("pid", cmd.Process.Pid).
		Msg("Process started")
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// SplitArgs splits a launch argument string on whitespace. Double quotes
// group words containing spaces; they are removed from the result.
func SplitArgs(s string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inQuote bool
		inWord  bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			inWord = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}
	if inQuote {
		return nil, errors.New(errors.ErrInvalidInput, "unterminated quote")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}
