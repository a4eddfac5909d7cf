// pkg/launcher/launcher_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS, fake command factory
// PURPOSE: Test command construction and launch argument splitting

package launcher_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/filesystem"
	"github.com/arthur-debert/cfgswap/pkg/install"
	"github.com/arthur-debert/cfgswap/pkg/launcher"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var layout = install.Layout{
	Executable: "Binaries/APB.exe",
	ConfigRel:  "APBGame/Config",
	Launcher:   "Advanced APB Launcher.exe",
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"-nosplash", []string{"-nosplash"}},
		{"-a  -b\t-c", []string{"-a", "-b", "-c"}},
		{`-log "C:\My Logs\apb.log" -x`, []string{"-log", `C:\My Logs\apb.log`, "-x"}},
		{`-empty ""`, []string{"-empty", ""}},
		{`-key="a b"`, []string{"-key=a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := launcher.SplitArgs(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := launcher.SplitArgs(`-log "unterminated`)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestCommand(t *testing.T) {
	fs := filesystem.NewMemory()
	root := filepath.FromSlash("/games/apb")
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "Binaries"), 0755))
	require.NoError(t, fs.WriteFile(filepath.Join(root, "Binaries", "APB.exe"), []byte("MZ"), 0755))

	var gotName string
	var gotArgs []string
	l := launcher.New(fs, layout).WithCommandFactory(func(ctx context.Context, name string, args ...string) *exec.Cmd {
		gotName, gotArgs = name, args
		return exec.CommandContext(ctx, name, args...)
	})

	cmd, err := l.Command(context.Background(), root, types.Profile{Name: "Main", LaunchArgs: "-windowed -dx11"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Binaries", "APB.exe"), gotName)
	assert.Equal(t, []string{"-windowed", "-dx11"}, gotArgs)
	assert.Equal(t, filepath.Join(root, "Binaries"), cmd.Dir)
}

func TestCommand_InvalidInstall(t *testing.T) {
	l := launcher.New(filesystem.NewMemory(), layout)
	_, err := l.Command(context.Background(), "/nowhere", types.Profile{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidGamePath))
}

func TestRunAdvancedLauncher_Missing(t *testing.T) {
	l := launcher.New(filesystem.NewMemory(), layout)
	err := l.RunAdvancedLauncher(context.Background(), "/games/apb")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidGamePath))

	noLauncher := layout
	noLauncher.Launcher = ""
	err = launcher.New(filesystem.NewMemory(), noLauncher).RunAdvancedLauncher(context.Background(), "/games/apb")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func processes(names ...string) launcher.ProcessLister {
	return func(context.Context) ([]string, error) { return names, nil }
}

func TestIsRunning(t *testing.T) {
	tests := []struct {
		name    string
		running []string
		want    bool
	}{
		{"not running", []string{"explorer.exe", "steam"}, false},
		{"exact name", []string{"APB.exe"}, true},
		{"case and extension ignored", []string{"apb"}, true},
		{"prefix is not a match", []string{"APBLauncher.exe"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := launcher.New(filesystem.NewMemory(), layout).WithProcessLister(processes(tt.running...))
			got, err := l.IsRunning(context.Background(), `C:\Games\APB Reloaded\Binaries\APB.exe`)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	failing := launcher.New(filesystem.NewMemory(), layout).WithProcessLister(func(context.Context) ([]string, error) {
		return nil, os.ErrPermission
	})
	_, err := failing.IsRunning(context.Background(), "APB.exe")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestRun_RefusesWhileRunning(t *testing.T) {
	fs := filesystem.NewMemory()
	root := filepath.FromSlash("/games/apb")
	require.NoError(t, fs.MkdirAll(filepath.Join(root, "Binaries"), 0755))
	require.NoError(t, fs.WriteFile(filepath.Join(root, "Binaries", "APB.exe"), []byte("MZ"), 0755))
	require.NoError(t, fs.WriteFile(filepath.Join(root, "Advanced APB Launcher.exe"), []byte("MZ"), 0755))

	started := false
	l := launcher.New(fs, layout).
		WithProcessLister(processes("APB.exe", "Advanced APB Launcher.exe")).
		WithCommandFactory(func(ctx context.Context, name string, args ...string) *exec.Cmd {
			started = true
			return exec.CommandContext(ctx, name, args...)
		})

	err := l.EnsureGameNotRunning(context.Background(), root)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyRunning))

	err = l.Run(context.Background(), root, types.Profile{Name: "Main"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyRunning))

	err = l.RunAdvancedLauncher(context.Background(), root)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAlreadyRunning))

	assert.False(t, started, "nothing started while an instance runs")
}
