package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/cfgswap/pkg/config"
	"github.com/arthur-debert/cfgswap/pkg/engine"
	"github.com/arthur-debert/cfgswap/pkg/filesystem"
	"github.com/arthur-debert/cfgswap/pkg/paths"
	"github.com/arthur-debert/cfgswap/pkg/testutil"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/stretchr/testify/require"
)

// testEnv is a throwaway cfgswap home plus game installations, all under
// one temp directory.
type testEnv struct {
	t        *testing.T
	root     string
	fs       types.FS
	paths    paths.Paths
	settings *config.Settings
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	settings, err := config.Defaults()
	require.NoError(t, err)
	return &testEnv{
		t:    t,
		root: root,
		fs:   filesystem.NewOS(),
		paths: paths.NewWithRoots(
			filepath.Join(root, "data"),
			filepath.Join(root, "config"),
			filepath.Join(root, "state"),
		),
		settings: settings,
	}
}

// makeInstall creates an installation named name. A nil files map leaves
// the configuration directory absent.
func (e *testEnv) makeInstall(name string, files map[string]string) string {
	e.t.Helper()
	return testutil.MakeInstall(e.t, e.root, name, files)
}

func (e *testEnv) configDir(install string) string {
	return testutil.ConfigPath(install)
}

func (e *testEnv) setInstall(path string) {
	e.t.Helper()
	e.saveState(config.State{InstallPath: path})
}

func (e *testEnv) saveState(state config.State) {
	e.t.Helper()
	require.NoError(e.t, config.NewStateStore(e.fs, e.paths.StatePath()).Save(state))
}

func (e *testEnv) loadState() config.State {
	e.t.Helper()
	state, err := config.NewStateStore(e.fs, e.paths.StatePath()).Load()
	require.NoError(e.t, err)
	return state
}

func (e *testEnv) engine() *engine.Engine {
	e.t.Helper()
	eng, err := e.newEngine()
	require.NoError(e.t, err)
	e.t.Cleanup(eng.Close)
	return eng
}

func (e *testEnv) newEngine() (*engine.Engine, error) {
	return engine.New(engine.Options{FS: e.fs, Paths: e.paths, Settings: e.settings})
}

func (e *testEnv) profileDir(p types.Profile) string {
	return e.paths.ProfileDir(p.ID.String())
}
