// pkg/engine/profiles_test.go
// TEST TYPE: Integration Test
// DEPENDENCIES: Real filesystem (temp dirs)
// PURPOSE: Test profile create, import, update and delete through the engine

package engine_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/cfgswap/pkg/engine"
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/testutil"
	"github.com/arthur-debert/cfgswap/pkg/pubsub"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProfile(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()

	p, err := eng.CreateProfile("Main", "-nosound", true)
	require.NoError(t, err)

	profiles := eng.ListProfiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, p, profiles[0])
	assert.Equal(t, "Main", p.Name)
	assert.Equal(t, "-nosound", p.LaunchArgs)
	assert.True(t, p.ReadOnly)
	assert.Equal(t, types.RoleNormal, p.Role)

	info, err := os.Stat(env.profileDir(p))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	dir, err := eng.ProfileDir(p.ID)
	require.NoError(t, err)
	assert.Equal(t, env.profileDir(p), dir)
}

func TestCreateProfile_Conflicts(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()

	_, err := eng.CreateProfile("Main", "", false)
	require.NoError(t, err)
	entries, err := os.ReadDir(env.paths.ProfilesDir())
	require.NoError(t, err)

	_, err = eng.CreateProfile("Main", "", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameConflict))

	_, err = eng.CreateProfile("Backup", "", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNameConflict), "backup name is reserved")

	_, err = eng.CreateProfile("bad|name", "", false)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidProfileName))

	assert.Len(t, eng.ListProfiles(), 1)
	after, err := os.ReadDir(env.paths.ProfilesDir())
	require.NoError(t, err)
	assert.Len(t, after, len(entries), "rejected creates leave no directory")
}

func TestCreateProfile_DefaultNames(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()

	first, err := eng.CreateProfile("", "", false)
	require.NoError(t, err)
	second, err := eng.CreateProfile("", "", false)
	require.NoError(t, err)

	assert.Equal(t, "New Profile", first.Name)
	assert.Equal(t, "New Profile (1)", second.Name)
	assert.Equal(t, "New Profile (2)", eng.NextProfileName("New Profile"))
}

func TestImportProfile(t *testing.T) {
	env := newTestEnv(t)
	env.setInstall(env.makeInstall("managed", map[string]string{"a.cfg": "managed"}))
	eng := env.engine()
	source := env.makeInstall("old", map[string]string{"a.cfg": "old-a", "sub/k.ini": "keys"})

	p, err := eng.ImportProfile(engine.ImportOptions{InstallPath: source, LaunchArgs: "-dx11"})
	require.NoError(t, err)

	assert.Equal(t, "Imported Profile", p.Name)
	assert.Equal(t, "-dx11", p.LaunchArgs)
	assert.Equal(t, "old-a", testutil.ReadFile(t, filepath.Join(env.profileDir(p), "a.cfg")))
	assert.Equal(t, "keys", testutil.ReadFile(t, filepath.Join(env.profileDir(p), "sub", "k.ini")))
	_, err = os.Stat(source)
	assert.NoError(t, err, "source kept without DeleteSource")

	again, err := eng.ImportProfile(engine.ImportOptions{InstallPath: source, DeleteSource: true})
	require.NoError(t, err)
	assert.Equal(t, "Imported Profile (1)", again.Name)
	_, err = os.Stat(source)
	assert.True(t, os.IsNotExist(err), "source deleted after a complete copy")
}

func TestImportProfile_InvalidPath(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()
	bogus := filepath.Join(env.root, "games", "bogus")
	require.NoError(t, os.MkdirAll(filepath.Join(bogus, "APBGame", "Config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(bogus, "APBGame", "Config", "a.cfg"), []byte("keep"), 0644))

	_, err := eng.ImportProfile(engine.ImportOptions{InstallPath: bogus, DeleteSource: true})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidGamePath))

	assert.Empty(t, eng.ListProfiles())
	assert.Equal(t, "keep", testutil.ReadFile(t, filepath.Join(bogus, "APBGame", "Config", "a.cfg")))
}

func TestImportProfile_ManagedInstallRefused(t *testing.T) {
	env := newTestEnv(t)
	managed := env.makeInstall("managed", map[string]string{"a.cfg": "managed"})
	env.setInstall(managed)
	eng := env.engine()

	_, err := eng.ImportProfile(engine.ImportOptions{InstallPath: managed, DeleteSource: true})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	assert.Len(t, eng.ListProfiles(), 1)
	_, err = os.Stat(managed)
	assert.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.setInstall(env.makeInstall("apb", map[string]string{"a.cfg": "alpha"}))
	eng := env.engine()

	p, err := eng.CreateProfile("Main", "", false)
	require.NoError(t, err)
	_, err = eng.CreateProfile("Other", "", false)
	require.NoError(t, err)

	p.Name = "Renamed"
	p.LaunchArgs = "-windowed"
	p.ReadOnly = true
	require.NoError(t, eng.UpdateProfile(p))

	got, err := eng.GetProfile(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, "-windowed", got.LaunchArgs)
	assert.False(t, got.ReadOnly, "read-only flag is not changed through update")

	got.Name = "Other"
	assert.True(t, errors.IsErrorCode(eng.UpdateProfile(got), errors.ErrNameConflict))

	backup := eng.ListProfiles()[0]
	backup.Name = "Mine now"
	assert.True(t, errors.IsErrorCode(eng.UpdateProfile(backup), errors.ErrReadOnlyProfile))
}

func TestDeleteProfile_Active(t *testing.T) {
	env := newTestEnv(t)
	env.setInstall(env.makeInstall("apb", nil))
	eng := env.engine()

	p1, err := eng.CreateProfile("P1", "", false)
	require.NoError(t, err)
	p2, err := eng.CreateProfile("P2", "", false)
	require.NoError(t, err)
	require.NoError(t, eng.Activate(p1.ID))
	before := eng.ListProfiles()

	err = eng.DeleteProfile(p1.ID)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCannotDeleteActiveProfile))
	assert.Equal(t, before, eng.ListProfiles())
	_, err = os.Stat(env.profileDir(p1))
	assert.NoError(t, err)

	// Recommended protocol: activate the substitute, then delete.
	sub, err := eng.SubstituteFor(p1.ID)
	require.NoError(t, err)
	assert.Equal(t, p2.ID, sub.ID)
	require.NoError(t, eng.Activate(sub.ID))
	require.NoError(t, eng.DeleteProfile(p1.ID))

	assert.Equal(t, []types.Profile{p2}, eng.ListProfiles())
	_, err = os.Stat(env.profileDir(p1))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteProfile_ReadOnly(t *testing.T) {
	env := newTestEnv(t)
	env.setInstall(env.makeInstall("apb", map[string]string{"a.cfg": "alpha"}))
	eng := env.engine()
	backup := eng.ListProfiles()[0]

	locked, err := eng.CreateProfile("Locked", "", true)
	require.NoError(t, err)
	other, err := eng.CreateProfile("Other", "", false)
	require.NoError(t, err)

	// Active or not, read-only profiles are never deleted.
	assert.True(t, errors.IsErrorCode(eng.DeleteProfile(backup.ID), errors.ErrCannotDeleteReadOnlyProfile))
	require.NoError(t, eng.Activate(other.ID))
	assert.True(t, errors.IsErrorCode(eng.DeleteProfile(backup.ID), errors.ErrCannotDeleteReadOnlyProfile))
	assert.True(t, errors.IsErrorCode(eng.DeleteProfile(locked.ID), errors.ErrCannotDeleteReadOnlyProfile))
	require.NoError(t, eng.Activate(locked.ID))
	assert.True(t, errors.IsErrorCode(eng.DeleteProfile(locked.ID), errors.ErrCannotDeleteReadOnlyProfile))

	assert.Len(t, eng.ListProfiles(), 3)
}

func TestDeleteProfile_MissingDirectoryStillUnregisters(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()
	p, err := eng.CreateProfile("Gone", "", false)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(env.profileDir(p)))

	require.NoError(t, eng.DeleteProfile(p.ID))
	assert.Empty(t, eng.ListProfiles())
}

func TestSubstituteFor(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()
	a, _ := eng.CreateProfile("Alpha", "", false)
	b, _ := eng.CreateProfile("Bravo", "", false)
	c, _ := eng.CreateProfile("Charlie", "", false)

	tests := []struct {
		name   string
		target types.Profile
		want   types.Profile
	}{
		{"first takes next", a, b},
		{"middle takes next", b, c},
		{"last takes previous", c, b},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eng.SubstituteFor(tt.target.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want.ID, got.ID)
		})
	}

	solo := newTestEnv(t).engine()
	only, err := solo.CreateProfile("Only", "", false)
	require.NoError(t, err)
	_, err = solo.SubstituteFor(only.ID)
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestResolve(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()
	p, err := eng.CreateProfile("Main", "", false)
	require.NoError(t, err)

	byName, err := eng.Resolve("Main")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byName.ID)

	byID, err := eng.Resolve(p.ID.String())
	require.NoError(t, err)
	assert.Equal(t, p.ID, byID.ID)

	_, err = eng.Resolve("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrProfileNotFound))
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	eng := env.engine()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := eng.Subscribe(ctx)

	p, err := eng.CreateProfile("Main", "", false)
	require.NoError(t, err)
	p.Name = "Main 2"
	require.NoError(t, eng.UpdateProfile(p))
	require.NoError(t, eng.DeleteProfile(p.ID))

	for _, want := range []pubsub.EventType{pubsub.ProfileCreated, pubsub.ProfileUpdated, pubsub.ProfileDeleted} {
		select {
		case ev := <-events:
			assert.Equal(t, want, ev.Type)
			assert.Equal(t, p.ID, ev.Payload.ProfileID)
		case <-time.After(time.Second):
			t.Fatalf("no %s event", want)
		}
	}

	// Failed calls publish nothing.
	_, err = eng.CreateProfile("bad/name", "", false)
	require.Error(t, err)
	select {
	case ev := <-events:
		t.Fatalf("unexpected event %s", ev.Type)
	case <-time.After(20 * time.Millisecond):
	}
}
