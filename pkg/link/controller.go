package link

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/rs/zerolog"
)

// Controller manages the symbolic link at a single redirected path.
type Controller struct {
	fs     types.FS
	path   string
	logger zerolog.Logger
}

// New creates a Controller for the redirected directory at path.
func New(fs types.FS, path string) *Controller {
	return &Controller{
		fs:     fs,
		path:   path,
		logger: logging.GetLogger("link").With().Str("path", path).Logger(),
	}
}

// Path returns the redirected directory path.
func (c *Controller) Path() string {
	return c.path
}

// State inspects the redirected path without following a link.
func (c *Controller) State() (types.LinkState, error) {
	info, err := c.fs.Lstat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.LinkAbsent, nil
		}
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot inspect %s", c.path).
			WithDetail("path", c.path)
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		return types.LinkLinked, nil
	case info.IsDir():
		return types.LinkPlainDir, nil
	default:
		return types.LinkOther, nil
	}
}

// IsLinked reports whether the redirected path is a symbolic link. Plain
// directories, files and a missing path all report false.
func (c *Controller) IsLinked() bool {
	state, err := c.State()
	return err == nil && state == types.LinkLinked
}

// Target returns the link's target.
func (c *Controller) Target() (string, error) {
	target, err := c.fs.Readlink(c.path)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrLinkOperationFailed, "cannot read link %s", c.path).
			WithDetail("path", c.path)
	}
	return target, nil
}

// PointsTo reports whether the redirected path links to target.
func (c *Controller) PointsTo(target string) bool {
	if !c.IsLinked() {
		return false
	}
	current, err := c.Target()
	return err == nil && filepath.Clean(current) == filepath.Clean(target)
}

// Relink points the redirected path at target. A plain directory at the
// path is deleted only when purgePlainDir is true; otherwise Relink fails
// with InconsistentState before touching anything.
func (c *Controller) Relink(target string, purgePlainDir bool) error {
	state, err := c.State()
	if err != nil {
		return err
	}

	switch state {
	case types.LinkLinked:
		if c.PointsTo(target) {
			c.logger.Debug().Str("target", target).Msg("Link already up to date")
			return nil
		}
		if err := c.fs.Remove(c.path); err != nil {
			return c.linkError(err, "failed to remove existing link", target)
		}
	case types.LinkPlainDir:
		if !purgePlainDir {
			return errors.Newf(errors.ErrInconsistentState,
				"%s is a plain directory and its content is not backed up", c.path).
				WithDetail("path", c.path)
		}
		c.logger.Warn().Msg("Purging plain configuration directory")
		if err := c.fs.RemoveAll(c.path); err != nil {
			return c.linkError(err, "failed to remove plain directory", target)
		}
	case types.LinkOther:
		return errors.Newf(errors.ErrInconsistentState,
			"%s is neither a link nor a directory", c.path).
			WithDetail("path", c.path)
	case types.LinkAbsent:
		if err := c.fs.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
			return c.linkError(err, "failed to create parent directory", target)
		}
	}

	if err := c.fs.Symlink(target, c.path); err != nil {
		return c.linkError(err, "failed to create link", target)
	}

	c.logger.Info().
		Str("target", target).
		Str("previous_state", string(state)).
		Msg("Redirected directory relinked")
	return nil
}

// Unlink removes the link, leaving the path absent. An absent path is not
// an error; a plain directory or other occupant is InconsistentState.
func (c *Controller) Unlink() error {
	state, err := c.State()
	if err != nil {
		return err
	}
	switch state {
	case types.LinkAbsent:
		return nil
	case types.LinkLinked:
		if err := c.fs.Remove(c.path); err != nil {
			return c.linkError(err, "failed to remove link", "")
		}
		c.logger.Info().Msg("Redirected directory unlinked")
		return nil
	default:
		return errors.Newf(errors.ErrInconsistentState, "%s is not a link", c.path).
			WithDetail("path", c.path).
			WithDetail("state", string(state))
	}
}

func (c *Controller) linkError(err error, msg, target string) error {
	e := errors.Wrap(err, errors.ErrLinkOperationFailed, msg).WithDetail("path", c.path)
	if target != "" {
		e = e.WithDetail("target", target)
	}
	return e
}
