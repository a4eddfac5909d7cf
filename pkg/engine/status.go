package engine

import (
	"github.com/arthur-debert/cfgswap/pkg/types"
)

// Status describes the managed installation and what is live.
type Status struct {
	InstallPath    string
	InstallValid   bool
	RedirectedPath string
	LinkState      types.LinkState
	LinkTarget     string
	Active         *types.Profile
	Detached       bool
	// Consistent is false when the link does not point at the active
	// profile's directory.
	Consistent bool
}

// Status reports the current installation, link and active profile.
func (e *Engine) Status() (Status, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	st := Status{
		InstallPath: e.current.InstallPath,
		LinkState:   types.LinkAbsent,
		Consistent:  true,
		Detached:    e.current.Detached,
	}
	if e.current.HasActiveProfile() {
		if p, err := e.registry.GetByID(e.current.ActiveProfile); err == nil {
			st.Active = &p
		}
	}
	if st.InstallPath == "" {
		return st, nil
	}

	st.InstallValid = e.layout.IsValid(e.fs, st.InstallPath)
	ctrl := e.linkFor(st.InstallPath)
	st.RedirectedPath = ctrl.Path()

	state, err := ctrl.State()
	if err != nil {
		return st, err
	}
	st.LinkState = state
	if state == types.LinkLinked {
		if st.LinkTarget, err = ctrl.Target(); err != nil {
			return st, err
		}
	}

	switch {
	case st.Active != nil:
		st.Consistent = state == types.LinkLinked && ctrl.PointsTo(e.store.DirFor(st.Active.ID))
	case state == types.LinkPlainDir:
		st.Consistent = e.current.Detached
	case state == types.LinkLinked:
		st.Consistent = false
	}
	return st, nil
}
