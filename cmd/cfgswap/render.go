package cfgswap

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arthur-debert/cfgswap/pkg/engine"
	"github.com/arthur-debert/cfgswap/pkg/types"
	"github.com/arthur-debert/cfgswap/pkg/ui/styles"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
)

// renderProfiles prints profiles in registry order, marking the active one.
func renderProfiles(w io.Writer, profiles []types.Profile, active uuid.UUID) error {
	data := pterm.TableData{{"", "NAME", "ID", "ARGS"}}
	for _, p := range profiles {
		marker := ""
		if p.ID == active {
			marker = "*"
		}
		data = append(data, []string{marker, styledName(p, p.ID == active), p.ID.String(), p.LaunchArgs})
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

func styledName(p types.Profile, active bool) string {
	name := p.DisplayName()
	switch {
	case !isTerminal():
		return name
	case active:
		return styles.Render("Active", name)
	case p.ReadOnly:
		return styles.Render("ReadOnly", name)
	}
	return name
}

// renderStatus prints the status as a two column table.
func renderStatus(w io.Writer, st engine.Status) error {
	install := st.InstallPath
	if install == "" {
		install = MsgNotSet
	}
	active := MsgNone
	if st.Active != nil {
		active = st.Active.DisplayName()
	}

	data := pterm.TableData{
		{"Game path", install},
		{"Valid", strconv.FormatBool(st.InstallValid)},
		{"Config directory", orNone(st.RedirectedPath)},
		{"Link", string(st.LinkState)},
		{"Link target", orNone(st.LinkTarget)},
		{"Active profile", active},
		{"Detached", strconv.FormatBool(st.Detached)},
		{"Consistent", strconv.FormatBool(st.Consistent)},
	}
	out, err := pterm.DefaultTable.WithData(data).Srender()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	if !st.Consistent {
		_, err = fmt.Fprintln(w, styles.Render("Warning", MsgInconsistent))
	}
	return err
}

func orNone(s string) string {
	if s == "" {
		return MsgNone
	}
	return s
}
