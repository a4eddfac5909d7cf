package cfgswap

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/cfgswap/pkg/engine"
	"github.com/arthur-debert/cfgswap/pkg/errors"
	"github.com/arthur-debert/cfgswap/pkg/filesystem"
	"github.com/arthur-debert/cfgswap/pkg/launcher"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   MsgListShort,
		GroupID: "profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				profiles := eng.ListProfiles()
				if len(profiles) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), MsgNoProfiles)
					return nil
				}
				active, _ := eng.ActiveProfile()
				return renderProfiles(cmd.OutOrStdout(), profiles, active.ID)
			})
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "setup",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				st, err := eng.Status()
				if err != nil {
					return err
				}
				return renderStatus(cmd.OutOrStdout(), st)
			})
		},
	}
}

func newCreateCmd() *cobra.Command {
	var (
		launchArgs string
		readOnly   bool
	)

	cmd := &cobra.Command{
		Use:     "create [name]",
		Short:   MsgCreateShort,
		GroupID: "profiles",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.CreateProfile(name, launchArgs, readOnly)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgProfileCreated, p.Name, p.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&launchArgs, "args", "a", "", MsgFlagArgs)
	cmd.Flags().BoolVar(&readOnly, "read-only", false, MsgFlagReadOnly)
	return cmd
}

func newRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <profile> <new-name>",
		Short:             MsgRenameShort,
		GroupID:           "profiles",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: profileRefCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.Resolve(args[0])
				if err != nil {
					return err
				}
				old := p.Name
				p.Name = args[1]
				if err := eng.UpdateProfile(p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgProfileRenamed, old, p.Name)
				return nil
			})
		},
	}
}

func newSetArgsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "set-args <profile> [args...]",
		Short:             MsgSetArgsShort,
		Long:              MsgSetArgsLong,
		GroupID:           "profiles",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: profileRefCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			launchArgs := joinLaunchArgs(args[1:])
			if _, err := launcher.SplitArgs(launchArgs); err != nil {
				return err
			}
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.Resolve(args[0])
				if err != nil {
					return err
				}
				p.LaunchArgs = launchArgs
				if err := eng.UpdateProfile(p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgProfileArgsSet, p.Name, p.LaunchArgs)
				return nil
			})
		},
	}

	// Everything after the profile belongs to the game, dashes included.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// joinLaunchArgs turns the words after the profile back into one launch
// argument string. A single word is kept verbatim; otherwise words with
// whitespace are quoted.
func joinLaunchArgs(words []string) string {
	if len(words) == 1 {
		return words[0]
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		if w == "" || strings.ContainsAny(w, " \t") {
			w = `"` + w + `"`
		}
		quoted[i] = w
	}
	return strings.Join(quoted, " ")
}

func newActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "activate <profile>",
		Aliases:           []string{"use"},
		Short:             MsgActivateShort,
		Long:              MsgActivateLong,
		GroupID:           "profiles",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileRefCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.Resolve(args[0])
				if err != nil {
					return err
				}
				if err := ensureGameNotRunning(cmd, eng, newLauncher(eng)); err != nil {
					return err
				}
				if err := eng.Activate(p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgProfileActivated, p.Name)
				return nil
			})
		},
	}
}

// newLauncher builds the launcher used by activate and run. Tests replace it.
var newLauncher = func(eng *engine.Engine) *launcher.Launcher {
	return launcher.New(filesystem.NewOS(), eng.Layout())
}

// ensureGameNotRunning keeps the link from moving under a running game.
func ensureGameNotRunning(cmd *cobra.Command, eng *engine.Engine, l *launcher.Launcher) error {
	root := eng.InstallPath()
	if root == "" {
		return nil
	}
	return l.EnsureGameNotRunning(cmd.Context(), root)
}

func newRunCmd() *cobra.Command {
	var advanced bool

	cmd := &cobra.Command{
		Use:               "run [profile]",
		Short:             MsgRunShort,
		GroupID:           "profiles",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: profileRefCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				p, ok := eng.ActiveProfile()
				if len(args) == 1 {
					resolved, err := eng.Resolve(args[0])
					if err != nil {
						return err
					}
					p, ok = resolved, true
				}
				if !ok {
					return errors.New(errors.ErrProfileNotFound, MsgErrNoActive)
				}

				l := newLauncher(eng)
				if err := ensureGameNotRunning(cmd, eng, l); err != nil {
					return err
				}
				root := eng.InstallPath()
				if err := eng.Activate(p.ID); err != nil {
					return err
				}

				if advanced {
					if err := l.RunAdvancedLauncher(cmd.Context(), root); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), MsgAdvancedLaunched, p.Name)
					return nil
				}
				if err := l.Run(cmd.Context(), root, p); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgLaunched, filepath.Base(eng.Layout().ExecutablePath(root)), p.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&advanced, "advanced", false, MsgFlagAdvanced)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	var switchFirst bool

	cmd := &cobra.Command{
		Use:               "delete <profile>",
		Aliases:           []string{"rm"},
		Short:             MsgDeleteShort,
		Long:              MsgDeleteLong,
		GroupID:           "profiles",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileRefCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.Resolve(args[0])
				if err != nil {
					return err
				}

				if active, ok := eng.ActiveProfile(); ok && active.ID == p.ID && switchFirst && !p.ReadOnly {
					next, err := eng.SubstituteFor(p.ID)
					if err != nil {
						return err
					}
					if err := eng.Activate(next.ID); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), MsgProfileSwitched, next.Name)
				}

				if err := eng.DeleteProfile(p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgProfileDeleted, p.Name)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&switchFirst, "switch", false, MsgFlagSwitch)
	return cmd
}

func newImportCmd() *cobra.Command {
	var opts engine.ImportOptions

	cmd := &cobra.Command{
		Use:     "import <install-path>",
		Short:   MsgImportShort,
		Long:    MsgImportLong,
		GroupID: "profiles",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.InstallPath = args[0]
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.ImportProfile(opts)
				if err != nil && p.ID != uuid.Nil {
					// Profile exists; only the source removal failed.
					fmt.Fprintf(cmd.ErrOrStderr(), MsgImportSourceWarning, err)
					err = nil
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgProfileImported, p.Name, opts.InstallPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", MsgFlagName)
	cmd.Flags().StringVarP(&opts.LaunchArgs, "args", "a", "", MsgFlagArgs)
	cmd.Flags().BoolVar(&opts.DeleteSource, "delete-source", false, MsgFlagDeleteSource)
	return cmd
}

func newPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "path <profile>",
		Short:             MsgPathShort,
		GroupID:           "profiles",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: profileRefCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				p, err := eng.Resolve(args[0])
				if err != nil {
					return err
				}
				dir, err := eng.ProfileDir(p.ID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
				return nil
			})
		},
	}
}

func newSetGamePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "set-game-path <install-path>",
		Short:   MsgSetGamePathShort,
		Long:    MsgSetGamePathLong,
		GroupID: "setup",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				if err := eng.ChangeGamePath(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), MsgGamePathSet, eng.InstallPath())
				return nil
			})
		},
	}
}

func newDetachCmd() *cobra.Command {
	var purge bool

	cmd := &cobra.Command{
		Use:     "detach",
		Short:   MsgDetachShort,
		Long:    MsgDetachLong,
		GroupID: "setup",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				if err := eng.Detach(purge); err != nil {
					return err
				}
				if eng.InstallPath() != "" || !purge {
					fmt.Fprintln(cmd.OutOrStdout(), MsgDetached)
				}
				if purge {
					fmt.Fprintln(cmd.OutOrStdout(), MsgPurged)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&purge, "purge", false, MsgFlagPurge)
	return cmd
}

func newPruneCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "prune",
		Short:   MsgPruneShort,
		GroupID: "setup",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(func(eng *engine.Engine) error {
				out := cmd.OutOrStdout()
				if dryRun {
					orphans, err := eng.Orphans()
					if err != nil {
						return err
					}
					if len(orphans) == 0 {
						fmt.Fprintln(out, MsgNoOrphans)
						return nil
					}
					fmt.Fprintln(out, MsgOrphansFound)
					for _, id := range orphans {
						fmt.Fprintf(out, MsgOrphanItem, id)
					}
					fmt.Fprintln(out, MsgDryRunNotice)
					return nil
				}

				pruned, err := eng.PruneOrphans()
				if err != nil {
					return err
				}
				if len(pruned) == 0 {
					fmt.Fprintln(out, MsgNoOrphans)
					return nil
				}
				suffix := "ies"
				if len(pruned) == 1 {
					suffix = "y"
				}
				fmt.Fprintf(out, MsgOrphansPruned, len(pruned), suffix)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, MsgFlagDryRun)
	return cmd
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
