package cfgswap

import (
	"fmt"

	"github.com/arthur-debert/cfgswap/internal/version"
	"github.com/arthur-debert/cfgswap/pkg/config"
	"github.com/arthur-debert/cfgswap/pkg/engine"
	"github.com/arthur-debert/cfgswap/pkg/filesystem"
	"github.com/arthur-debert/cfgswap/pkg/logging"
	"github.com/arthur-debert/cfgswap/pkg/paths"
	"github.com/arthur-debert/cfgswap/pkg/registry"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "cfgswap",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)

	rootCmd.AddGroup(
		&cobra.Group{ID: "profiles", Title: MsgGroupProfiles},
		&cobra.Group{ID: "setup", Title: MsgGroupSetup},
		&cobra.Group{ID: "misc", Title: MsgGroupMisc},
	)
	rootCmd.SetHelpCommandGroupID("misc")
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(
		newListCmd(),
		newCreateCmd(),
		newRenameCmd(),
		newSetArgsCmd(),
		newActivateCmd(),
		newRunCmd(),
		newDeleteCmd(),
		newImportCmd(),
		newPathCmd(),
		newStatusCmd(),
		newSetGamePathCmd(),
		newDetachCmd(),
		newPruneCmd(),
		newVersionCmd(),
		newCompletionCmd(),
		newManCmd(),
	)

	return rootCmd
}

// openEngine loads settings and saved state and returns a ready engine.
// Callers must Close it.
func openEngine() (*engine.Engine, error) {
	p, err := paths.New()
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	settings, err := config.LoadSettings(p.SettingsPath())
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadSettings, err)
	}

	eng, err := engine.New(engine.Options{
		FS:       filesystem.NewOS(),
		Paths:    p,
		Settings: settings,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrOpenEngine, err)
	}
	return eng, nil
}

// withEngine runs fn against a freshly opened engine.
func withEngine(fn func(eng *engine.Engine) error) error {
	eng, err := openEngine()
	if err != nil {
		return err
	}
	defer eng.Close()
	return fn(eng)
}

// profileRefCompletion completes profile names
func profileRefCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	names, err := profileNames()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// profileNames reads the registry alone so completing a name never touches
// the installation.
func profileNames() ([]string, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}
	settings, err := config.LoadSettings(p.SettingsPath())
	if err != nil {
		return nil, err
	}
	reg, err := registry.Open(filesystem.NewOS(), p.RegistryPath(), settings.Profiles.BackupName)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, profile := range reg.List() {
		names = append(names, profile.Name)
	}
	return names, nil
}
