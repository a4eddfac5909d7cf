package cfgswap

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort        = "Switch between configuration profiles for a game"
	MsgListShort        = "List all profiles"
	MsgStatusShort      = "Show the managed installation and active profile"
	MsgCreateShort      = "Create a new, empty profile"
	MsgRenameShort      = "Rename a profile"
	MsgSetArgsShort     = "Set the launch arguments of a profile"
	MsgActivateShort    = "Make a profile the active configuration"
	MsgRunShort         = "Activate a profile and start the game"
	MsgDeleteShort      = "Delete a profile"
	MsgImportShort      = "Import the configuration of another installation"
	MsgSetGamePathShort = "Set the game installation to manage"
	MsgDetachShort      = "Restore a plain configuration directory"
	MsgPruneShort       = "Remove profile directories no profile refers to"
	MsgPathShort        = "Print the directory holding a profile"
	MsgVersionShort     = "Print version information"
	MsgCompletionShort  = "Generate shell completion script"
	MsgManShort         = "Generate the man page"

	// Group titles
	MsgGroupProfiles = "Profiles:"
	MsgGroupSetup    = "Setup:"
	MsgGroupMisc     = "Misc:"

	// Status messages
	MsgNoProfiles          = "No profiles yet. Create one with 'cfgswap create'."
	MsgProfileCreated      = "Created profile '%s' (%s)\n"
	MsgProfileImported     = "Imported profile '%s' from %s\n"
	MsgProfileRenamed      = "Renamed '%s' to '%s'\n"
	MsgProfileArgsSet      = "Launch arguments of '%s' set to %q\n"
	MsgProfileActivated    = "Activated '%s'\n"
	MsgProfileDeleted      = "Deleted '%s'\n"
	MsgProfileSwitched     = "Switched to '%s'\n"
	MsgGamePathSet         = "Managing %s\n"
	MsgLaunched            = "Started %s with '%s'\n"
	MsgAdvancedLaunched    = "Started the advanced launcher with '%s'\n"
	MsgDetached            = "Configuration directory restored as a plain directory"
	MsgPurged              = "All profiles and saved state removed"
	MsgNoOrphans           = "No orphaned profile directories."
	MsgOrphanItem          = "  %s\n"
	MsgOrphansFound        = "Orphaned profile directories:"
	MsgOrphansPruned       = "Removed %d orphaned profile director%s\n"
	MsgDryRunNotice        = "\nDRY RUN MODE - No changes were made"
	MsgImportSourceWarning = "Warning: the profile was imported but the source could not be removed: %v\n"
	MsgNotSet              = "(not set)"
	MsgNone                = "(none)"
	MsgInconsistent        = "The configuration directory does not match the active profile. Run 'cfgswap activate' to repair it."

	// Error messages
	MsgErrInitPaths    = "failed to initialize paths: %w"
	MsgErrLoadSettings = "failed to load settings: %w"
	MsgErrOpenEngine   = "failed to open profiles: %w"
	MsgErrNoActive     = "no profile is active"

	// Flag descriptions
	MsgFlagVerbose      = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagArgs         = "Launch arguments passed to the game"
	MsgFlagReadOnly     = "Protect the profile from edits and deletion"
	MsgFlagSwitch       = "If the profile is active, activate its neighbour first"
	MsgFlagName         = "Name of the new profile"
	MsgFlagDeleteSource = "Remove the source installation after importing"
	MsgFlagPurge        = "Also delete every profile and the saved state"
	MsgFlagDryRun       = "Preview changes without executing them"
	MsgFlagAdvanced     = "Start the advanced launcher instead of the game"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/set-args-long.txt
	msgSetArgsLongRaw string
	MsgSetArgsLong    = strings.TrimSpace(msgSetArgsLongRaw)

	//go:embed msgs/activate-long.txt
	msgActivateLongRaw string
	MsgActivateLong    = strings.TrimSpace(msgActivateLongRaw)

	//go:embed msgs/delete-long.txt
	msgDeleteLongRaw string
	MsgDeleteLong    = strings.TrimSpace(msgDeleteLongRaw)

	//go:embed msgs/import-long.txt
	msgImportLongRaw string
	MsgImportLong    = strings.TrimSpace(msgImportLongRaw)

	//go:embed msgs/detach-long.txt
	msgDetachLongRaw string
	MsgDetachLong    = strings.TrimSpace(msgDetachLongRaw)

	//go:embed msgs/set-game-path-long.txt
	msgSetGamePathLongRaw string
	MsgSetGamePathLong    = strings.TrimSpace(msgSetGamePathLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	MsgUsageTemplate string
)
