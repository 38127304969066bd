package homer

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Link a dotfiles tree into your home directory"
	MsgLinkShort       = "Link the input tree into the output directory"
	MsgPlanShort       = "Show every planned action without changing anything"
	MsgConfigShort     = "Print the effective configuration"
	MsgTopicsShort     = "Display documentation topics"
	MsgTopicsLong      = "Display a help topic, or list the available topics when no name is given."
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"
	MsgVersionShort    = "Print version information"

	// Status messages
	MsgVersionFormat = "homer version %s\n  commit: %s\n  built:  %s\n"
	MsgConfigSources = "# loaded from: %s\n"
	MsgConfigNoFiles = "# no configuration files found, showing defaults\n"

	// Error messages
	MsgErrLoadConfig = "failed to load configuration: %w"
	MsgErrRunFailed  = "some operations failed"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v lists every path and logs INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun     = "Show the plan without changing anything"
	MsgFlagOutput     = "Directory to link into (default: your home directory)"
	MsgFlagBackup     = "Move conflicting regular files to NAME.bkp before linking"
	MsgFlagForce      = "Replace conflicting files and symlinks, and skip confirmation"
	MsgFlagIgnoreFile = "Gitignore-style file of paths to skip (default: .homerignore)"
	MsgFlagScripts    = "Directory of setup scripts to run after linking"
	MsgFlagConfig     = "Configuration file (default: $XDG_CONFIG_HOME/homer/config.toml)"
	MsgFlagFormat     = "Output format: auto, term or text"
	MsgFlagTemplate   = "Print a commented configuration template instead"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/plan-long.txt
	msgPlanLongRaw string
	MsgPlanLong    = strings.TrimSpace(msgPlanLongRaw)

	//go:embed msgs/config-long.txt
	msgConfigLongRaw string
	MsgConfigLong    = strings.TrimSpace(msgConfigLongRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/root-example.txt
	msgRootExampleRaw string
	MsgRootExample    = strings.TrimRight(msgRootExampleRaw, "\n")

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
