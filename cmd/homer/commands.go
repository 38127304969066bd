package homer

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/homer/internal/version"
	"github.com/arthur-debert/homer/pkg/commands/link"
	"github.com/arthur-debert/homer/pkg/config"
	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/logging"
	"github.com/arthur-debert/homer/pkg/scripts"
	"github.com/arthur-debert/homer/pkg/topics"
	"github.com/arthur-debert/homer/pkg/types"
	"github.com/arthur-debert/homer/pkg/ui"
	"github.com/arthur-debert/homer/pkg/ui/confirmations"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// flags holds the values of the global flags
type flags struct {
	verbosity  int
	dryRun     bool
	output     string
	backup     bool
	force      bool
	ignoreFile string
	scriptsDir string
	configFile string
	format     string
}

// NewRootCmd creates and returns the root command. Without a subcommand
// homer links, so `homer` and `homer link` are the same.
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	f := &flags{}

	rootCmd := &cobra.Command{
		Use:     "homer [input]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(f.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, f, args, f.dryRun, f.verbosity > 0)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.CountVarP(&f.verbosity, "verbose", "v", MsgFlagVerbose)
	pf.BoolVar(&f.dryRun, "dry-run", false, MsgFlagDryRun)
	pf.StringVarP(&f.output, "output", "o", "", MsgFlagOutput)
	pf.BoolVarP(&f.backup, "backup", "b", false, MsgFlagBackup)
	pf.BoolVarP(&f.force, "force", "f", false, MsgFlagForce)
	pf.StringVar(&f.ignoreFile, "ignore-file", "", MsgFlagIgnoreFile)
	pf.StringVarP(&f.scriptsDir, "scripts", "s", "", MsgFlagScripts)
	pf.StringVar(&f.configFile, "config", "", MsgFlagConfig)
	pf.StringVar(&f.format, "format", "", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newLinkCmd(f))
	rootCmd.AddCommand(newPlanCmd(f))
	rootCmd.AddCommand(newConfigCmd(f))
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newLinkCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:     "link [input]",
		Short:   MsgLinkShort,
		Long:    MsgRootLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, f, args, f.dryRun, f.verbosity > 0)
		},
	}
}

func newPlanCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:     "plan [input]",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, f, args, true, true)
		},
	}
}

func runLink(cmd *cobra.Command, f *flags, args []string, dryRun, verbose bool) error {
	cfg, err := f.loadConfig(cmd, args)
	if err != nil {
		return err
	}

	log.Info().
		Str("input", cfg.Input).
		Str("output", cfg.Output).
		Bool("dry_run", dryRun).
		Msg("Linking")

	result, err := link.Run(cmd.Context(), link.Options{
		Config:             cfg,
		DryRun:             dryRun,
		Verbose:            verbose,
		IgnoreFileRequired: cfg.IgnoreFile != config.Default().IgnoreFile,
		Out:                cmd.OutOrStdout(),
		ErrOut:             cmd.ErrOrStderr(),
		Confirmer:          confirmations.NewConsoleDialogWithIO(cmd.InOrStdin(), cmd.OutOrStdout()),
	})
	if err != nil {
		return err
	}
	return runFailure(result)
}

// runFailure turns a completed run with failures into an error so the
// process exits non-zero
func runFailure(result *link.Result) error {
	if !result.Failed() {
		return nil
	}

	actions := types.Summarize(result.Actions).Failed
	scriptFailures := scripts.Failures(result.Scripts)
	switch {
	case actions > 0:
		return errors.Newf(errors.ErrActionExecute, "%d actions failed", actions).
			WithDetail("failed", actions)
	case scriptFailures > 0:
		return errors.Newf(errors.ErrScriptFailure, "%d scripts failed", scriptFailures).
			WithDetail("failed", scriptFailures)
	case result.Plan != nil && result.Plan.HasConflicts():
		return errors.Newf(errors.ErrUnresolvedConflict, "%d conflicts were left in place", len(result.Plan.Conflicts))
	}
	return errors.New(errors.ErrInternal, MsgErrRunFailed)
}

// loadConfig merges the configuration sources. Only flags given on the
// command line override the files and environment.
func (f *flags) loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	overrides := make(map[string]interface{})
	if len(args) > 0 {
		overrides["input"] = args[0]
	}

	set := func(flag, key string, value interface{}) {
		if cmd.Flags().Changed(flag) {
			overrides[key] = value
		}
	}
	set("output", "output", f.output)
	set("backup", "backup", f.backup)
	set("force", "force", f.force)
	set("ignore-file", "ignore_file", f.ignoreFile)
	set("scripts", "scripts.dir", f.scriptsDir)
	set("format", "ui.format", f.format)

	cfg, err := config.Load(config.LoadOptions{
		ConfigFile: f.configFile,
		Overrides:  overrides,
	})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}
	return cfg, nil
}

func newConfigCmd(f *flags) *cobra.Command {
	var template bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		Long:    MsgConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if template {
				_, err := fmt.Fprint(out, config.GenerateConfigContent())
				return err
			}

			cfg, err := f.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			content, err := config.Marshal(cfg)
			if err != nil {
				return err
			}

			if len(cfg.Sources) == 0 {
				_, _ = fmt.Fprint(out, MsgConfigNoFiles)
			} else {
				_, _ = fmt.Fprintf(out, MsgConfigSources, strings.Join(cfg.Sources, ", "))
			}
			_, err = out.Write(content)
			return err
		},
	}
	cmd.Flags().BoolVar(&template, "template", false, MsgFlagTemplate)
	return cmd
}

func newTopicsCmd() *cobra.Command {
	load := func(cmd *cobra.Command) (*topics.Manager, error) {
		var renderer topics.Renderer = &topics.PlainRenderer{}
		if ui.IsStyled(ui.Resolve(ui.FormatAuto, cmd.OutOrStdout())) {
			renderer = topics.NewGlamourRenderer()
		}
		return topics.Default(renderer)
	}

	return &cobra.Command{
		Use:     "topics [name]",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		Args:    cobra.MaximumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			m, err := load(cmd)
			if err != nil || len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return m.List(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				_, err = fmt.Fprint(cmd.OutOrStdout(), m.Index(cmd.Root().Name()))
				return err
			}
			rendered, err := m.Render(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "HOMER",
				Section: "1",
				Source:  "homer " + version.Version,
				Manual:  "homer manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
		},
	}
}
