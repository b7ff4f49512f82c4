package assetcfg

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/assetcfg/internal/version"
	"github.com/arthur-debert/assetcfg/pkg/bundle"
	"github.com/arthur-debert/assetcfg/pkg/cleaner"
	"github.com/arthur-debert/assetcfg/pkg/cobrax/topics"
	"github.com/arthur-debert/assetcfg/pkg/config"
	"github.com/arthur-debert/assetcfg/pkg/errors"
	"github.com/arthur-debert/assetcfg/pkg/logging"
	"github.com/arthur-debert/assetcfg/pkg/output"
	"github.com/arthur-debert/assetcfg/pkg/pattern"
	"github.com/arthur-debert/assetcfg/pkg/plugins"
	"github.com/arthur-debert/assetcfg/pkg/scan"
)

// rootOptions holds the persistent flags
type rootOptions struct {
	verbosity    int
	root         string
	configFile   string
	format       string
	styles       string
	noUserConfig bool
	overrides    []string
}

func (o *rootOptions) loadOptions() (config.LoadOptions, error) {
	overrides, err := config.ParseOverrides(o.overrides)
	if err != nil {
		return config.LoadOptions{}, err
	}
	return config.LoadOptions{
		Root:         o.root,
		File:         o.configFile,
		NoUserConfig: o.noUserConfig,
		Overrides:    overrides,
	}, nil
}

func (o *rootOptions) load() (*config.Descriptor, error) {
	lo, err := o.loadOptions()
	if err != nil {
		return nil, err
	}
	return config.Load(lo)
}

// descriptor loads the layered descriptor, or the built-in one when defaults is set
func (o *rootOptions) descriptor(defaults bool) (*config.Descriptor, error) {
	if defaults {
		return config.Default(), nil
	}
	return o.load()
}

func (o *rootOptions) renderer(cmd *cobra.Command) (*output.Renderer, error) {
	format, err := output.ParseFormat(o.format)
	if err != nil {
		return nil, err
	}
	return output.NewRenderer(cmd.OutOrStdout(), format), nil
}

func (o *rootOptions) projectRoot() string {
	if o.root == "" {
		return "."
	}
	return o.root
}

// reportedError wraps an error whose details the command already rendered
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// IsReported reports whether the command already rendered err on its output
func IsReported(err error) bool {
	var r *reportedError
	return stderrors.As(err, &r)
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "assetcfg",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(opts.verbosity)
			logger := logging.GetLogger("cmd")
			logger.Debug().Str("command", cmd.Name()).Msg("Command started")

			if _, err := output.ParseFormat(opts.format); err != nil {
				return err
			}
			if opts.styles != "" {
				if err := output.LoadStylesFromFile(opts.styles); err != nil {
					return err
				}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errors.New(errors.ErrInvalidInput, "no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	flags.StringVar(&opts.root, "root", ".", MsgFlagRoot)
	flags.StringVarP(&opts.configFile, "config", "c", "", MsgFlagConfig)
	flags.StringVarP(&opts.format, "format", "f", "auto", MsgFlagFormat)
	flags.StringVar(&opts.styles, "styles", "", MsgFlagStyles)
	flags.BoolVar(&opts.noUserConfig, "no-user-config", false, MsgFlagNoUserConfig)
	flags.StringArrayVar(&opts.overrides, "set", nil, MsgFlagSet)

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.FormatNames, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "setup", Title: "SETUP:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))
	rootCmd.AddCommand(newDescribeCmd(opts))
	rootCmd.AddCommand(newCleanCmd(opts))
	rootCmd.AddCommand(newMatchCmd(opts))
	rootCmd.AddCommand(newPlanCmd(opts))
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	err := topics.InitializeWithOptions(rootCmd, helpTopics(), topics.Options{
		Extensions: []string{".md"},
		Renderer:   topics.NewGlamourRenderer(),
	})
	if err != nil {
		logger := logging.GetLogger("cmd")
		logger.Warn().Err(err).Msg("Help topics unavailable")
	}
	rootCmd.SetHelpCommandGroupID("misc")

	return rootCmd
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "check",
		Short:   MsgCheckShort,
		Long:    MsgCheckLong,
		Args:    cobra.NoArgs,
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			d, loadErr := opts.load()
			if err := r.Check(output.NewCheckResult(d, loadErr)); err != nil {
				return err
			}
			if loadErr != nil {
				return &reportedError{err: loadErr}
			}
			return nil
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "show",
		Short:   MsgShowShort,
		Args:    cobra.NoArgs,
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			d, err := opts.descriptor(defaults)
			if err != nil {
				return err
			}
			return r.Descriptor(d)
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newDescribeCmd(opts *rootOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:     "describe",
		Short:   MsgDescribeShort,
		Args:    cobra.NoArgs,
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			d, err := opts.descriptor(defaults)
			if err != nil {
				return err
			}
			return r.Markdown(output.DescribeMarkdown(d))
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}

func newCleanCmd(opts *rootOptions) *cobra.Command {
	var prefixes []string

	cmd := &cobra.Command{
		Use:     "clean <path>...",
		Short:   MsgCleanShort,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			var nc cleaner.NameCleaner
			if len(prefixes) > 0 {
				nc = cleaner.New(prefixes...)
			} else {
				d, err := opts.load()
				if err != nil {
					return err
				}
				nc = d.NameCleaner()
			}

			results := make([]output.CleanResult, 0, len(args))
			for _, p := range args {
				p = pattern.SlashPath(p)
				results = append(results, output.CleanResult{Input: p, Output: nc.Clean(p)})
			}
			return r.Cleaned(results)
		},
	}
	cmd.Flags().StringArrayVar(&prefixes, "prefix", nil, MsgFlagPrefix)
	return cmd
}

func newMatchCmd(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:     "match <path>...",
		Short:   MsgMatchShort,
		Example: MsgMatchExample,
		Args:    cobra.MinimumNArgs(1),
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			var forced config.Category
			if category != "" {
				if forced, err = config.ParseCategory(category); err != nil {
					return err
				}
			}

			d, err := opts.load()
			if err != nil {
				return err
			}
			matcher := bundle.NewMatcher(d)
			registry := plugins.FromDescriptor(d)

			results := make([]output.MatchResult, 0, len(args))
			for _, p := range args {
				p = pattern.SlashPath(p)
				res := output.MatchResult{Path: p}

				c, ok := forced, forced != ""
				if !ok {
					c, ok = registry.CategoryFor(p)
				}
				if !ok {
					results = append(results, res)
					continue
				}
				res.Category = string(c)

				name, matched, err := matcher.Match(c, p)
				if err != nil {
					return err
				}
				res.Bundle, res.Matched = name, matched
				if matched && bundle.HasModules(c) {
					res.Module = matcher.ModuleName(p)
				}
				results = append(results, res)
			}
			return r.Matches(results)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", MsgFlagCategory)
	_ = cmd.RegisterFlagCompletionFunc("category", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, 0, len(config.AllCategories))
		for _, c := range config.AllCategories {
			names = append(names, string(c))
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newPlanCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "plan [path...]",
		Short:   MsgPlanShort,
		Long:    MsgPlanLong,
		Example: MsgPlanExample,
		GroupID: "inspect",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			d, err := opts.load()
			if err != nil {
				return err
			}

			paths := args
			if len(paths) == 0 {
				paths, err = scan.Sources(cmd.Context(), opts.projectRoot(), d.Paths().Watched)
				if err != nil {
					return err
				}
			}

			plan, err := bundle.NewMatcher(d).Plan(paths)
			if err != nil {
				return err
			}
			return r.Plan(plan)
		},
	}
}

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force, user bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Args:    cobra.NoArgs,
		GroupID: "setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			logger := logging.GetLogger("cmd.init")

			target := filepath.Join(opts.projectRoot(), config.ProjectFileNames[0])
			content := config.Skeleton()
			if user {
				target = config.DefaultUserConfigPath()
				content = config.GenerateConfigContent()
			} else if !force {
				existing, err := config.ResolveProjectFile(config.LoadOptions{Root: opts.projectRoot()})
				if err != nil {
					return err
				}
				if existing != "" {
					return errors.Newf(errors.ErrAlreadyExists, "descriptor %s already exists", existing).
						WithDetail("path", existing)
				}
			}

			if _, err := os.Stat(target); err == nil && !force {
				return errors.Newf(errors.ErrAlreadyExists, "%s already exists", target).
					WithDetail("path", target)
			}

			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot create %s", filepath.Dir(target)).
					WithDetail("path", target)
			}
			if err := os.WriteFile(target, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrFileWrite, "cannot write %s", target).
					WithDetail("path", target)
			}

			logger.Info().Str("path", target).Bool("user", user).Msg("Wrote descriptor")
			return r.Message("Success", fmt.Sprintf(MsgInitWritten, target))
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, MsgFlagForce)
	cmd.Flags().BoolVar(&user, "user", false, MsgFlagUser)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "assetcfg version %s\n", version.Version)
			fmt.Fprintf(out, "  commit: %s\n", version.Commit)
			fmt.Fprintf(out, "  built:  %s\n", version.Date)
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
				return cmd.Root().GenBashCompletion(out)
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
