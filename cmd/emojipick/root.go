package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	rescan  bool
	rebuild bool
	clean   bool
	list    bool
	noPick  bool
	json    bool
	lines   int
	filters []string
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var verbose bool
	var opts rootOptions

	ctx := newCommandContext(&configFlag, &verbose)

	rootCmd := &cobra.Command{
		Use:   "emojipick",
		Short: "Pick an emoji or kaomoji and copy it to the clipboard",
		Long: "emojipick shows the entries of every *.csv file in the source directory in a\n" +
			"menu program such as rofi, copies the chosen entry to the clipboard, and moves\n" +
			"it to the top of the list for next time.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lines") {
				if opts.lines < 1 {
					return fmt.Errorf("--lines must be positive, got %d", opts.lines)
				}
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				cfg.Picker.Lines = opts.lines
			}
			return runRoot(cmd, ctx, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	flags := rootCmd.Flags()
	flags.BoolVar(&opts.rescan, "rescan", false, "Scan the source directory for new entries before picking")
	flags.BoolVar(&opts.rebuild, "rebuild", false, "Discard the cache, including recent order, and rescan")
	flags.BoolVar(&opts.clean, "clean", false, "Remove cached entries whose source line no longer exists")
	flags.BoolVar(&opts.list, "list", false, "List the source files and exit")
	flags.BoolVar(&opts.noPick, "no-pick", false, "Run maintenance flags without launching the picker")
	flags.BoolVar(&opts.json, "json", false, "Print output as JSON")
	flags.IntVar(&opts.lines, "lines", 0, "Number of lines the picker shows (overrides config)")
	flags.StringArrayVarP(&opts.filters, "filter", "f", nil, "Only offer entries from source files whose name contains this keyword (repeatable)")
	rootCmd.MarkFlagsMutuallyExclusive("rescan", "rebuild")

	rootCmd.AddCommand(newSourcesCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func runRoot(cmd *cobra.Command, ctx *commandContext, opts rootOptions) error {
	runCtx, svc, err := ctx.service(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.list {
		sources, err := svc.Sources(runCtx)
		if err != nil {
			return err
		}
		if opts.json {
			return writeJSON(cmd, sources)
		}
		if len(sources) == 0 {
			fmt.Fprintf(out, "No source files in %s\n", svc.SourceDir())
			return nil
		}
		for _, src := range sources {
			fmt.Fprintln(out, src.Path)
		}
		return nil
	}

	if opts.rebuild {
		if _, err := svc.Rebuild(runCtx); err != nil {
			return err
		}
	} else {
		if err := svc.LoadOrBootstrap(runCtx); err != nil {
			return err
		}
		if opts.rescan {
			if _, err := svc.Rescan(runCtx); err != nil {
				return err
			}
		}
	}

	var result runOutput
	if opts.clean {
		removed, err := svc.Clean(runCtx)
		if err != nil {
			return err
		}
		result.Removed = &removed
		if !opts.json {
			fmt.Fprintf(out, "Removed %d stale %s\n", removed, pluralize(removed, "entry", "entries"))
		}
	}

	if opts.noPick {
		if opts.json {
			stats := svc.Stats()
			result.Stats = &stats
			return writeJSON(cmd, result)
		}
		return nil
	}

	chosen, err := svc.Run(runCtx, opts.filters)
	if err != nil {
		return err
	}
	if opts.json {
		result.Choice = chosen
		return writeJSON(cmd, result)
	}
	fmt.Fprintln(out, chosen)
	return nil
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
