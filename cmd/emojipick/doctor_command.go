package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"emojipick/internal/catalogcache"
	"emojipick/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories, cache, and external programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			var store catalogcache.Store
			if s, err := ctx.openStore(logger); err == nil {
				store = s
			}

			results := preflight.RunAll(cmd.Context(), cfg, store)
			failed := 0
			for _, r := range results {
				if !r.Passed {
					failed++
				}
			}

			if asJSON {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				if ctx.configPath != "" {
					fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
				}
				for _, r := range results {
					kind := statusOK
					if !r.Passed {
						kind = statusError
					}
					fmt.Fprintln(out, renderStatusLine(r.Name, kind, r.Detail, colorize))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d checks failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print output as JSON")
	return cmd
}
