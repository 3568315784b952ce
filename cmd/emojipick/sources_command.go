package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List source files with their cached entry counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.Load(runCtx); err != nil {
				return err
			}
			sources, err := svc.Sources(runCtx)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, sources)
			}

			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				fmt.Fprintf(out, "No source files in %s\n", svc.SourceDir())
				return nil
			}
			rows := make([][]string, 0, len(sources))
			for _, src := range sources {
				rows = append(rows, []string{src.Path, src.Origin, strconv.Itoa(src.Records)})
			}
			fmt.Fprintln(out, renderTable(sourceColumns, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print output as JSON")
	return cmd
}
