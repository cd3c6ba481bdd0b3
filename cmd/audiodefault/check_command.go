package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"audiodefault/internal/config"
	"audiodefault/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [folder]",
		Short: "Verify that ffprobe, mkvmerge, and the report directory are usable",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			root := ""
			if len(args) > 0 {
				root, err = config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve folder: %w", err)
				}
			}

			results := preflight.RunAll(cfg, root)
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{r.Name, passFail(r.Passed), r.Detail})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows, nil))

			if failed := preflight.Failed(results); len(failed) > 0 {
				return errors.New("one or more checks failed")
			}
			fmt.Fprintln(out, "All checks passed")
			return nil
		},
	}
}

func passFail(ok bool) string {
	if ok {
		return "ok"
	}
	return "FAIL"
}
