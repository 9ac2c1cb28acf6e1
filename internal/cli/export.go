package cli

import (
	"fmt"
	"os"

	"github.com/pablasso/chime/internal/task"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		sel     selection
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks as an iCalendar file",
		Long:  "Write active tasks (or --completed / --all) as iCalendar events with a display alarm each. Writes to stdout unless --out is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := sel.filter(a.openStore().List())
			ics := task.BuildCalendarICS(tasks, a.now())

			if outPath == "" || outPath == "-" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
				return err
			}
			if err := os.WriteFile(outPath, []byte(ics), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", outPath, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d tasks to %s\n", len(tasks), outPath)
			return nil
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default stdout)")
	return cmd
}
