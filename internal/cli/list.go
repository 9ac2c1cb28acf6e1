package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pablasso/chime/internal/task"
	"github.com/pablasso/chime/internal/util"
	"github.com/spf13/cobra"
)

const listTimeLayout = "Mon Jan 2 15:04"

// selection picks which tasks a listing or export includes.
type selection struct {
	completed bool
	all       bool
}

func (s *selection) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&s.completed, "completed", false, "Only completed tasks")
	cmd.Flags().BoolVar(&s.all, "all", false, "Active and completed tasks")
	cmd.MarkFlagsMutuallyExclusive("completed", "all")
}

func (s selection) filter(tasks []task.Task) []task.Task {
	if s.all {
		return tasks
	}
	var out []task.Task
	for _, t := range tasks {
		if t.Completed == s.completed {
			out = append(out, t)
		}
	}
	return out
}

func newListCmd(a *app) *cobra.Command {
	var sel selection

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks grouped by series",
		Long:    "List active tasks, grouped by recurring series. Use --completed or --all to widen the listing.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks := sel.filter(a.openStore().List())
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tasks found.")
				return nil
			}
			return writeGroups(cmd.OutOrStdout(), task.GroupTasks(tasks))
		},
	}
	sel.register(cmd)
	return cmd
}

// writeGroups prints one aligned table per group.
func writeGroups(out io.Writer, groups []task.Group) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, g := range groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, groupHeading(g))
		fmt.Fprintln(w, "  ID\tNAME\tWHEN\tALARM\tSOUND\tSTATUS")
		for _, t := range g.Tasks {
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\t%s\n",
				util.ShortTaskID(t.ID),
				t.Name,
				t.ScheduledAt.Format(listTimeLayout),
				t.AlarmAt.Format("15:04"),
				t.SoundName(),
				status(t),
			)
		}
	}
	return w.Flush()
}

func groupHeading(g task.Group) string {
	noun := "tasks"
	if len(g.Tasks) == 1 {
		noun = "task"
	}
	heading := fmt.Sprintf("%s (%d %s)", g.Title, len(g.Tasks), noun)
	if g.Recurring != nil {
		heading += fmt.Sprintf(" · recurring %s until %s · %d/%d done",
			g.Recurring.Frequency, g.Recurring.EndDate.Format(task.DateLayout), g.Completed(), len(g.Tasks))
	}
	return heading
}

func status(t task.Task) string {
	if t.Completed {
		return "done"
	}
	return "pending"
}
