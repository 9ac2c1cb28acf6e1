package cli

import (
	"fmt"

	"github.com/pablasso/chime/internal/store"
	"github.com/pablasso/chime/internal/util"
	"github.com/spf13/cobra"
)

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>...",
		Short: "Toggle tasks between pending and done",
		Long:  "Mark tasks done, or pending again if they already are. Ids may be shortened to any unique prefix.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStoreForWrite()
			if err != nil {
				return err
			}
			for _, arg := range args {
				t, err := st.Find(arg)
				if err != nil {
					return err
				}
				updated, _ := st.ToggleComplete(t.ID)
				state := "pending"
				if updated.Completed {
					state = "done"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %q is %s\n", util.ShortTaskID(t.ID), t.Name, state)
			}
			return persisted(st)
		},
	}
}

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Long:    "Delete single task instances. Other instances of a recurring series are kept.",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStoreForWrite()
			if err != nil {
				return err
			}
			return removeTasks(cmd, st, args)
		},
	}
}

func removeTasks(cmd *cobra.Command, st *store.Store, ids []string) error {
	for _, id := range ids {
		t, err := st.Find(id)
		if err != nil {
			return err
		}
		st.Delete(t.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", util.ShortTaskID(t.ID), t.Name)
	}
	return persisted(st)
}
