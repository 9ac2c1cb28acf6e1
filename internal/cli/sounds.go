package cli

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/pablasso/chime/internal/sound"
	"github.com/spf13/cobra"
)

func newSoundsCmd(a *app) *cobra.Command {
	var play string

	cmd := &cobra.Command{
		Use:   "sounds",
		Short: "List built-in alarm sounds",
		Long:  "List the built-in alarm sounds and the audio player chime will use. --play previews a sound id or an audio file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			player := a.player()
			if play != "" {
				return previewSound(cmd, player, play)
			}

			out := cmd.OutOrStdout()
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDEFAULT")
			for _, s := range sound.All() {
				mark := ""
				if s.ID == a.cfg.Sound.Default {
					mark = "*"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintln(out)
			if c, err := player.Resolve(); err == nil {
				fmt.Fprintf(out, "Player: %s %s\n", c.Name, strings.Join(c.Args, " "))
			} else {
				fmt.Fprintln(out, "Player: none found, alarms will ring the terminal bell")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&play, "play", "", "Play a sound id or audio file and exit")
	return cmd
}

func previewSound(cmd *cobra.Command, player *sound.ExecPlayer, target string) error {
	if err := checkPlayer(player); err != nil {
		return err
	}

	locator := target
	if s, ok := sound.Lookup(target); ok {
		locator = s.URL
	} else {
		path, err := absPath(expandUser(target))
		if err != nil {
			return err
		}
		if err := sound.ValidateAudioFile(path); err != nil {
			return err
		}
		locator = path
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (Ctrl+C to stop)\n", target)
	if err := player.Play(ctx, locator); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
