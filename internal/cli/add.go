package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/task"
	"github.com/pablasso/chime/internal/util"
	"github.com/spf13/cobra"
)

type addOptions struct {
	at        string
	alarm     string
	sound     string
	soundFile string
	every     string
	until     string
}

func newAddCmd(a *app) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Schedule a task",
		Long: `Schedule a task with an alarm. Times are local, written as YYYY-MM-DD HH:MM.

With --every and --until the task repeats daily, weekly or monthly up to and
including the end date; every occurrence is created at once.`,
		Example: `  chime add "Call mom" --at "2024-01-01 09:00"
  chime add "Water plants" --at "2024-01-01 08:00" --every daily --until 2024-01-31
  chime add "Stand-up" --at "2024-01-02 09:30" --alarm "2024-01-02 09:25" --sound-file ~/rooster.mp3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tpl, err := buildTemplate(strings.Join(args, " "), opts, a.cfg.Sound.Default)
			if err != nil {
				return err
			}

			st, err := a.openStoreForWrite()
			if err != nil {
				return err
			}
			created, err := st.Add(tpl)
			if err != nil {
				return err
			}
			if err := persisted(st); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch len(created) {
			case 0:
				fmt.Fprintf(out, "No occurrences of %q fall before %s\n", tpl.Name, tpl.Recurring.EndDate.Format(task.DateLayout))
			case 1:
				fmt.Fprintf(out, "Created %q (%s) at %s\n", tpl.Name, util.ShortTaskID(created[0].ID), created[0].ScheduledAt.Format(listTimeLayout))
			default:
				fmt.Fprintf(out, "Created %d tasks for %q, %s to %s\n", len(created), tpl.Name,
					created[0].ScheduledAt.Format(listTimeLayout),
					created[len(created)-1].ScheduledAt.Format(listTimeLayout))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.at, "at", "", "Date and time of the task (YYYY-MM-DD HH:MM)")
	cmd.Flags().StringVar(&opts.alarm, "alarm", "", "Alarm time (default: same as --at)")
	cmd.Flags().StringVar(&opts.sound, "sound", "", "Built-in sound id (see `chime sounds`)")
	cmd.Flags().StringVar(&opts.soundFile, "sound-file", "", "Audio file to use as the alarm sound")
	cmd.Flags().StringVar(&opts.every, "every", "", "Repeat: daily, weekly or monthly")
	cmd.Flags().StringVar(&opts.until, "until", "", "Last date of a repeating task (YYYY-MM-DD)")
	cmd.MarkFlagRequired("at")
	cmd.MarkFlagsMutuallyExclusive("sound", "sound-file")
	cmd.MarkFlagsRequiredTogether("every", "until")
	return cmd
}

// buildTemplate turns command line input into a validated template.
func buildTemplate(name string, opts addOptions, defaultSound string) (task.Template, error) {
	tpl := task.Template{Name: strings.TrimSpace(name)}

	at, err := task.ParseDateTime(opts.at)
	if err != nil {
		return tpl, &task.ValidationError{Field: "datetime", Message: err.Error()}
	}
	tpl.ScheduledAt = at
	tpl.AlarmAt = at

	if opts.alarm != "" {
		alarm, err := task.ParseDateTime(opts.alarm)
		if err != nil {
			return tpl, &task.ValidationError{Field: "alarm", Message: err.Error()}
		}
		tpl.AlarmAt = alarm
	}

	switch {
	case opts.soundFile != "":
		path, err := absPath(expandUser(opts.soundFile))
		if err != nil {
			return tpl, err
		}
		if err := sound.ValidateAudioFile(path); err != nil {
			return tpl, err
		}
		tpl.AlarmSound = sound.CustomID
		tpl.CustomSound = &task.CustomSound{Name: baseName(path), URL: path}
	case opts.sound != "":
		tpl.AlarmSound = opts.sound
	default:
		tpl.AlarmSound = defaultSound
	}

	if opts.every != "" {
		freq, err := task.ParseFrequency(opts.every)
		if err != nil {
			return tpl, &task.ValidationError{Field: "frequency", Message: err.Error()}
		}
		until, err := task.ParseDate(opts.until)
		if err != nil {
			return tpl, &task.ValidationError{Field: "endDate", Message: err.Error()}
		}
		tpl.Recurring = &task.Recurring{EndDate: until, Frequency: freq}
	}

	return tpl, tpl.Validate()
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func baseName(path string) string {
	return filepath.Base(path)
}
