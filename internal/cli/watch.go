package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pablasso/chime/internal/alarm"
	"github.com/pablasso/chime/internal/display"
	"github.com/pablasso/chime/internal/logging"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/task"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Ring alarms from the terminal until interrupted",
		Long: `Watch the task list and ring each alarm at its scheduled minute.

The task file is re-read on every scan, so tasks added with 'chime add'
are picked up without restarting. Alarms that cannot play a sound print a
line and ring the terminal bell.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.Alarm.TickInterval
			}

			if err := checkDataDirWritable(a.cfg.DataDir); err != nil {
				return err
			}
			// The status line owns the terminal, so logs go to the data dir.
			logger, closer, err := logging.OpenFile(a.cfg.DataDir, a.cfg.LogLevel)
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			out := cmd.OutOrStdout()
			var player sound.Player
			if p := a.player(); checkPlayer(p) == nil {
				player = p
			} else {
				fmt.Fprintln(out, "No audio player found, alarms will ring the terminal bell.")
			}

			return watch(ctx, watchConfig{
				out:       out,
				store:     a.openStoreLogging(logger),
				player:    player,
				logger:    logger,
				interval:  interval,
				retention: a.cfg.Alarm.FiredRetention,
				now:       a.now,
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "Scan interval (default alarm.tick_interval)")
	return cmd
}

type taskSource interface {
	Reload()
	List() []task.Task
}

type watchConfig struct {
	out       io.Writer
	store     taskSource
	player    sound.Player
	logger    *log.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// watch runs the alarm loop with a live status line until ctx is done.
func watch(ctx context.Context, wc watchConfig) error {
	disp := display.New(wc.out)

	opts := []alarm.Option{
		alarm.WithRetention(wc.retention),
		alarm.WithClock(wc.now),
		alarm.WithOnFire(func(trig alarm.Trigger) {
			disp.RecordFired()
			if !trig.Fallback() {
				disp.PrintAbove("⏰ %s  ♪ %s", trig.Task.Name, trig.Task.SoundName())
			}
		}),
		alarm.WithNotifier(alarm.NotifierFunc(func(trig alarm.Trigger) {
			disp.PrintAbove("⏰ %s\a", trig.Message())
		})),
	}
	if wc.player != nil {
		opts = append(opts, alarm.WithPlayer(wc.player))
	}
	if wc.logger != nil {
		opts = append(opts, alarm.WithLogger(wc.logger))
	}
	monitor := alarm.NewMonitor(opts...)

	source := func() []task.Task {
		wc.store.Reload()
		tasks := wc.store.List()
		pending, next := upcoming(tasks, monitor.Now())
		if next != nil {
			disp.UpdateQueue(pending, next.Name, next.ScheduledAt)
		} else {
			disp.UpdateQueue(pending, "", time.Time{})
		}
		return tasks
	}

	disp.Start()
	defer disp.Stop()

	err := alarm.Run(ctx, monitor, wc.interval, source)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// upcoming counts pending tasks and returns the next one due at or after
// now's minute.
func upcoming(tasks []task.Task, now time.Time) (pending int, next *task.Task) {
	minute := task.TruncateMinute(now)
	for i := range tasks {
		t := tasks[i]
		if t.Completed {
			continue
		}
		pending++
		if t.ScheduledAt.Before(minute) {
			continue
		}
		if next == nil || t.ScheduledAt.Before(next.ScheduledAt) {
			next = &tasks[i]
		}
	}
	return pending, next
}
