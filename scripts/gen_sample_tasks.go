//go:build ignore

// Command gen_sample_tasks writes a sample task collection for trying out the
// TUI and for screenshots.
//
// Usage:
//
//	go run ./scripts/gen_sample_tasks.go -out /tmp/chime-sample
//	chime --data-dir /tmp/chime-sample
//
// Times are relative to now so the first alarm rings a couple of minutes
// after the file is generated.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pablasso/chime/internal/store"
	"github.com/pablasso/chime/internal/task"
)

type sample struct {
	name   string
	offset time.Duration
	sound  string
	every  task.Frequency
	span   time.Duration
	done   bool
}

var samples = []sample{
	{name: "Stretch", offset: 2 * time.Minute, sound: "chime"},
	{name: "Call mom", offset: 3 * time.Hour, sound: "bell"},
	{name: "Dentist appointment", offset: 26 * time.Hour, sound: "alert"},
	{name: "Submit expense report", offset: -2 * time.Hour, sound: "notification", done: true},
	{name: "Water plants", offset: 30 * time.Minute, sound: "bell", every: task.FrequencyDaily, span: 6 * 24 * time.Hour},
	{name: "Team sync", offset: 20 * time.Hour, sound: "chime", every: task.FrequencyWeekly, span: 5 * 7 * 24 * time.Hour},
	{name: "Pay rent", offset: 48 * time.Hour, sound: "alert", every: task.FrequencyMonthly, span: 180 * 24 * time.Hour},
}

func main() {
	var (
		outDir string
		force  bool
	)
	flag.StringVar(&outDir, "out", "", "Data directory to write tasks.json into")
	flag.BoolVar(&force, "force", false, "Overwrite an existing tasks.json")
	flag.Parse()

	if outDir == "" {
		fmt.Fprintln(os.Stderr, "error: -out is required")
		os.Exit(2)
	}

	kv := store.NewFileKV(outDir)
	if _, err := kv.Get(store.TasksKey); err == nil && !force {
		fmt.Fprintf(os.Stderr, "error: %s already has tasks (use -force)\n", outDir)
		os.Exit(1)
	}
	if err := kv.Set(store.TasksKey, []byte("[]")); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	st := store.Open(kv)
	now := task.TruncateMinute(time.Now())
	total := 0
	for _, s := range samples {
		at := now.Add(s.offset)
		tpl := task.Template{Name: s.name, ScheduledAt: at, AlarmAt: at, AlarmSound: s.sound}
		if s.every != "" {
			tpl.Recurring = &task.Recurring{EndDate: task.DateOf(at.Add(s.span)), Frequency: s.every}
		}

		created, err := st.Add(tpl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", s.name, err)
			os.Exit(1)
		}
		if s.done {
			for _, t := range created {
				st.ToggleComplete(t.ID)
			}
		}
		total += len(created)
	}

	if err := st.LastPersistErr(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d tasks to %s\n", total, outDir)
}
