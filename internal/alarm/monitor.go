// Package alarm watches the task collection and fires each due task's alarm
// once, at the minute the task is scheduled for.
package alarm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pablasso/chime/internal/logging"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/task"
)

// DefaultRetention is how long a fired task id is remembered.
const DefaultRetention = 24 * time.Hour

// MinRetention is the shortest retention that still covers the whole
// minute a task fires in. A shorter one would let the task fire again.
const MinRetention = time.Minute

// ErrNoSound means the trigger has no playable sound and must be notified.
var ErrNoSound = errors.New("no alarm sound")

// Trigger is a due alarm.
type Trigger struct {
	Task    task.Task
	SoundID string
	// Locator is the file path or URL to play. Empty means fallback.
	Locator string
}

// Fallback reports whether the trigger has no sound to play.
func (t Trigger) Fallback() bool {
	return t.Locator == ""
}

// Message is the text shown when the alarm is notified instead of played.
func (t Trigger) Message() string {
	return fmt.Sprintf("Alarm for task: %s!", t.Task.Name)
}

// Notifier shows an alarm without sound.
type Notifier interface {
	Notify(Trigger)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Trigger)

func (f NotifierFunc) Notify(t Trigger) { f(t) }

// Monitor detects due tasks and remembers which ones already fired during
// this session. It is not safe for concurrent use; Fire only touches the
// player and notifier.
type Monitor struct {
	fired     map[string]time.Time
	retention time.Duration
	player    sound.Player
	notifier  Notifier
	onFire    func(Trigger)
	logger    *log.Logger
	now       func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithPlayer sets the player used by Fire and Play.
func WithPlayer(p sound.Player) Option {
	return func(m *Monitor) { m.player = p }
}

// WithNotifier sets the fallback notifier.
func WithNotifier(n Notifier) Option {
	return func(m *Monitor) { m.notifier = n }
}

// WithOnFire registers a callback run by Fire for every trigger, before
// playback starts.
func WithOnFire(fn func(Trigger)) Option {
	return func(m *Monitor) { m.onFire = fn }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Monitor) { m.logger = l }
}

// WithRetention sets how long fired ids are kept. Values below
// MinRetention are raised to it; zero or negative keeps the default.
func WithRetention(d time.Duration) Option {
	return func(m *Monitor) {
		if d <= 0 {
			return
		}
		m.retention = max(d, MinRetention)
	}
}

// WithClock overrides the time source used by Tick.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// NewMonitor creates a monitor with an empty fired set.
func NewMonitor(opts ...Option) *Monitor {
	m := &Monitor{
		fired:     make(map[string]time.Time),
		retention: DefaultRetention,
		logger:    logging.Discard(),
		notifier:  NotifierFunc(func(Trigger) {}),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Now returns the monitor's current time.
func (m *Monitor) Now() time.Time {
	return m.now()
}

// Check returns a trigger for every incomplete task scheduled for the same
// minute as now that has not fired yet, and marks those tasks as fired.
// Missed minutes are never fired later.
func (m *Monitor) Check(now time.Time, tasks []task.Task) []Trigger {
	minute := task.TruncateMinute(now)

	var triggers []Trigger
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if _, done := m.fired[t.ID]; done {
			continue
		}
		if !sameMinute(task.TruncateMinute(t.ScheduledAt), minute) {
			continue
		}

		id, locator := Resolve(t)
		m.fired[t.ID] = now
		triggers = append(triggers, Trigger{Task: t, SoundID: id, Locator: locator})
		m.logger.Info("alarm due", "id", t.ID, "name", t.Name, "sound", id)
	}
	return triggers
}

// sameMinute compares wall-clock fields so a task keeps its minute even if
// the zone offset changes between scheduling and firing.
func sameMinute(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day() &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute()
}

// Evict forgets fired ids older than the retention window.
func (m *Monitor) Evict(now time.Time) {
	for id, at := range m.fired {
		if now.Sub(at) >= m.retention {
			delete(m.fired, id)
		}
	}
}

// Fired reports whether id fired in this session and is still retained.
func (m *Monitor) Fired(id string) bool {
	_, ok := m.fired[id]
	return ok
}

// Tick evicts stale fired ids and checks tasks at the monitor's current time.
func (m *Monitor) Tick(tasks []task.Task) []Trigger {
	now := m.now()
	m.Evict(now)
	m.logger.Debug("alarm tick", "tasks", len(tasks), "fired", len(m.fired))
	return m.Check(now, tasks)
}

// Resolve picks the sound for t: the custom sound first, then the built-in
// named by alarmSound. An empty locator means no sound could be resolved.
func Resolve(t task.Task) (id, locator string) {
	if t.CustomSound != nil && t.CustomSound.URL != "" {
		return sound.CustomID, t.CustomSound.URL
	}
	if s, ok := sound.Lookup(t.AlarmSound); ok {
		return s.ID, s.URL
	}
	return t.AlarmSound, ""
}

// Play plays the trigger's sound and blocks until it finishes.
func (m *Monitor) Play(ctx context.Context, trig Trigger) error {
	if trig.Fallback() {
		return ErrNoSound
	}
	if m.player == nil {
		return sound.ErrNoPlayer
	}
	return m.player.Play(ctx, trig.Locator)
}

// Fire plays the trigger in the background, notifying instead when there is
// no sound or playback fails.
func (m *Monitor) Fire(ctx context.Context, trig Trigger) {
	if m.onFire != nil {
		m.onFire(trig)
	}
	if trig.Fallback() {
		m.notifier.Notify(trig)
		return
	}
	go func() {
		if err := m.Play(ctx, trig); err != nil && ctx.Err() == nil {
			m.logger.Warn("alarm playback failed", "id", trig.Task.ID, "err", err)
			m.notifier.Notify(trig)
		}
	}()
}
