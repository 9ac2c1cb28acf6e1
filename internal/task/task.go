package task

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pablasso/chime/internal/sound"
)

// Serialized layouts. All values are local wall-clock times.
const (
	DateTimeLayout = "2006-01-02T15:04"
	DateLayout     = "2006-01-02"
)

// Frequency is the step between instances of a recurring series.
type Frequency string

// Frequency constants
const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Frequencies lists the supported frequencies in display order.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// ParseFrequency normalizes a user supplied frequency.
func ParseFrequency(value string) (Frequency, error) {
	switch Frequency(strings.ToLower(strings.TrimSpace(value))) {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return Frequency(strings.ToLower(strings.TrimSpace(value))), nil
	default:
		return "", fmt.Errorf("invalid frequency %q (valid: daily, weekly, monthly)", value)
	}
}

// Recurring describes the series a task instance was expanded from.
type Recurring struct {
	EndDate   time.Time
	Frequency Frequency
}

type recurringJSON struct {
	EndDate   string    `json:"endDate"`
	Frequency Frequency `json:"frequency"`
}

// MarshalJSON writes the end date as a plain calendar date.
func (r Recurring) MarshalJSON() ([]byte, error) {
	return json.Marshal(recurringJSON{
		EndDate:   r.EndDate.Format(DateLayout),
		Frequency: r.Frequency,
	})
}

// UnmarshalJSON reads a calendar end date in local time.
func (r *Recurring) UnmarshalJSON(data []byte) error {
	var raw recurringJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	end, err := ParseDate(raw.EndDate)
	if err != nil {
		return fmt.Errorf("invalid recurring end date: %w", err)
	}
	r.EndDate = end
	r.Frequency = raw.Frequency
	return nil
}

// CustomSound references a user-chosen audio file.
type CustomSound struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// SeriesKind tags whether a task stands alone or belongs to a series.
type SeriesKind string

// Series kind constants
const (
	SeriesSingle    SeriesKind = "single"
	SeriesRecurring SeriesKind = "series"
)

// Series identifies the submission a task was created from. All instances of
// one recurring submission share the same ID.
type Series struct {
	Kind SeriesKind `json:"kind"`
	ID   string     `json:"id,omitempty"`
}

// Task is a single schedulable instance.
type Task struct {
	ID          string
	Name        string
	ScheduledAt time.Time
	AlarmAt     time.Time
	AlarmSound  string
	CustomSound *CustomSound
	Completed   bool
	Recurring   *Recurring
	Series      *Series
}

type taskJSON struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Datetime    string       `json:"datetime"`
	AlarmTime   string       `json:"alarmTime"`
	AlarmSound  string       `json:"alarmSound"`
	CustomSound *CustomSound `json:"customSound,omitempty"`
	Completed   bool         `json:"completed"`
	Recurring   *Recurring   `json:"recurring,omitempty"`
	Series      *Series      `json:"series,omitempty"`
}

// MarshalJSON writes times at minute precision in local time.
func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(taskJSON{
		ID:          t.ID,
		Name:        t.Name,
		Datetime:    t.ScheduledAt.Format(DateTimeLayout),
		AlarmTime:   t.AlarmAt.Format(DateTimeLayout),
		AlarmSound:  t.AlarmSound,
		CustomSound: t.CustomSound,
		Completed:   t.Completed,
		Recurring:   t.Recurring,
		Series:      t.Series,
	})
}

// UnmarshalJSON parses a stored task record.
func (t *Task) UnmarshalJSON(data []byte) error {
	var raw taskJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	scheduled, err := ParseDateTime(raw.Datetime)
	if err != nil {
		return fmt.Errorf("invalid datetime for task %s: %w", raw.ID, err)
	}
	alarm, err := ParseDateTime(raw.AlarmTime)
	if err != nil {
		return fmt.Errorf("invalid alarm time for task %s: %w", raw.ID, err)
	}

	*t = Task{
		ID:          raw.ID,
		Name:        raw.Name,
		ScheduledAt: scheduled,
		AlarmAt:     alarm,
		AlarmSound:  raw.AlarmSound,
		CustomSound: raw.CustomSound,
		Completed:   raw.Completed,
		Recurring:   raw.Recurring,
		Series:      raw.Series,
	}
	return nil
}

// IsRecurring reports whether the task belongs to a recurring submission.
func (t Task) IsRecurring() bool {
	return t.Recurring != nil
}

// SoundName returns the display name of the task's alarm sound.
func (t Task) SoundName() string {
	if t.CustomSound != nil && t.CustomSound.Name != "" {
		return t.CustomSound.Name
	}
	if s, ok := sound.Lookup(t.AlarmSound); ok {
		return s.Name
	}
	return "Default"
}

// SeriesID returns the series identifier, or "" for single tasks and for
// records written before series tagging existed.
func (t Task) SeriesID() string {
	if t.Series == nil || t.Series.Kind != SeriesRecurring {
		return ""
	}
	return t.Series.ID
}

// ParseDateTime parses a minute precision local timestamp. Seconds are
// accepted and dropped.
func ParseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{DateTimeLayout, "2006-01-02T15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return TruncateMinute(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("expected YYYY-MM-DDTHH:MM, got %q", value)
}

// ParseDate parses a local calendar date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY-MM-DD, got %q", value)
	}
	return t, nil
}

// TruncateMinute drops seconds and below, keeping the location.
func TruncateMinute(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, t.Location())
}

// DateOf returns midnight of t's calendar day in t's location.
func DateOf(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location())
}
