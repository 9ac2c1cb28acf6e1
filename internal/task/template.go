package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/pablasso/chime/internal/sound"
)

// Template is a user-submitted task definition before expansion.
type Template struct {
	Name        string
	ScheduledAt time.Time
	AlarmAt     time.Time
	AlarmSound  string
	CustomSound *CustomSound
	Recurring   *Recurring
}

// ValidationError reports a rejected template field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the template before it reaches the store. It reports the
// first problem found.
func (tpl Template) Validate() error {
	if strings.TrimSpace(tpl.Name) == "" {
		return &ValidationError{Field: "name", Message: "task name is required"}
	}
	if tpl.ScheduledAt.IsZero() {
		return &ValidationError{Field: "datetime", Message: "task date and time are required"}
	}
	if tpl.AlarmAt.IsZero() {
		return &ValidationError{Field: "alarm", Message: "alarm time is required"}
	}

	switch {
	case tpl.AlarmSound == sound.CustomID:
		if tpl.CustomSound == nil || tpl.CustomSound.URL == "" {
			return &ValidationError{Field: "sound", Message: "choose a custom sound file or a built-in sound"}
		}
	case tpl.AlarmSound == "":
		// Filled with the default by Normalize.
	case !sound.IsKnown(tpl.AlarmSound):
		return &ValidationError{Field: "sound", Message: fmt.Sprintf("unknown alarm sound %q", tpl.AlarmSound)}
	}

	if tpl.Recurring != nil {
		if tpl.Recurring.EndDate.IsZero() {
			return &ValidationError{Field: "endDate", Message: "please select an end date for recurring tasks"}
		}
		if _, err := ParseFrequency(string(tpl.Recurring.Frequency)); err != nil {
			return &ValidationError{Field: "frequency", Message: err.Error()}
		}
	}
	return nil
}

// Normalize trims the name, drops sub-minute precision and fills the default
// sound.
func (tpl Template) Normalize() Template {
	tpl.Name = strings.TrimSpace(tpl.Name)
	tpl.ScheduledAt = TruncateMinute(tpl.ScheduledAt)
	tpl.AlarmAt = TruncateMinute(tpl.AlarmAt)
	if tpl.AlarmSound == "" {
		if tpl.CustomSound != nil {
			tpl.AlarmSound = sound.CustomID
		} else {
			tpl.AlarmSound = sound.Default().ID
		}
	}
	if tpl.Recurring != nil {
		r := *tpl.Recurring
		r.EndDate = DateOf(r.EndDate)
		tpl.Recurring = &r
	}
	return tpl
}

// Instance materializes a non-recurring template as a single task.
func (tpl Template) Instance(id string) Task {
	return Task{
		ID:          id,
		Name:        tpl.Name,
		ScheduledAt: tpl.ScheduledAt,
		AlarmAt:     tpl.AlarmAt,
		AlarmSound:  tpl.AlarmSound,
		CustomSound: copyCustomSound(tpl.CustomSound),
		Completed:   false,
		Series:      &Series{Kind: SeriesSingle},
	}
}

func copyCustomSound(cs *CustomSound) *CustomSound {
	if cs == nil {
		return nil
	}
	c := *cs
	return &c
}
