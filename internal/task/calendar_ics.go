package task

import (
	"fmt"
	"strings"
	"time"
)

const (
	icsLocalLayout = "20060102T150405"
	icsUTCLayout   = "20060102T150405Z"
)

// BuildCalendarICS renders tasks as an iCalendar document with one event per
// task instance. Each event carries a display alarm at the task's alarm time.
func BuildCalendarICS(tasks []Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Chime//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	stamp := now.UTC().Format(icsUTCLayout)
	for _, t := range tasks {
		title := strings.TrimSpace(t.Name)
		if title == "" {
			title = "Chime Task"
		}
		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText(fmt.Sprintf("task-%s@chime", t.ID)),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(title),
			"DTSTART:"+t.ScheduledAt.Format(icsLocalLayout),
			"DTEND:"+t.ScheduledAt.Add(30*time.Minute).Format(icsLocalLayout),
		)
		if t.Recurring != nil {
			lines = append(lines, "CATEGORIES:"+escapeICSText("recurring "+string(t.Recurring.Frequency)))
		}
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:"+escapeICSText(title),
			"TRIGGER;VALUE=DATE-TIME:"+t.AlarmAt.UTC().Format(icsUTCLayout),
			"END:VALARM",
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR", "")

	return strings.Join(lines, "\r\n")
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
