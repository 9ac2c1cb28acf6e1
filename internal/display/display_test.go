package display

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{
			name:     "zero duration",
			duration: 0,
			expected: "00:00",
		},
		{
			name:     "seconds only",
			duration: 45 * time.Second,
			expected: "00:45",
		},
		{
			name:     "minutes and seconds",
			duration: 5*time.Minute + 30*time.Second,
			expected: "05:30",
		},
		{
			name:     "59 minutes 59 seconds",
			duration: 59*time.Minute + 59*time.Second,
			expected: "59:59",
		},
		{
			name:     "one hour",
			duration: 1 * time.Hour,
			expected: "01:00:00",
		},
		{
			name:     "hours minutes seconds",
			duration: 2*time.Hour + 34*time.Minute + 56*time.Second,
			expected: "02:34:56",
		},
		{
			name:     "large duration",
			duration: 12*time.Hour + 5*time.Minute + 3*time.Second,
			expected: "12:05:03",
		},
		{
			name:     "rounds to nearest second",
			duration: 5*time.Minute + 30*time.Second + 500*time.Millisecond,
			expected: "05:31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := formatDuration(tt.duration)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, result, tt.expected)
			}
		})
	}
}

func TestFormatLine(t *testing.T) {
	d := New(&bytes.Buffer{})
	next := time.Date(2024, 1, 2, 8, 0, 0, 0, time.Local)

	tests := []struct {
		name     string
		state    State
		elapsed  time.Duration
		expected string
	}{
		{
			name: "basic format",
			state: State{
				Pending:  3,
				NextName: "Water plants",
				NextAt:   next,
				Fired:    1,
				Status:   StatusWatching,
			},
			elapsed:  1*time.Minute + 30*time.Second,
			expected: "3 pending │ next: Water plants at Jan 2 08:00 │ fired 1 │ ⏱ 01:30 │ Watching",
		},
		{
			name:     "nothing scheduled",
			state:    State{Status: StatusWatching},
			elapsed:  0,
			expected: "0 pending │ nothing scheduled │ fired 0 │ ⏱ 00:00 │ Watching",
		},
		{
			name: "with hours",
			state: State{
				Pending:  1,
				NextName: "Gym",
				NextAt:   next,
				Status:   StatusStopped,
			},
			elapsed:  1*time.Hour + 15*time.Minute + 30*time.Second,
			expected: "1 pending │ next: Gym at Jan 2 08:00 │ fired 0 │ ⏱ 01:15:30 │ Stopped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := d.formatLine(tt.state, tt.elapsed)
			if result != tt.expected {
				t.Errorf("formatLine() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestFormatLine_LongName(t *testing.T) {
	d := New(&bytes.Buffer{})

	tests := []struct {
		name           string
		title          string
		expectedInLine string
	}{
		{
			name:           "exactly 40 chars",
			title:          "1234567890123456789012345678901234567890",
			expectedInLine: "1234567890123456789012345678901234567890",
		},
		{
			name:           "41 chars truncated",
			title:          "12345678901234567890123456789012345678901",
			expectedInLine: "1234567890123456789012345678901234567...",
		},
		{
			name:           "short name unchanged",
			title:          "Short name",
			expectedInLine: "Short name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := State{
				Pending:  5,
				NextName: tt.title,
				NextAt:   time.Date(2024, 1, 2, 8, 0, 0, 0, time.Local),
				Status:   StatusWatching,
			}
			result := d.formatLine(state, time.Minute)

			expectedPrefix := "5 pending │ next: " + tt.expectedInLine + " at "
			if !strings.HasPrefix(result, expectedPrefix) {
				t.Errorf("formatLine() with name %q:\ngot:  %q\nwant prefix: %q", tt.title, result, expectedPrefix)
			}
		})
	}
}

func TestUpdateQueue(t *testing.T) {
	d := New(&bytes.Buffer{})
	at := time.Date(2024, 1, 2, 8, 0, 0, 0, time.Local)

	d.UpdateQueue(4, "Stretch", at)

	state := d.State()
	if state.Pending != 4 {
		t.Errorf("Pending = %d, want 4", state.Pending)
	}
	if state.NextName != "Stretch" {
		t.Errorf("NextName = %q, want %q", state.NextName, "Stretch")
	}
	if !state.NextAt.Equal(at) {
		t.Errorf("NextAt = %v, want %v", state.NextAt, at)
	}
}

func TestRecordFired(t *testing.T) {
	d := New(&bytes.Buffer{})

	d.RecordFired()
	d.RecordFired()

	if got := d.State().Fired; got != 2 {
		t.Errorf("Fired = %d, want 2", got)
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusIdle, "Idle"},
		{StatusWatching, "Watching"},
		{StatusStopped, "Stopped"},
		{Status(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := tt.status.String()
			if result != tt.expected {
				t.Errorf("Status(%d).String() = %q, want %q", tt.status, result, tt.expected)
			}
		})
	}
}

func TestPrintAbove(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)
	d.UpdateQueue(1, "Gym", time.Time{})

	d.PrintAbove("Alarm for task: %s!", "Gym")

	out := buf.String()
	if !strings.Contains(out, "Alarm for task: Gym!\n") {
		t.Errorf("expected message in output, got %q", out)
	}
	if !strings.Contains(out[strings.Index(out, "Gym!"):], "1 pending │ nothing scheduled") {
		t.Errorf("expected status line redrawn after message, got %q", out)
	}
}

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	if d == nil {
		t.Fatal("New() returned nil")
	}
	if d.writer != &buf {
		t.Error("writer not set correctly")
	}
	if d.done == nil {
		t.Error("done channel not initialized")
	}
	if d.active {
		t.Error("should not be active initially")
	}
}

func TestStartStop(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	// Should not be active initially
	if d.active {
		t.Error("should not be active before Start()")
	}

	// Start the display
	d.Start()

	// Give the goroutine time to start
	time.Sleep(50 * time.Millisecond)

	d.mu.Lock()
	active := d.active
	d.mu.Unlock()

	if !active {
		t.Error("should be active after Start()")
	}

	// Stop the display
	d.Stop()

	d.mu.Lock()
	active = d.active
	d.mu.Unlock()

	if active {
		t.Error("should not be active after Stop()")
	}
}

func TestStartIdempotent(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	// Start multiple times should be safe
	d.Start()
	d.Start()
	d.Start()

	time.Sleep(50 * time.Millisecond)

	d.Stop()

	// Should be stopped
	d.mu.Lock()
	active := d.active
	d.mu.Unlock()

	if active {
		t.Error("should not be active after Stop()")
	}
}

func TestStopIdempotent(t *testing.T) {
	var buf bytes.Buffer
	d := New(&buf)

	// Stop without start should be safe
	d.Stop()

	// Start then stop multiple times
	d.done = make(chan struct{}) // Reset done channel
	d.Start()
	time.Sleep(50 * time.Millisecond)
	d.Stop()
	d.Stop()
	d.Stop()

	// Should remain stopped
	d.mu.Lock()
	active := d.active
	d.mu.Unlock()

	if active {
		t.Error("should not be active after multiple Stop() calls")
	}
}
