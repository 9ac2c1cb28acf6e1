// Package msgs defines shared message types for TUI view transitions.
package msgs

import "github.com/pablasso/chime/internal/task"

// View transition messages

// GoToHomeMsg signals transition to the home view.
type GoToHomeMsg struct{}

// GoToFormMsg signals transition to the task creation form.
type GoToFormMsg struct{}

// GoToActiveMsg signals transition to the active task list.
type GoToActiveMsg struct{}

// GoToCompletedMsg signals transition to the completed task list.
type GoToCompletedMsg struct{}

// GoToSoundPickerMsg asks for a custom sound file.
type GoToSoundPickerMsg struct{}

// SoundSelectedMsg is sent when a file is chosen in the sound picker.
type SoundSelectedMsg struct {
	Path string
}

// SoundPickerCancelledMsg returns to the form without a file.
type SoundPickerCancelledMsg struct{}

// Store requests, handled by the root model which owns the store

// SubmitTaskMsg asks the root model to create tasks from a template.
type SubmitTaskMsg struct {
	Template task.Template
}

// TasksCreatedMsg reports the outcome of a SubmitTaskMsg.
type TasksCreatedMsg struct {
	Name  string
	Count int
	Err   error
}

// ToggleTaskMsg flips a task's completed flag.
type ToggleTaskMsg struct {
	ID string
}

// DeleteTaskMsg removes a task.
type DeleteTaskMsg struct {
	ID string
}
