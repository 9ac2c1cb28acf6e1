// Package store owns the task collection and keeps it persisted.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pablasso/chime/internal/logging"
	"github.com/pablasso/chime/internal/task"
	"github.com/pablasso/chime/internal/util"
)

// TasksKey is the KV key holding the serialized task collection.
const TasksKey = "tasks"

var (
	ErrNotFound  = errors.New("task not found")
	ErrAmbiguous = errors.New("task id prefix is ambiguous")
)

// Store owns the task collection. Every mutation persists the whole
// collection; the in-memory copy stays authoritative if a write fails.
//
// Store is not safe for concurrent use. The TUI calls it only from the
// Bubble Tea update loop and the watch command from its single ticker loop.
type Store struct {
	kv          KV
	logger      *log.Logger
	newID       task.IDFunc
	newSeriesID func() string

	tasks   []task.Task
	lastErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithIDs overrides the task and series id generators.
func WithIDs(newID task.IDFunc, newSeriesID func() string) Option {
	return func(s *Store) {
		s.newID = newID
		s.newSeriesID = newSeriesID
	}
}

// Open creates a store over kv and hydrates it. Missing or corrupt data
// yields an empty collection.
func Open(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:          kv,
		logger:      logging.Discard(),
		newID:       util.NewTaskID,
		newSeriesID: util.NewSeriesID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tasks = s.hydrate()
	return s
}

func (s *Store) hydrate() []task.Task {
	data, err := s.kv.Get(TasksKey)
	if err != nil {
		if !errors.Is(err, ErrNoKey) {
			s.logger.Warn("could not read tasks, starting empty", "err", err)
		}
		return nil
	}

	tasks, err := Decode(data)
	if err != nil {
		s.logger.Warn("stored tasks are corrupt, starting empty", "err", err)
		return nil
	}
	return tasks
}

// Reload replaces the in-memory collection with what the backend holds.
// Readers that do not own the data directory use it to pick up changes.
func (s *Store) Reload() {
	s.tasks = s.hydrate()
}

// Decode parses a serialized task collection.
func Decode(data []byte) ([]task.Task, error) {
	var tasks []task.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse tasks: %w", err)
	}
	return tasks, nil
}

// Encode serializes a task collection.
func Encode(tasks []task.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []task.Task{}
	}
	return json.MarshalIndent(tasks, "", "  ")
}

// persist writes the full collection. Failures are logged and remembered,
// never returned: the session keeps working from memory.
func (s *Store) persist() {
	data, err := Encode(s.tasks)
	if err == nil {
		err = s.kv.Set(TasksKey, data)
	}
	s.lastErr = err
	if err != nil {
		s.logger.Warn("failed to persist tasks", "err", err, "count", len(s.tasks))
	}
}

// LastPersistErr returns the error from the most recent write, if any.
func (s *Store) LastPersistErr() error {
	return s.lastErr
}

// Add validates a template and appends the instances it produces as one
// persisted batch. A recurring template whose start is after its end date
// creates nothing and is not an error.
func (s *Store) Add(tpl task.Template) ([]task.Task, error) {
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	tpl = tpl.Normalize()

	var created []task.Task
	if tpl.Recurring != nil {
		instances, err := task.Expand(tpl, s.newSeriesID(), s.newID)
		if err != nil {
			return nil, err
		}
		created = instances
	} else {
		created = []task.Task{tpl.Instance(s.newID())}
	}

	if len(created) == 0 {
		s.logger.Info("recurring task produced no instances", "name", tpl.Name)
		return nil, nil
	}

	s.tasks = append(s.tasks, created...)
	s.persist()
	s.logger.Info("added tasks", "name", tpl.Name, "count", len(created))
	return cloneTasks(created), nil
}

// Delete removes the task with id. Reports whether a task was removed.
func (s *Store) Delete(id string) bool {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			s.persist()
			s.logger.Info("deleted task", "id", id)
			return true
		}
	}
	return false
}

// ToggleComplete flips the completed flag of the task with id and returns
// the updated task.
func (s *Store) ToggleComplete(id string) (task.Task, bool) {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Completed = !s.tasks[i].Completed
			s.persist()
			s.logger.Info("toggled task", "id", id, "completed", s.tasks[i].Completed)
			return cloneTask(s.tasks[i]), true
		}
	}
	return task.Task{}, false
}

// List returns a copy of every task in insertion order.
func (s *Store) List() []task.Task {
	return cloneTasks(s.tasks)
}

// Active returns the tasks that are not completed.
func (s *Store) Active() []task.Task {
	return s.filter(func(t task.Task) bool { return !t.Completed })
}

// Completed returns the completed tasks.
func (s *Store) Completed() []task.Task {
	return s.filter(func(t task.Task) bool { return t.Completed })
}

func (s *Store) filter(keep func(task.Task) bool) []task.Task {
	var out []task.Task
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, cloneTask(t))
		}
	}
	return out
}

// Get returns the task with id.
func (s *Store) Get(id string) (task.Task, bool) {
	for _, t := range s.tasks {
		if t.ID == id {
			return cloneTask(t), true
		}
	}
	return task.Task{}, false
}

// Find resolves a full id or a unique id prefix.
func (s *Store) Find(prefix string) (task.Task, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return task.Task{}, ErrNotFound
	}
	if t, ok := s.Get(prefix); ok {
		return t, nil
	}

	var matches []task.Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return cloneTask(matches[0]), nil
	default:
		return task.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguous, prefix, len(matches))
	}
}

// Series returns the tasks sharing seriesID, in insertion order.
func (s *Store) Series(seriesID string) []task.Task {
	return s.filter(func(t task.Task) bool { return seriesID != "" && t.SeriesID() == seriesID })
}

func cloneTasks(tasks []task.Task) []task.Task {
	if tasks == nil {
		return nil
	}
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// cloneTask copies the pointer fields so callers cannot mutate stored state.
func cloneTask(t task.Task) task.Task {
	if t.CustomSound != nil {
		cs := *t.CustomSound
		t.CustomSound = &cs
	}
	if t.Recurring != nil {
		r := *t.Recurring
		t.Recurring = &r
	}
	if t.Series != nil {
		sr := *t.Series
		t.Series = &sr
	}
	return t
}
