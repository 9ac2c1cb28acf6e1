package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/pablasso/chime/internal/alarm"
	"github.com/pablasso/chime/internal/logging"
	"github.com/pablasso/chime/internal/sound"
	"github.com/pablasso/chime/internal/store"
	"github.com/pablasso/chime/internal/tui/msgs"
	"github.com/pablasso/chime/internal/tui/styles"
	"github.com/pablasso/chime/internal/tui/views"
)

// Minimum terminal dimensions for the TUI to render properly.
const (
	MinTerminalWidth  = 60
	MinTerminalHeight = 15
)

// View represents the different screens in the TUI.
type View int

const (
	ViewHome View = iota
	ViewForm
	ViewActive
	ViewCompleted
	ViewSoundPicker
)

// bellWriter receives the terminal bell for alarms that cannot play.
var bellWriter io.Writer = os.Stdout

// alarmTickMsg drives the alarm monitor. Ticks from a stale generation are
// dropped, so leaving and reopening a list never doubles the tick rate.
type alarmTickMsg struct {
	gen int
}

// alarmPlayedMsg reports the end of an alarm's playback.
type alarmPlayedMsg struct {
	trigger alarm.Trigger
	err     error
}

// Model is the main Bubble Tea model that orchestrates all views.
type Model struct {
	currentView View
	width       int
	height      int

	home   views.HomeModel
	form   views.FormModel
	list   views.TaskListModel
	picker views.SoundPickerModel

	store    *store.Store
	monitor  *alarm.Monitor
	logger   *log.Logger
	tick     time.Duration
	alarmGen int
	banner   string

	startDir string
	ctx      context.Context
	cancel   context.CancelFunc
}

// Run starts the TUI application.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("tui: store is required")
	}
	m := newModel(opts)
	defer m.cancel()

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}

// initialModel builds a model over an in-memory store.
func initialModel() Model {
	return newModel(Options{Store: store.Open(store.NewMemoryKV())})
}

func newModel(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Tick <= 0 {
		opts.Tick = alarm.DefaultInterval
	}
	if opts.Retention <= 0 {
		opts.Retention = alarm.DefaultRetention
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.StartDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			opts.StartDir = home
		} else {
			opts.StartDir = "."
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		currentView: ViewHome,
		form: views.NewFormModel(views.FormConfig{
			Player:       opts.Player,
			DefaultSound: opts.DefaultSound,
			Now:          opts.Now,
		}),
		store: opts.Store,
		monitor: alarm.NewMonitor(
			alarm.WithPlayer(opts.Player),
			alarm.WithLogger(opts.Logger),
			alarm.WithRetention(opts.Retention),
			alarm.WithClock(opts.Now),
		),
		logger:   opts.Logger,
		tick:     opts.Tick,
		startDir: opts.StartDir,
		ctx:      ctx,
		cancel:   cancel,
	}
	m.refreshHome()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.home.Init()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.home.SetSize(msg.Width, msg.Height)
		m.form.SetSize(msg.Width, msg.Height)
		m.list.SetSize(msg.Width, msg.Height)
		m.picker.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.form.StopPreview()
			m.cancel()
			return m, tea.Quit
		}
		if m.isListView() && m.banner != "" {
			m.setBanner("")
		}

	case msgs.GoToHomeMsg:
		m.stopAlarms()
		m.setBanner("")
		m.refreshHome()
		m.currentView = ViewHome
		return m, nil

	case msgs.GoToFormMsg:
		m.stopAlarms()
		m.currentView = ViewForm
		return m, m.form.Init()

	case msgs.GoToActiveMsg:
		return m.openList(views.ListActive)

	case msgs.GoToCompletedMsg:
		return m.openList(views.ListCompleted)

	case msgs.GoToSoundPickerMsg:
		m.form.StopPreview()
		m.picker = views.NewSoundPickerModel(m.startDir)
		m.picker.SetSize(m.width, m.height)
		m.currentView = ViewSoundPicker
		return m, m.picker.Init()

	case msgs.SoundSelectedMsg:
		if err := sound.ValidateAudioFile(msg.Path); err != nil {
			m.form.SetError(err.Error())
		} else {
			m.form.SetCustomSound(msg.Path)
			m.logger.Info("custom sound selected", "path", msg.Path)
		}
		m.currentView = ViewForm
		return m, nil

	case msgs.SoundPickerCancelledMsg:
		m.currentView = ViewForm
		return m, nil

	case msgs.SubmitTaskMsg:
		created, err := m.store.Add(msg.Template)
		var cmd tea.Cmd
		m.form, cmd = m.form.HandleCreated(msgs.TasksCreatedMsg{
			Name:  msg.Template.Name,
			Count: len(created),
			Err:   err,
		})
		if err == nil {
			m.reportPersistErr()
		}
		return m, cmd

	case msgs.ToggleTaskMsg:
		if _, ok := m.store.ToggleComplete(msg.ID); ok {
			m.reportPersistErr()
		}
		m.list.SetTasks(m.store.List())
		return m, nil

	case msgs.DeleteTaskMsg:
		if m.store.Delete(msg.ID) {
			m.reportPersistErr()
		}
		m.list.SetTasks(m.store.List())
		return m, nil

	case alarmTickMsg:
		if msg.gen != m.alarmGen || !m.isListView() {
			return m, nil
		}
		var cmds []tea.Cmd
		for _, trig := range m.monitor.Tick(m.store.List()) {
			if trig.Fallback() {
				m.setBanner(trig.Message())
				cmds = append(cmds, ringBell)
				continue
			}
			m.setBanner("⏰ " + trig.Task.Name)
			cmds = append(cmds, m.playCmd(trig))
		}
		cmds = append(cmds, m.scheduleTick())
		return m, tea.Batch(cmds...)

	case alarmPlayedMsg:
		if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
			m.logger.Warn("alarm playback failed", "id", msg.trigger.Task.ID, "err", msg.err)
			if m.isListView() {
				m.setBanner(msg.trigger.Message())
			}
			return m, ringBell
		}
		return m, nil
	}

	return m.updateCurrent(msg)
}

// updateCurrent routes a message to the active view.
func (m Model) updateCurrent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewHome:
		m.home, cmd = m.home.Update(msg)
	case ViewForm:
		m.form, cmd = m.form.Update(msg)
	case ViewActive, ViewCompleted:
		m.list, cmd = m.list.Update(msg)
	case ViewSoundPicker:
		m.picker, cmd = m.picker.Update(msg)
	}
	return m, cmd
}

func (m Model) openList(kind views.ListKind) (tea.Model, tea.Cmd) {
	m.list = views.NewTaskListModel(kind, m.store.List())
	m.list.SetSize(m.width, m.height)
	m.list.SetBanner(m.banner)
	m.currentView = ViewActive
	if kind == views.ListCompleted {
		m.currentView = ViewCompleted
	}

	// Scan right away so an alarm due now is not delayed by a full tick.
	m.alarmGen++
	gen := m.alarmGen
	return m, func() tea.Msg { return alarmTickMsg{gen: gen} }
}

func (m Model) isListView() bool {
	return m.currentView == ViewActive || m.currentView == ViewCompleted
}

// stopAlarms invalidates any scheduled tick.
func (m *Model) stopAlarms() {
	m.alarmGen++
}

func (m Model) scheduleTick() tea.Cmd {
	gen := m.alarmGen
	return tea.Tick(m.tick, func(time.Time) tea.Msg {
		return alarmTickMsg{gen: gen}
	})
}

func (m Model) playCmd(trig alarm.Trigger) tea.Cmd {
	ctx, monitor := m.ctx, m.monitor
	return func() tea.Msg {
		return alarmPlayedMsg{trigger: trig, err: monitor.Play(ctx, trig)}
	}
}

func ringBell() tea.Msg {
	fmt.Fprint(bellWriter, "\a")
	return nil
}

func (m *Model) setBanner(text string) {
	m.banner = text
	m.list.SetBanner(text)
}

func (m *Model) refreshHome() {
	m.home = views.NewHomeModel(len(m.store.Active()), len(m.store.Completed()))
	m.home.SetSize(m.width, m.height)
	if err := m.store.LastPersistErr(); err != nil {
		m.home.SetError("Tasks are not being saved: " + err.Error())
	}
}

func (m *Model) reportPersistErr() {
	err := m.store.LastPersistErr()
	if err == nil {
		return
	}
	msg := "Could not save tasks: " + err.Error()
	switch m.currentView {
	case ViewForm:
		m.form.SetError(msg)
	default:
		m.setBanner(msg)
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width > 0 && m.height > 0 && (m.width < MinTerminalWidth || m.height < MinTerminalHeight) {
		return m.renderTerminalTooSmall()
	}

	switch m.currentView {
	case ViewForm:
		return m.form.View()
	case ViewActive, ViewCompleted:
		return m.list.View()
	case ViewSoundPicker:
		return m.picker.View()
	default:
		return m.home.View()
	}
}

func (m Model) renderTerminalTooSmall() string {
	lines := []string{
		styles.ErrorStyle.Render("Terminal too small"),
		"",
		styles.SubtleStyle.Render(fmt.Sprintf("Minimum: %dx%d", MinTerminalWidth, MinTerminalHeight)),
		styles.SubtleStyle.Render(fmt.Sprintf("Current: %dx%d", m.width, m.height)),
	}
	content := strings.Join(lines, "\n")
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
