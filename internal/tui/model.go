// Package tui renders a live tracked workout and forwards key presses to the
// session.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/misterclayt0n/stride/internal/models"
	"github.com/misterclayt0n/stride/internal/workout"
)

// sessionPort is what the view needs from a workout session.
type sessionPort interface {
	Snapshot() workout.Snapshot
	Updates() <-chan struct{}
	Pause() error
	Resume() error
	Finish() (workout.Summary, error)
	Abandon()
	SetName(name string) error
	Save(ctx context.Context, store workout.ExerciseStore) (models.Exercise, error)
	Summary() workout.Summary
}

type Outcome int

const (
	OutcomeDiscarded Outcome = iota
	OutcomeSaved
	OutcomePending // Finished but not saved; the caller keeps it for later.
)

// Result is what the program leaves behind once it quits.
type Result struct {
	Outcome  Outcome
	Exercise models.Exercise
	Summary  workout.Summary
}

type updateMsg struct{}

type savedMsg struct {
	rec models.Exercise
	err error
}

type keyMap struct {
	Pause   key.Binding
	Finish  key.Binding
	Abandon key.Binding
	Edit    key.Binding
	Save    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Pause:   key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Finish:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "finish")),
		Abandon: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard")),
		Edit:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit name")),
		Save:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// help.KeyMap over whichever bindings apply to the current status.
type contextKeys struct {
	bindings []key.Binding
}

func (k contextKeys) ShortHelp() []key.Binding  { return k.bindings }
func (k contextKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.bindings} }

type Model struct {
	session sessionPort
	store   workout.ExerciseStore

	keys    keyMap
	help    help.Model
	bar     progress.Model
	name    textinput.Model
	editing bool
	confirm bool // Discard asked once; a second x confirms.

	snap    workout.Snapshot
	message string
	err     error
	result  Result
	saving  bool
	width   int
}

func New(session sessionPort, store workout.ExerciseStore) Model {
	ti := textinput.New()
	ti.Placeholder = "workout name"
	ti.CharLimit = 64

	bar := progress.New(progress.WithSolidFill(string(Lime)), progress.WithoutPercentage())
	bar.Width = 40

	return Model{
		session: session,
		store:   store,
		keys:    defaultKeys(),
		help:    help.New(),
		bar:     bar,
		name:    ti,
		snap:    session.Snapshot(),
	}
}

// Result reports how the workout ended. Valid once the program has quit.
func (m Model) Result() Result {
	return m.result
}

func (m Model) Init() tea.Cmd {
	return waitForUpdate(m.session.Updates())
}

func waitForUpdate(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return updateMsg{}
	}
}

func (m Model) saveCmd() tea.Cmd {
	session, store := m.session, m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		rec, err := session.Save(ctx, store)
		return savedMsg{rec: rec, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-8, 10), 60)
		return m, nil

	case updateMsg:
		m.snap = m.session.Snapshot()
		return m, waitForUpdate(m.session.Updates())

	case savedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = msg.err
			m.message = "Save failed, press enter to retry"
			return m, nil
		}
		m.snap = m.session.Snapshot()
		m.result = Result{Outcome: OutcomeSaved, Exercise: msg.rec, Summary: m.session.Summary()}
		return m, tea.Quit

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	if !key.Matches(msg, m.keys.Abandon) {
		m.confirm = false
	}

	switch m.snap.Status {
	case workout.StatusCountdown:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Abandon):
			return m.abandon()
		}

	case workout.StatusActive, workout.StatusPaused:
		switch {
		case key.Matches(msg, m.keys.Pause):
			if m.snap.Status == workout.StatusActive {
				m.err = m.session.Pause()
			} else {
				m.err = m.session.Resume()
			}
		case key.Matches(msg, m.keys.Finish):
			if _, err := m.session.Finish(); err != nil {
				m.err = err
			} else {
				m.message = "Workout finished"
			}
		case key.Matches(msg, m.keys.Abandon):
			if !m.confirm {
				m.confirm = true
				m.message = "Press x again to discard this workout"
				return m, nil
			}
			return m.abandon()
		case msg.String() == "ctrl+c":
			return m.abandon()
		case key.Matches(msg, m.keys.Quit):
			// Quitting mid-workout finishes it and keeps it pending.
			if _, err := m.session.Finish(); err != nil {
				m.err = err
				return m, nil
			}
			return m.quitPending()
		}

	case workout.StatusFinished:
		if m.snap.Discarded || m.snap.Saved {
			return m, tea.Quit
		}
		switch {
		case key.Matches(msg, m.keys.Save):
			if m.saving {
				return m, nil
			}
			m.saving = true
			m.message = "Saving..."
			return m, m.saveCmd()
		case key.Matches(msg, m.keys.Edit):
			m.editing = true
			m.name.SetValue(m.snap.Name)
			return m, m.name.Focus()
		case key.Matches(msg, m.keys.Abandon):
			if !m.confirm {
				m.confirm = true
				m.message = "Press x again to discard this workout"
				return m, nil
			}
			return m.abandon()
		case key.Matches(msg, m.keys.Quit):
			return m.quitPending()
		}
	}

	m.snap = m.session.Snapshot()
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editing = false
		m.name.Blur()
		if err := m.session.SetName(strings.TrimSpace(m.name.Value())); err != nil {
			m.err = err
		}
		m.snap = m.session.Snapshot()
		return m, nil
	case tea.KeyEsc:
		m.editing = false
		m.name.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m Model) abandon() (tea.Model, tea.Cmd) {
	m.session.Abandon()
	m.snap = m.session.Snapshot()
	m.result = Result{Outcome: OutcomeDiscarded}
	return m, tea.Quit
}

func (m Model) quitPending() (tea.Model, tea.Cmd) {
	m.snap = m.session.Snapshot()
	m.result = Result{Outcome: OutcomePending, Summary: m.session.Summary()}
	return m, tea.Quit
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(strings.ToUpper(m.snap.Label)))
	b.WriteString("  ")
	b.WriteString(m.statusBadge())
	b.WriteString("\n\n")

	if m.snap.Status == workout.StatusCountdown {
		b.WriteString(countdownStyle.Render(fmt.Sprintf("%d", m.snap.Countdown)))
		b.WriteString("\n\n")
		b.WriteString(labelStyle.Render("Get ready..."))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(contextKeys{[]key.Binding{m.keys.Quit}}))
		return appStyle.Render(b.String())
	}

	b.WriteString(bigStyle.Render(m.snap.Duration))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		stat("DISTANCE", fmt.Sprintf("%.2f km", m.snap.DistanceKm)),
		stat("PACE", m.snap.Pace+" /km"),
		stat("POINTS", fmt.Sprintf("%d", m.snap.RoutePoints)),
	))
	b.WriteString("\n")

	if m.snap.HasGoal {
		b.WriteString(labelStyle.Render(fmt.Sprintf("Goal %.2f km  %d%%", m.snap.GoalMeters/1000, m.snap.GoalProgress)))
		b.WriteString("\n")
		b.WriteString(m.bar.ViewAs(float64(m.snap.GoalProgress) / 100))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.gpsLine())
	b.WriteString("\n")

	if m.snap.Status == workout.StatusFinished && !m.snap.Discarded {
		b.WriteString("\n")
		if m.editing {
			b.WriteString(m.name.View())
		} else {
			name := m.snap.Name
			if name == "" {
				name = m.snap.DefaultName
			}
			b.WriteString(labelStyle.Render("Name: ") + bigStyle.Render(name))
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(errorText(m.err)) + "\n")
	}
	if m.message != "" {
		b.WriteString("\n" + labelStyle.Render(m.message) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.contextKeys()))
	return appStyle.Render(b.String())
}

func (m Model) statusBadge() string {
	switch m.snap.Status {
	case workout.StatusPaused:
		return pausedStyle.Render("PAUSED")
	case workout.StatusFinished:
		if m.snap.Saved {
			return statusStyle.Render("SAVED")
		}
		return statusStyle.Render("FINISHED")
	}
	return statusStyle.Render(strings.ToUpper(string(m.snap.Status)))
}

func (m Model) gpsLine() string {
	switch {
	case m.snap.GPSErrorText != "":
		return errorStyle.Render("GPS: " + m.snap.GPSErrorText)
	case !m.snap.HasAccuracy:
		return labelStyle.Render("GPS: waiting for signal...")
	case m.snap.Accuracy > workout.MaxAccuracyMeters:
		return errorStyle.Render(fmt.Sprintf("GPS: weak signal (±%.0fm)", m.snap.Accuracy))
	}
	return okStyle.Render(fmt.Sprintf("GPS: ±%.0fm", m.snap.Accuracy))
}

func (m Model) contextKeys() contextKeys {
	switch m.snap.Status {
	case workout.StatusActive, workout.StatusPaused:
		return contextKeys{[]key.Binding{m.keys.Pause, m.keys.Finish, m.keys.Abandon, m.keys.Quit}}
	case workout.StatusFinished:
		if m.editing {
			return contextKeys{[]key.Binding{
				key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
				key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
			}}
		}
		return contextKeys{[]key.Binding{m.keys.Save, m.keys.Edit, m.keys.Abandon, m.keys.Quit}}
	}
	return contextKeys{[]key.Binding{m.keys.Quit}}
}

func stat(label, value string) string {
	return statBox.Render(labelStyle.Render(label) + "\n" + bigStyle.Render(value))
}

func errorText(err error) string {
	if errors.Is(err, workout.ErrStoreWriteFailed) {
		return "Could not save workout: " + err.Error()
	}
	return err.Error()
}
