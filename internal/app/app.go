// Package app is the terminal front end of a session. Keys stand in for
// the touch gestures and typed lines stand in for speech.
package app

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/echotutor/internal/console"
	"github.com/abhisek/echotutor/internal/lang"
	"github.com/abhisek/echotutor/internal/screen"
	"github.com/abhisek/echotutor/internal/screens/home"
	"github.com/abhisek/echotutor/internal/screens/lesson"
	"github.com/abhisek/echotutor/internal/screens/spatial"
	"github.com/abhisek/echotutor/internal/session"
	"github.com/abhisek/echotutor/internal/ui/components"
	"github.com/abhisek/echotutor/internal/ui/layout"
	"github.com/abhisek/echotutor/internal/ui/theme"
)

// dispatchTimeout bounds how long a key waits for the reducer.
const dispatchTimeout = 5 * time.Second

// Controller is the session as the front end sees it.
type Controller interface {
	Snapshot() session.Snapshot
	Changes() <-chan struct{}
	Done() <-chan struct{}
	Dispatch(ctx context.Context, msg session.Msg) error
}

// Speaker delivers typed lines to a waiting recognition.
type Speaker interface {
	Submit(text string) bool
}

// Options holds the dependencies for the app.
type Options struct {
	Session  Controller
	Input    Speaker
	Captions <-chan console.Caption
	Log      *zap.Logger
}

type (
	changedMsg    struct{}
	closedMsg     struct{}
	captionMsg    console.Caption
	dispatchedMsg struct{ err error }
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	snap   session.Snapshot
	width  int
	height int

	input   components.UtteranceInput
	asking  bool
	caption *console.Caption
	problem string
}

func newAppModel(opts Options) AppModel {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return AppModel{
		opts:  opts,
		snap:  opts.Session.Snapshot(),
		input: components.NewUtteranceInput("type what you would say", 200),
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.waitChange(), m.waitCaption())
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case changedMsg:
		m.snap = m.opts.Session.Snapshot()
		if m.listening() {
			return m, tea.Batch(m.waitChange(), m.input.Focus())
		}
		return m, m.waitChange()

	case closedMsg:
		return m, tea.Quit

	case captionMsg:
		c := console.Caption(msg)
		if !c.Done {
			m.caption = &c
		} else if m.caption != nil && m.caption.Text == c.Text {
			m.caption = nil
		}
		return m, m.waitCaption()

	case dispatchedMsg:
		m.problem = describe(msg.err)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.typing() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if m.typing() {
		switch key {
		case "enter":
			return m.submit()
		case "esc":
			if m.asking {
				m.asking = false
				m.input.Reset()
				return m, nil
			}
			return m, m.dispatch(session.GestureMsg{Gesture: session.Tap})
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case " ", "space":
		return m, m.dispatch(session.GestureMsg{Gesture: session.Tap})
	case "d":
		return m, m.dispatch(session.GestureMsg{Gesture: session.DoubleTap})
	case "l":
		return m, m.dispatch(session.GestureMsg{Gesture: session.LongPress})
	case "right", "n":
		return m, m.dispatch(session.NavigateMsg{Target: session.ToNext})
	case "left", "p":
		return m, m.dispatch(session.NavigateMsg{Target: session.ToPrevious})
	case "h":
		return m, m.dispatch(session.NavigateMsg{Target: session.ToHome})
	case "?":
		m.asking = true
		m.problem = ""
		return m, m.input.Focus()
	}
	return m, nil
}

// submit hands the typed line to the session: to the waiting recognition
// while listening, or as a direct question.
func (m AppModel) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()
	if text == "" {
		return m, nil
	}
	if m.asking {
		m.asking = false
		m.input.Reset()
		return m, m.dispatch(session.AskMsg{Question: text})
	}
	if !m.opts.Input.Submit(text) {
		m.input.Reject()
		return m, nil
	}
	m.input.Reset()
	return m, nil
}

// listening reports whether the session is waiting for speech.
func (m AppModel) listening() bool {
	mode := session.ModeOf(m.snap.State)
	return mode == session.AwaitingCommand || mode == session.AskingQuestion
}

func (m AppModel) typing() bool {
	return m.asking || m.listening()
}

func (m AppModel) dispatch(msg session.Msg) tea.Cmd {
	ctrl, log := m.opts.Session, m.opts.Log
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		err := ctrl.Dispatch(ctx, msg)
		if err != nil {
			log.Debug("input rejected", zap.Any("msg", msg), zap.Error(err))
		}
		return dispatchedMsg{err: err}
	}
}

func (m AppModel) waitChange() tea.Cmd {
	ctrl := m.opts.Session
	return func() tea.Msg {
		select {
		case <-ctrl.Changes():
			return changedMsg{}
		case <-ctrl.Done():
			return closedMsg{}
		}
	}
}

func (m AppModel) waitCaption() tea.Cmd {
	captions := m.opts.Captions
	if captions == nil {
		return nil
	}
	return func() tea.Msg {
		c, ok := <-captions
		if !ok {
			return nil
		}
		return captionMsg(c)
	}
}

// describe turns a rejected input into a line for the student.
func describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBusy):
		return "Busy. Press Space to cancel first."
	case errors.Is(err, session.ErrNotReady):
		return "The tutor is not ready yet."
	case errors.Is(err, session.ErrUnsupported):
		return "That does nothing here."
	case errors.Is(err, session.ErrClosed):
		return "The session has ended."
	default:
		return err.Error()
	}
}

// active builds the screen for the current snapshot.
func (m AppModel) active() screen.Screen {
	switch s := m.snap.State.(type) {
	case session.Home:
		return home.New(s)
	case session.Homework:
		return lesson.NewHomework(s)
	case session.Feedback:
		return lesson.NewFeedback(s)
	case session.Spatial:
		return spatial.New(s)
	default:
		return home.LoadingScreen{}
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the whole frame for the current size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.active()
	status := layout.Status{}
	if st := m.snap.State; st.Screen() != session.ScreenHome && st.Screen() != session.ScreenLoading {
		status.Mode = session.ModeOf(st).String()
		status.Language = languageName(session.LangOf(st))
		status.Busy = !session.Idle(st)
	}
	header := layout.RenderHeader(active.Title(), status, m.width)

	hints := active.KeyHints()
	if m.asking {
		hints = []layout.KeyHint{{Key: "Enter", Description: "Ask"}, {Key: "Esc", Description: "Close"}}
	}
	footer := layout.RenderFooter(hints, m.width)

	var extras []string
	if m.caption != nil {
		extras = append(extras, theme.Speaking.Render("Speaking: "+m.caption.Text))
	}
	if m.typing() {
		extras = append(extras, "  "+m.input.View())
	}
	if m.problem != "" {
		extras = append(extras, "  "+theme.Failure.Render(m.problem))
	}
	bottom := lipgloss.JoinVertical(lipgloss.Left, extras...)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	if len(extras) > 0 {
		contentHeight = max(contentHeight-lipgloss.Height(bottom)-1, 0)
	}
	content := active.View(m.width, contentHeight)
	if len(extras) > 0 {
		content = lipgloss.NewStyle().Height(contentHeight).Render(content) + "\n" + bottom
	}

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func languageName(l lang.Language) string {
	if l == lang.Urdu {
		return "اردو"
	}
	return "English"
}

// Run starts the Bubble Tea program and returns when the student quits or
// ctx ends.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	stop := context.AfterFunc(ctx, p.Quit)
	defer stop()

	_, err := p.Run()
	return err
}
