// Package tui implements the interactive loan application form.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Veraticus/loanwise/internal/controller"
	"github.com/Veraticus/loanwise/internal/form"
	"github.com/Veraticus/loanwise/internal/gauge"
	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/popup"
	"github.com/Veraticus/loanwise/internal/render"
	"github.com/Veraticus/loanwise/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoPredictor is returned when the TUI is built without a prediction client.
var ErrNoPredictor = errors.New("predictor is required")

// Model holds the form state.
type Model struct {
	ctx        context.Context
	ctrl       *controller.Controller
	anim       *gauge.Animation
	invalid    *form.ValidationError
	renderer   render.Renderer
	theme      themes.Theme
	help       help.Model
	keymap     KeyMap
	spinner    spinner.Model
	gaugeView  gauge.View
	popup      popup.Popup
	state      model.DisplayState
	frame      gauge.Frame
	inputs     []textinput.Model
	config     Config
	generation uint64
	animID     uint64
	popupSeq   uint64
	focus      int
	width      int
	height     int
	quitting   bool
}

// New creates the form model.
func New(ctx context.Context, opts ...Option) (Model, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Predictor == nil {
		return Model{}, ErrNoPredictor
	}
	return newModel(ctx, cfg), nil
}

// newModel creates a new model with the given configuration.
func newModel(ctx context.Context, cfg Config) Model {
	h := help.New()
	h.Width = cfg.Width

	m := Model{
		ctx:       ctx,
		ctrl:      controller.New(cfg.Predictor, cfg.Mode),
		config:    cfg,
		theme:     cfg.Theme,
		renderer:  render.NewRenderer(cfg.Theme),
		keymap:    DefaultKeyMap(),
		help:      h,
		gaugeView: gauge.NewView(cfg.Theme, cfg.GaugeRadius, true),
		popup:     popup.Popup{Phase: popup.PhaseRemoved},
		state:     model.DisplayState{Kind: model.DisplayIdle},
		width:     cfg.Width,
		height:    cfg.Height,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(cfg.Theme.PillPending),
		),
	}

	m.inputs = make([]textinput.Model, len(form.Fields))
	for i, f := range form.Fields {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = f.Placeholder
		in.Width = 32
		in.CharLimit = 24
		in.TextStyle = cfg.Theme.Normal
		in.PlaceholderStyle = cfg.Theme.Detail.UnsetMargins()
		m.inputs[i] = in
	}
	m.inputs[0].Focus()

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Value implements form.FieldSource over the text inputs.
func (m Model) Value(id model.FieldID) string {
	for i, f := range form.Fields {
		if f.ID == id {
			return m.inputs[i].Value()
		}
	}
	return ""
}

// State is the currently displayed outcome.
func (m Model) State() model.DisplayState {
	return m.state
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleKey(msg); handled {
			return next, cmd
		}

	case predictionMsg:
		return m.handleOutcome(msg.outcome)

	case gaugeFrameMsg:
		return m.handleFrame(msg)

	case popup.FadeMsg, popup.RemoveMsg:
		var cmd tea.Cmd
		m.popup, cmd = m.popup.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if m.state.Kind != model.DisplayPending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.ctrl.Close()
		return m, tea.Quit, true
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil, true
	case key.Matches(msg, m.keymap.Submit):
		next, cmd := m.submit()
		return next, cmd, true
	case key.Matches(msg, m.keymap.Reset):
		next, cmd := m.reset()
		return next, cmd, true
	case key.Matches(msg, m.keymap.Next):
		return m, m.setFocus(m.focus + 1), true
	case key.Matches(msg, m.keymap.Prev):
		return m, m.setFocus(m.focus - 1), true
	}
	return m, nil, false
}

// setFocus moves focus to field i, wrapping around.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	i = ((i % n) + n) % n
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

// submit validates a fresh snapshot and dispatches the request.
// Every submission, valid or not, supersedes the one in flight.
func (m Model) submit() (Model, tea.Cmd) {
	snapshot := form.Snapshot(m)
	ctx, gen := m.ctrl.Begin(m.ctx)
	m.generation = gen
	m.clearDecorations()

	input, err := form.Parse(snapshot)
	if err != nil {
		m.state = render.ErrorState(err)
		m.invalid = nil
		var vErr *form.ValidationError
		if errors.As(err, &vErr) {
			m.invalid = vErr
		}
		slog.Debug("Form validation failed", "generation", gen, "error", err)
		return m, nil
	}

	m.invalid = nil
	m.state = model.DisplayState{Kind: model.DisplayPending}

	ctrl := m.ctrl
	return m, tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return predictionMsg{outcome: ctrl.Run(ctx, gen, input)}
		},
	)
}

// reset clears the form and abandons any request in flight.
func (m Model) reset() (Model, tea.Cmd) {
	m.generation = m.ctrl.Supersede()
	for i := range m.inputs {
		m.inputs[i].Reset()
	}
	cmd := m.setFocus(0)
	m.clearDecorations()
	m.invalid = nil
	m.state = model.DisplayState{Kind: model.DisplayIdle}
	return m, cmd
}

func (m *Model) clearDecorations() {
	m.anim = nil
	m.frame = gauge.Frame{}
	m.popup = m.popup.Dismiss()
}

func (m Model) handleOutcome(out controller.Outcome) (Model, tea.Cmd) {
	if out.Stale || out.Generation != m.generation {
		slog.Debug("Dropping stale prediction", "generation", out.Generation, "current", m.generation)
		return m, nil
	}

	m.state = out.State
	if !out.Valid || !out.State.IsResult() {
		return m, nil
	}

	var cmds []tea.Cmd
	if m.config.ShowGauge {
		anim := gauge.NewAnimation(out.Decision.Percent, time.Now())
		m.anim = &anim
		m.animID++
		m.frame = anim.Frame(anim.Start)
		cmds = append(cmds, m.gaugeTick())
	}
	if m.config.ShowPopup {
		m.popupSeq++
		m.popup = popup.New(m.popupSeq, popup.DisplayBlend(out.Input, out.Decision.Percent), m.config.PopupTTL)
		cmds = append(cmds, m.popup.Init())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleFrame(msg gaugeFrameMsg) (Model, tea.Cmd) {
	if m.anim == nil || msg.id != m.animID {
		return m, nil
	}
	m.frame = m.anim.Frame(msg.at)
	if m.frame.Done {
		return m, nil
	}
	return m, m.gaugeTick()
}

func (m Model) gaugeTick() tea.Cmd {
	id := m.animID
	return tea.Tick(gauge.FrameInterval, func(t time.Time) tea.Msg {
		return gaugeFrameMsg{id: id, at: t}
	})
}
