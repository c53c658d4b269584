package popup

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	// DefaultTTL is how long the popup stays fully visible.
	DefaultTTL = 3000 * time.Millisecond
	// FadeDuration is how long the fade-out lasts before removal.
	FadeDuration = 420 * time.Millisecond
)

// Phase is the popup lifecycle stage.
type Phase int

// Popup phases.
const (
	PhaseShowing Phase = iota
	PhaseFading
	PhaseRemoved
)

func (p Phase) String() string {
	switch p {
	case PhaseShowing:
		return "showing"
	case PhaseFading:
		return "fading"
	default:
		return "removed"
	}
}

// FadeMsg starts the fade-out of popup ID.
type FadeMsg struct {
	ID uint64
}

// RemoveMsg removes popup ID.
type RemoveMsg struct {
	ID uint64
}

// Popup is a transient overlay showing a Blend.
// Timer messages for any other ID are ignored, so replacing or dismissing a
// popup effectively cancels its pending timers.
type Popup struct {
	Blend Blend
	TTL   time.Duration
	ID    uint64
	Phase Phase
}

// New creates a visible popup. A non-positive ttl uses DefaultTTL.
func New(id uint64, blend Blend, ttl time.Duration) Popup {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return Popup{
		ID:    id,
		Blend: blend,
		TTL:   ttl,
		Phase: PhaseShowing,
	}
}

// Visible reports whether the popup should be drawn.
func (p Popup) Visible() bool {
	return p.Phase != PhaseRemoved
}

// Init schedules the fade.
func (p Popup) Init() tea.Cmd {
	id := p.ID
	return tea.Tick(p.TTL, func(time.Time) tea.Msg {
		return FadeMsg{ID: id}
	})
}

// Dismiss removes the popup immediately.
func (p Popup) Dismiss() Popup {
	p.Phase = PhaseRemoved
	return p
}

// Update advances the lifecycle.
func (p Popup) Update(msg tea.Msg) (Popup, tea.Cmd) {
	switch msg := msg.(type) {
	case FadeMsg:
		if msg.ID != p.ID || p.Phase != PhaseShowing {
			return p, nil
		}
		p.Phase = PhaseFading
		id := p.ID
		return p, tea.Tick(FadeDuration, func(time.Time) tea.Msg {
			return RemoveMsg{ID: id}
		})

	case RemoveMsg:
		if msg.ID != p.ID {
			return p, nil
		}
		p.Phase = PhaseRemoved
	}

	return p, nil
}
