package tui

import (
	"time"

	"github.com/Veraticus/loanwise/internal/controller"
)

// predictionMsg delivers the outcome of one request.
type predictionMsg struct {
	outcome controller.Outcome
}

// gaugeFrameMsg asks for the next frame of gauge animation id.
type gaugeFrameMsg struct {
	at time.Time
	id uint64
}
