// Package controller runs the submit cycle: snapshot, validate, predict, render.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/Veraticus/loanwise/internal/common"
	"github.com/Veraticus/loanwise/internal/form"
	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/predict"
	"github.com/Veraticus/loanwise/internal/render"
)

// ErrStale marks a result superseded by a newer submission.
var ErrStale = errors.New("superseded by a newer request")

// Outcome is everything one submit cycle produced.
type Outcome struct {
	Err        error
	Response   model.PredictionResponse
	State      model.DisplayState
	Decision   render.Decision
	Input      model.FormInput
	Generation uint64
	Valid      bool
	Stale      bool
}

// Controller coordinates submissions. Only the newest generation's result is
// current; starting a new submission cancels the previous request's context.
type Controller struct {
	predictor  predict.Predictor
	cancel     context.CancelFunc
	mode       render.DecisionMode
	generation atomic.Uint64
	mu         sync.Mutex
}

// New creates a controller.
func New(predictor predict.Predictor, mode render.DecisionMode) *Controller {
	if mode == "" {
		mode = render.ModeProbability
	}
	return &Controller{
		predictor: predictor,
		mode:      mode,
	}
}

// Mode returns the decision mode in use.
func (c *Controller) Mode() render.DecisionMode {
	return c.mode
}

// Begin starts a new generation and aborts the previous in-flight request.
func (c *Controller) Begin(ctx context.Context) (context.Context, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return reqCtx, c.generation.Add(1)
}

// Current returns the newest generation.
func (c *Controller) Current() uint64 {
	return c.generation.Load()
}

// IsCurrent reports whether gen is still the newest generation.
func (c *Controller) IsCurrent(gen uint64) bool {
	return c.generation.Load() == gen
}

// Submit runs one full cycle against a fresh snapshot of src.
func (c *Controller) Submit(ctx context.Context, src form.FieldSource) Outcome {
	snapshot := form.Snapshot(src)

	// Invalid submissions also supersede whatever is in flight.
	reqCtx, gen := c.Begin(ctx)

	input, err := form.Parse(snapshot)
	if err != nil {
		slog.Debug("Form validation failed", "generation", gen, "error", err)
		return Outcome{
			Err:        err,
			State:      render.ErrorState(err),
			Generation: gen,
		}
	}

	return c.Run(reqCtx, gen, input)
}

// Run predicts for an already validated input under generation gen.
func (c *Controller) Run(ctx context.Context, gen uint64, input model.FormInput) Outcome {
	slog.Debug("Dispatching prediction", "generation", gen)

	resp, err := c.predictor.Predict(ctx, input)

	out := Outcome{
		Err:        err,
		Response:   resp,
		Input:      input,
		Generation: gen,
		Valid:      true,
		State:      render.StateFor(resp, err, c.mode),
	}
	if err == nil {
		out.Decision = render.Decide(resp, c.mode)
	}

	if !c.IsCurrent(gen) {
		out.Stale = true
		if out.Err == nil {
			out.Err = ErrStale
		}
		slog.Debug("Discarding stale prediction", "generation", gen, "current", c.Current())
		return out
	}

	if err != nil {
		common.LogError(err, "Prediction failed", common.Fields{"generation": gen, "kind": out.State.Kind})
	} else {
		common.LogInfo("Prediction received", common.Fields{
			"generation": gen,
			"result":     resp.Result,
			"approved":   out.Decision.Approved,
		})
	}

	return out
}

// Supersede invalidates the current generation and aborts its request
// without starting a new one.
func (c *Controller) Supersede() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return c.generation.Add(1)
}

// Close aborts any in-flight request.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
