// Package render turns prediction outcomes into display states and styled pills.
package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/loanwise/internal/form"
	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/predict"
)

// ApprovedLabel is the result label the server uses for approvals.
const ApprovedLabel = "Approved"

// ApprovalThreshold is the minimum percent styled as approved.
const ApprovalThreshold = 50

// DecisionMode selects how approval styling is decided.
type DecisionMode string

const (
	// ModeProbability styles by the probability threshold when one is present,
	// even if it disagrees with the result label.
	ModeProbability DecisionMode = "probability"
	// ModeLabel styles solely by an exact "Approved" label match.
	ModeLabel DecisionMode = "label"
)

// ParseMode validates a mode name. Empty selects ModeProbability.
func ParseMode(s string) (DecisionMode, error) {
	switch DecisionMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeProbability:
		return ModeProbability, nil
	case ModeLabel:
		return ModeLabel, nil
	default:
		return "", fmt.Errorf("unknown decision mode %q (want %q or %q)", s, ModeProbability, ModeLabel)
	}
}

// Decision is the approve/reject styling choice for a response.
type Decision struct {
	Percent  *int
	Approved bool
}

// Percent converts a probability to a whole percentage, rounding half up.
func Percent(probability float64) int {
	return int(math.Floor(probability*100 + 0.5))
}

// Decide applies the configured decision rule to a response.
func Decide(resp model.PredictionResponse, mode DecisionMode) Decision {
	var d Decision
	if resp.Probability != nil && !math.IsNaN(*resp.Probability) && !math.IsInf(*resp.Probability, 0) {
		p := Percent(*resp.Probability)
		d.Percent = &p
	}

	if mode != ModeLabel && d.Percent != nil {
		d.Approved = *d.Percent >= ApprovalThreshold
		return d
	}

	d.Approved = resp.Result == ApprovedLabel
	return d
}

// StateFor maps a prediction outcome to the state shown to the user.
func StateFor(resp model.PredictionResponse, err error, mode DecisionMode) model.DisplayState {
	if err != nil {
		return ErrorState(err)
	}

	d := Decide(resp, mode)
	state := model.DisplayState{
		Label:    resp.Result,
		Percent:  d.Percent,
		Approved: d.Approved,
		Detail:   resp.Note,
	}
	if d.Approved {
		state.Kind = model.DisplayApproved
	} else {
		state.Kind = model.DisplayRejected
	}
	return state
}

// ErrorState classifies err into one of the error display kinds.
func ErrorState(err error) model.DisplayState {
	var (
		validationErr *form.ValidationError
		httpErr       *predict.HTTPError
		domainErr     *predict.DomainError
		transportErr  *predict.TransportError
	)

	switch {
	case errors.As(err, &validationErr):
		return model.DisplayState{
			Kind:    model.DisplayValidationError,
			Message: form.IncompleteMessage,
		}
	case errors.As(err, &httpErr):
		return model.DisplayState{
			Kind:    model.DisplayHTTPError,
			Status:  httpErr.StatusCode,
			Message: fmt.Sprintf("Server (%d)", httpErr.StatusCode),
			Detail:  httpErr.Body,
		}
	case errors.As(err, &domainErr):
		return model.DisplayState{
			Kind:    model.DisplayDomainError,
			Message: domainErr.Message,
		}
	case errors.As(err, &transportErr):
		state := model.DisplayState{
			Kind:    model.DisplayTransportError,
			Message: "Server not responding",
		}
		if transportErr.Err != nil {
			state.Detail = transportErr.Err.Error()
		}
		return state
	default:
		return model.DisplayState{
			Kind:    model.DisplayTransportError,
			Message: "Server not responding",
			Detail:  err.Error(),
		}
	}
}
