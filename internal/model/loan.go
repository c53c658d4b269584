// Package model defines the core domain models used throughout the application.
package model

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNullResponse is returned when a response body is the JSON literal null.
var ErrNullResponse = errors.New("response body is null")

// FieldID identifies one of the five applicant form fields.
type FieldID string

// Form field identifiers. These double as the JSON keys the prediction service expects.
const (
	FieldGender        FieldID = "gender"
	FieldMarried       FieldID = "married"
	FieldEducation     FieldID = "education"
	FieldCreditHistory FieldID = "credit_history"
	FieldLoanAmount    FieldID = "loan_amount"
)

// AllFields lists the form fields in display order.
var AllFields = []FieldID{
	FieldGender,
	FieldMarried,
	FieldEducation,
	FieldCreditHistory,
	FieldLoanAmount,
}

// FormInput is an immutable snapshot of a validated loan application form.
type FormInput struct {
	Gender        int
	Married       int
	Education     int
	CreditHistory int
	LoanAmount    float64
}

// PredictionRequest is the wire body sent to the prediction endpoint.
type PredictionRequest struct {
	Gender        int     `json:"gender"`
	Married       int     `json:"married"`
	Education     int     `json:"education"`
	CreditHistory int     `json:"credit_history"`
	LoanAmount    float64 `json:"loan_amount"`
}

// Request converts the form snapshot to its wire representation.
func (f FormInput) Request() PredictionRequest {
	return PredictionRequest{
		Gender:        f.Gender,
		Married:       f.Married,
		Education:     f.Education,
		CreditHistory: f.CreditHistory,
		LoanAmount:    f.LoanAmount,
	}
}

// PredictionResponse is the decoded body returned by the prediction endpoint.
// Probability is nil unless the server sent a JSON number.
type PredictionResponse struct {
	Probability *float64 `json:"probability,omitempty"`
	Result      string   `json:"result,omitempty"`
	Note        string   `json:"note,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// UnmarshalJSON decodes leniently: fields of the wrong type are treated as absent.
func (r *PredictionResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return ErrNullResponse
	}

	*r = PredictionResponse{
		Result: rawString(raw["result"]),
		Note:   rawString(raw["note"]),
		Error:  rawError(raw["error"]),
	}

	if p, ok := raw["probability"]; ok {
		var v any
		if err := json.Unmarshal(p, &v); err == nil {
			if f, isNum := v.(float64); isNum {
				r.Probability = &f
			}
		}
	}

	return nil
}

// HasProbability reports whether the server supplied a numeric probability.
func (r PredictionResponse) HasProbability() bool {
	return r.Probability != nil
}

func rawString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		return ""
	}
	return s
}

// rawError keeps non-string error payloads visible as their JSON text.
func rawError(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	text := strings.TrimSpace(string(msg))
	switch text {
	case "null", "false", `""`, "0":
		return ""
	}
	return text
}
