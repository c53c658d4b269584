// Package form collects and validates the loan application fields.
package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/loanwise/internal/model"
)

// IncompleteMessage is shown whenever any field fails validation.
const IncompleteMessage = "Please complete all fields"

// FieldSource provides the raw text of a form field.
type FieldSource interface {
	Value(id model.FieldID) string
}

// Values is a map-backed FieldSource.
type Values map[model.FieldID]string

// Value returns the raw value for id, or "" when unset.
func (v Values) Value(id model.FieldID) string {
	return v[id]
}

// Snapshot copies every field out of src once so later steps never re-read it.
func Snapshot(src FieldSource) Values {
	snap := make(Values, len(model.AllFields))
	if src == nil {
		return snap
	}
	for _, id := range model.AllFields {
		snap[id] = src.Value(id)
	}
	return snap
}

// ValidationError lists the fields that were empty or not numeric.
type ValidationError struct {
	Fields []model.FieldID
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = string(f)
	}
	return fmt.Sprintf("%s (invalid: %s)", IncompleteMessage, strings.Join(names, ", "))
}

// Has reports whether id failed validation.
func (e *ValidationError) Has(id model.FieldID) bool {
	for _, f := range e.Fields {
		if f == id {
			return true
		}
	}
	return false
}

// Parse validates every field independently and builds a FormInput.
// Zero is a valid value for every field.
func Parse(src FieldSource) (model.FormInput, error) {
	var (
		input   model.FormInput
		invalid []model.FieldID
	)

	ints := []struct {
		dst *int
		id  model.FieldID
	}{
		{&input.Gender, model.FieldGender},
		{&input.Married, model.FieldMarried},
		{&input.Education, model.FieldEducation},
		{&input.CreditHistory, model.FieldCreditHistory},
	}
	for _, f := range ints {
		v, ok := ParseInt(src.Value(f.id))
		if !ok {
			invalid = append(invalid, f.id)
			continue
		}
		*f.dst = v
	}

	amount, ok := ParseFloat(src.Value(model.FieldLoanAmount))
	if ok {
		input.LoanAmount = amount
	} else {
		invalid = append(invalid, model.FieldLoanAmount)
	}

	if len(invalid) > 0 {
		return model.FormInput{}, &ValidationError{Fields: invalid}
	}
	return input, nil
}

// ParseInt parses a base-10 integer code.
func ParseInt(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseFloat parses a finite decimal number.
func ParseFloat(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
