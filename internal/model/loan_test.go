package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormInput_RequestWireFormat(t *testing.T) {
	input := FormInput{Gender: 1, Married: 0, Education: 1, CreditHistory: 1, LoanAmount: 128.5}

	body, err := json.Marshal(input.Request())
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"gender":1,"married":0,"education":1,"credit_history":1,"loan_amount":128.5}`,
		string(body))
}

func TestPredictionResponse_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantResult  string
		wantError   string
		wantNote    string
		probability *float64
	}{
		{
			name:        "result with probability",
			body:        `{"result":"Approved","probability":0.5}`,
			wantResult:  "Approved",
			probability: ptr(0.5),
		},
		{
			name:       "null probability is absent",
			body:       `{"result":"Rejected","probability":null}`,
			wantResult: "Rejected",
		},
		{
			name:       "string probability is absent",
			body:       `{"result":"Approved","probability":"0.9"}`,
			wantResult: "Approved",
		},
		{
			name:       "missing probability",
			body:       `{"result":"Rejected"}`,
			wantResult: "Rejected",
		},
		{
			name:      "error body",
			body:      `{"error":"could not convert string to float"}`,
			wantError: "could not convert string to float",
		},
		{
			name:      "non-string error stays visible",
			body:      `{"error":{"code":7}}`,
			wantError: `{"code":7}`,
		},
		{
			name:       "falsy error is ignored",
			body:       `{"error":null,"result":"Approved"}`,
			wantResult: "Approved",
		},
		{
			name:        "note is kept",
			body:        `{"result":"Approved","probability":1,"note":"Padded input with 6 zeros"}`,
			wantResult:  "Approved",
			wantNote:    "Padded input with 6 zeros",
			probability: ptr(1),
		},
		{
			name: "wrong result type",
			body: `{"result":42}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp PredictionResponse
			require.NoError(t, json.Unmarshal([]byte(tt.body), &resp))

			assert.Equal(t, tt.wantResult, resp.Result)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.Equal(t, tt.wantNote, resp.Note)
			if tt.probability == nil {
				assert.False(t, resp.HasProbability())
			} else {
				require.True(t, resp.HasProbability())
				assert.InDelta(t, *tt.probability, *resp.Probability, 1e-9)
			}
		})
	}
}

func TestPredictionResponse_UnmarshalJSON_NotAnObject(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "array", body: `["Approved"]`},
		{name: "string", body: `"Approved"`},
		{name: "null", body: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp PredictionResponse
			assert.Error(t, json.Unmarshal([]byte(tt.body), &resp))
		})
	}

	var resp PredictionResponse
	assert.ErrorIs(t, json.Unmarshal([]byte(` null `), &resp), ErrNullResponse)
}

func TestDisplayState_Predicates(t *testing.T) {
	assert.True(t, DisplayState{Kind: DisplayHTTPError}.IsError())
	assert.True(t, DisplayState{Kind: DisplayValidationError}.IsError())
	assert.False(t, DisplayState{Kind: DisplayApproved}.IsError())
	assert.True(t, DisplayState{Kind: DisplayRejected}.IsResult())
	assert.False(t, DisplayState{Kind: DisplayPending}.IsResult())
}

func ptr(f float64) *float64 { return &f }
