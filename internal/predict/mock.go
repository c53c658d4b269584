package predict

import (
	"context"
	"sync"

	"github.com/Veraticus/loanwise/internal/model"
)

// MockPredictor is a mock implementation of Predictor for testing.
type MockPredictor struct {
	// PredictFn controls behavior when set.
	PredictFn func(ctx context.Context, input model.FormInput) (model.PredictionResponse, error)

	calls []model.FormInput
	mu    sync.Mutex
}

// NewMockPredictor creates a mock that always answers with resp.
func NewMockPredictor(resp model.PredictionResponse) *MockPredictor {
	return &MockPredictor{
		PredictFn: func(context.Context, model.FormInput) (model.PredictionResponse, error) {
			return resp, nil
		},
	}
}

// Predict implements Predictor.
func (m *MockPredictor) Predict(ctx context.Context, input model.FormInput) (model.PredictionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, input)
	m.mu.Unlock()

	if m.PredictFn != nil {
		return m.PredictFn(ctx, input)
	}

	// Default behavior: an approval without probability
	return model.PredictionResponse{Result: "Approved"}, nil
}

// Calls returns the inputs received so far.
func (m *MockPredictor) Calls() []model.FormInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.FormInput, len(m.calls))
	copy(out, m.calls)
	return out
}
