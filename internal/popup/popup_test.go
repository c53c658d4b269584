package popup

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/Veraticus/loanwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name  string
		input model.FormInput
		want  float64
	}{
		{
			name:  "base only",
			input: model.FormInput{},
			want:  0.45,
		},
		{
			name:  "all bonuses no loan",
			input: model.FormInput{Married: 1, Education: 1, CreditHistory: 1},
			want:  0.94,
		},
		{
			name:  "gender has no weight",
			input: model.FormInput{Gender: 1, Married: 1, Education: 1, CreditHistory: 1},
			want:  0.94,
		},
		{
			name:  "half penalty",
			input: model.FormInput{LoanAmount: 100000},
			want:  0.375,
		},
		{
			name:  "penalty capped",
			input: model.FormInput{LoanAmount: 10_000_000},
			want:  0.30,
		},
		{
			name:  "negative loan gives no bonus",
			input: model.FormInput{LoanAmount: -50000},
			want:  0.45,
		},
		{
			name:  "codes other than one give no bonus",
			input: model.FormInput{Married: 2, Education: 0, CreditHistory: 3},
			want:  0.45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Heuristic(tt.input), 1e-9)
		})
	}
}

func TestDisplayBlend(t *testing.T) {
	input := model.FormInput{Married: 1, Education: 1, CreditHistory: 1, LoanAmount: 0}

	alone := DisplayBlend(input, nil)
	assert.InDelta(t, 0.94, alone.Final, 1e-9)
	assert.Equal(t, 94, alone.Percent)
	assert.Equal(t, CaptionLikely, alone.Caption())

	server := 80
	blended := DisplayBlend(input, &server)
	assert.InDelta(t, 0.856, blended.Final, 1e-9)
	assert.Equal(t, 86, blended.Percent)
	assert.InDelta(t, 0.94, blended.Heuristic, 1e-9)
}

func TestDisplayBlend_ClampsAndCaptions(t *testing.T) {
	low := 0
	b := DisplayBlend(model.FormInput{LoanAmount: 500000}, &low)
	assert.InDelta(t, 0.12, b.Final, 1e-9)
	assert.Equal(t, 12, b.Percent)
	assert.Equal(t, CaptionAtRisk, b.Caption())

	over := 250
	b = DisplayBlend(model.FormInput{Married: 1, Education: 1, CreditHistory: 1}, &over)
	assert.InDelta(t, 1, b.Final, 1e-9)
	assert.Equal(t, 100, b.Percent)
}

func TestPopup_Lifecycle(t *testing.T) {
	p := New(7, Blend{Percent: 60}, 0)
	assert.Equal(t, DefaultTTL, p.TTL)
	assert.Equal(t, PhaseShowing, p.Phase)
	assert.True(t, p.Visible())
	require.NotNil(t, p.Init())

	p, cmd := p.Update(FadeMsg{ID: 7})
	assert.Equal(t, PhaseFading, p.Phase)
	assert.NotNil(t, cmd)
	assert.True(t, p.Visible())

	p, cmd = p.Update(RemoveMsg{ID: 7})
	assert.Equal(t, PhaseRemoved, p.Phase)
	assert.Nil(t, cmd)
	assert.False(t, p.Visible())
}

func TestPopup_IgnoresOtherIDs(t *testing.T) {
	p := New(2, Blend{}, time.Second)

	p, cmd := p.Update(FadeMsg{ID: 1})
	assert.Equal(t, PhaseShowing, p.Phase)
	assert.Nil(t, cmd)

	p, _ = p.Update(RemoveMsg{ID: 1})
	assert.Equal(t, PhaseShowing, p.Phase)
}

func TestPopup_Dismiss(t *testing.T) {
	p := New(3, Blend{}, time.Second).Dismiss()
	assert.False(t, p.Visible())

	p, cmd := p.Update(FadeMsg{ID: 3})
	assert.Equal(t, PhaseRemoved, p.Phase)
	assert.Nil(t, cmd)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "showing", PhaseShowing.String())
	assert.Equal(t, "fading", PhaseFading.String())
	assert.Equal(t, "removed", PhaseRemoved.String())
}

func TestTimer_FiresInOrder(t *testing.T) {
	faded := make(chan struct{})
	removed := make(chan struct{})

	StartTimer(10*time.Millisecond, func() { close(faded) }, func() { close(removed) })

	select {
	case <-faded:
	case <-time.After(time.Second):
		t.Fatal("fade callback did not fire")
	}
	select {
	case <-removed:
	case <-time.After(2 * time.Second):
		t.Fatal("remove callback did not fire")
	}
}

func TestTimer_StopCancelsCallbacks(t *testing.T) {
	var calls atomic.Int32
	timer := StartTimer(50*time.Millisecond, func() { calls.Add(1) }, func() { calls.Add(1) })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
