package main

import (
	"testing"

	tuitest "github.com/Veraticus/loanwise/internal/tui/testing"
	"github.com/stretchr/testify/assert"
)

func TestStubBanner(t *testing.T) {
	tests := []struct {
		name       string
		certFile   string
		contains   []string
		notContain []string
	}{
		{
			name: "plain http",
			contains: []string{
				"🏦 Stub prediction server",
				"POST /predict",
				"Listening on http://127.0.0.1:5000",
				"2 scripted scenarios plus the default reply",
			},
			notContain: []string{"--ca-file", "certificate"},
		},
		{
			name:     "https",
			certFile: "/tmp/certs/localhost.crt",
			contains: []string{
				"Listening on https://127.0.0.1:5000",
				"✓ Self-signed certificate ready",
				"Trust it with --ca-file /tmp/certs/localhost.crt",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tuitest.StripANSI(stubBanner("127.0.0.1:5000", 2, tt.certFile))
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, unwanted := range tt.notContain {
				assert.NotContains(t, out, unwanted)
			}
		})
	}
}
