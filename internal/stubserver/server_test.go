package stubserver

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/loanwise/internal/certs"
	"github.com/Veraticus/loanwise/internal/model"
	"github.com/Veraticus/loanwise/internal/predict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioYAML = `
default:
  name: approve
  body:
    result: Approved
    probability: 0.81
scenarios:
  - name: no credit history
    match:
      credit_history: 0
    body:
      result: Rejected
      probability: 0.12
  - name: maintenance
    match:
      loan_amount: 503
    status: 503
    raw: down for maintenance
  - name: model error
    match:
      loan_amount: 400
    body:
      error: model not loaded
  - name: slow
    match:
      loan_amount: 999
    delay: 50ms
    body:
      result: Approved
`

func newStub(t *testing.T, yamlData string) (*httptest.Server, *predict.Client) {
	t.Helper()
	scenarios := DefaultScenarios()
	if yamlData != "" {
		var err error
		scenarios, err = ParseScenarios([]byte(yamlData))
		require.NoError(t, err)
	}

	server := httptest.NewServer(New(scenarios).Routes())
	t.Cleanup(server.Close)

	client, err := predict.NewClient(predict.Config{BaseURL: server.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return server, client
}

func approvedInput() model.FormInput {
	return model.FormInput{Gender: 1, Married: 1, Education: 1, CreditHistory: 1, LoanAmount: 120}
}

func TestStub_DefaultScenario(t *testing.T) {
	_, client := newStub(t, "")

	resp, err := client.Predict(context.Background(), approvedInput())
	require.NoError(t, err)
	assert.Equal(t, "Approved", resp.Result)
	require.NotNil(t, resp.Probability)
	assert.InDelta(t, 0.72, *resp.Probability, 1e-9)
}

func TestStub_Scenarios(t *testing.T) {
	_, client := newStub(t, scenarioYAML)

	resp, err := client.Predict(context.Background(), approvedInput())
	require.NoError(t, err)
	assert.Equal(t, "Approved", resp.Result)

	noCredit := approvedInput()
	noCredit.CreditHistory = 0
	resp, err = client.Predict(context.Background(), noCredit)
	require.NoError(t, err)
	assert.Equal(t, "Rejected", resp.Result)

	maintenance := approvedInput()
	maintenance.LoanAmount = 503
	_, err = client.Predict(context.Background(), maintenance)
	var httpErr *predict.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "down for maintenance", httpErr.Body)

	broken := approvedInput()
	broken.LoanAmount = 400
	_, err = client.Predict(context.Background(), broken)
	var domainErr *predict.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "model not loaded", domainErr.Message)

	slow := approvedInput()
	slow.LoanAmount = 999
	started := time.Now()
	_, err = client.Predict(context.Background(), slow)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(started), 50*time.Millisecond)
}

func TestStub_RejectsBadPayload(t *testing.T) {
	server, _ := newStub(t, "")

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"not json", `nope`, "JSON object"},
		{"missing field", `{"gender":1,"married":1,"education":1,"credit_history":1}`, "missing field 'loan_amount'"},
		{"string field", `{"gender":"1","married":1,"education":1,"credit_history":1,"loan_amount":1}`, "'gender' must be a number"},
		{"fractional code", `{"gender":1,"married":0.5,"education":1,"credit_history":1,"loan_amount":1}`, "'married' must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(server.URL+"/predict", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			data, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.wantMsg)
		})
	}
}

func TestStub_HealthAndRequestID(t *testing.T) {
	server, _ := newStub(t, "")

	req, err := http.NewRequest(http.MethodGet, server.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, "abc-123")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get(requestIDHeader))
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestParseScenarios_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad status", "default:\n  status: 42\n"},
		{"unknown match field", "scenarios:\n  - name: x\n    match:\n      income: 1\n"},
		{"negative delay", "scenarios:\n  - name: x\n    delay: -1s\n"},
		{"not yaml", "default: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenarios([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseScenarios_DefaultReplacesBuiltIn(t *testing.T) {
	s, err := ParseScenarios([]byte("default:\n  name: rejects\n  body:\n    result: Rejected\n"))
	require.NoError(t, err)

	assert.Equal(t, "rejects", s.Default.Name)
	assert.Equal(t, http.StatusOK, s.Default.Status)
	assert.Equal(t, map[string]any{"result": "Rejected"}, s.Default.Body)

	server := httptest.NewServer(New(s).Routes())
	defer server.Close()
	client, err := predict.NewClient(predict.Config{BaseURL: server.URL, Timeout: 2 * time.Second})
	require.NoError(t, err)

	resp, err := client.Predict(context.Background(), approvedInput())
	require.NoError(t, err)
	assert.Equal(t, "Rejected", resp.Result)
	assert.Nil(t, resp.Probability)
}

func TestParseScenarios_NoDefaultKeepsBuiltIn(t *testing.T) {
	s, err := ParseScenarios([]byte("scenarios:\n  - name: x\n    match:\n      gender: 0\n    body:\n      result: Rejected\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultScenarios().Default, s.Default)
	require.Len(t, s.Scenarios, 1)
	assert.Equal(t, map[string]any{"result": "Rejected"}, s.Scenarios[0].Body)
}

func TestLoadScenarios(t *testing.T) {
	s, err := LoadScenarios("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScenarios(), s)

	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYAML), 0o600))

	s, err = LoadScenarios(path)
	require.NoError(t, err)
	assert.Len(t, s.Scenarios, 4)
	assert.Equal(t, "approve", s.Default.Name)

	_, err = LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestListenAndServe_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(DefaultScenarios()).ListenAndServe(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServe_TLSWithGeneratedCertificate(t *testing.T) {
	m := certs.NewFileManager(t.TempDir())
	cert, err := m.GetOrCreate()
	require.NoError(t, err)
	pool, err := certs.LoadCertPool(m.CertFile())
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	tlsLn := tls.NewListener(ln, &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- New(DefaultScenarios()).Serve(ctx, tlsLn)
	}()

	client, err := predict.NewClient(predict.Config{
		BaseURL: "https://" + ln.Addr().String(),
		RootCAs: pool,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	resp, err := client.Predict(context.Background(), approvedInput())
	require.NoError(t, err)
	assert.Equal(t, "Approved", resp.Result)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestListenAndServe_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	err = New(DefaultScenarios()).ListenAndServe(context.Background(), ln.Addr().String())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stub server failed")
}
