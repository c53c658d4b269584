package predict

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Veraticus/loanwise/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testInput = model.FormInput{Gender: 1, Married: 1, Education: 1, CreditHistory: 0, LoanAmount: 120}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestResolveEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		endpoint string
		want     string
		wantErr  bool
	}{
		{
			name: "defaults",
			want: "http://127.0.0.1:5000/predict",
		},
		{
			name:     "relative endpoint on custom origin",
			baseURL:  "https://loans.example.com",
			endpoint: "/predict",
			want:     "https://loans.example.com/predict",
		},
		{
			name:     "relative path under base path",
			baseURL:  "https://loans.example.com/api/",
			endpoint: "predict",
			want:     "https://loans.example.com/api/predict",
		},
		{
			name:     "absolute endpoint overrides base",
			baseURL:  "https://loans.example.com",
			endpoint: "http://localhost:5000/predict",
			want:     "http://localhost:5000/predict",
		},
		{
			name:    "relative base is rejected",
			baseURL: "loans.example.com",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveEndpoint(tt.baseURL, tt.endpoint)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_Predict_Success(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		gotHeader = r.Header.Clone()

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.NoError(t, json.Unmarshal(body, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":"Approved","probability":0.72}`))
	})

	resp, err := client.Predict(context.Background(), testInput)
	require.NoError(t, err)

	assert.Equal(t, "Approved", resp.Result)
	require.NotNil(t, resp.Probability)
	assert.InDelta(t, 0.72, *resp.Probability, 1e-9)

	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.NotEmpty(t, gotHeader.Get(RequestIDHeader))
	assert.Equal(t, map[string]any{
		"gender":         float64(1),
		"married":        float64(1),
		"education":      float64(1),
		"credit_history": float64(0),
		"loan_amount":    float64(120),
	}, gotBody)
}

func TestClient_Predict_HTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"result":"Approved"}`))
	})

	resp, err := client.Predict(context.Background(), testInput)
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.StatusCode)
	assert.Equal(t, `{"result":"Approved"}`, httpErr.Body)
	assert.Empty(t, resp.Result, "error bodies must not be parsed as success payloads")

	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
}

func TestClient_Predict_HTTPErrorWithErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"'loan_amount'"}`))
	})

	_, err := client.Predict(context.Background(), testInput)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Error(), "400")
}

func TestClient_Predict_DomainError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
	})

	_, err := client.Predict(context.Background(), testInput)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "model not loaded", domainErr.Message)
}

func TestClient_Predict_MalformedJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "html", body: `<html>oops</html>`},
		{name: "null", body: `null`},
		{name: "empty", body: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			resp, err := client.Predict(context.Background(), testInput)

			var domainErr *DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, ErrInvalidResponse.Error(), domainErr.Message)
			assert.Empty(t, resp.Result)
		})
	}
}

func TestClient_Predict_TransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client, err := NewClient(Config{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), testInput)
	require.Error(t, err)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)

	var httpErr *HTTPError
	assert.False(t, errors.As(err, &httpErr))
}

func TestClient_Predict_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte(`{"result":"Approved"}`))
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Predict(ctx, testInput)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Predict_TruncatesLargeErrorBody(t *testing.T) {
	big := make([]byte, maxErrorBody*2)
	for i := range big {
		big[i] = 'x'
	}
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write(big)
	})

	_, err := client.Predict(context.Background(), testInput)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Len(t, httpErr.Body, maxErrorBody)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestReadErrorBody_SwallowsReadFailure(t *testing.T) {
	assert.Equal(t, "", readErrorBody(failingReader{}))
}

func TestMockPredictor_RecordsCalls(t *testing.T) {
	mock := NewMockPredictor(model.PredictionResponse{Result: "Rejected"})

	resp, err := mock.Predict(context.Background(), testInput)
	require.NoError(t, err)
	assert.Equal(t, "Rejected", resp.Result)
	assert.Equal(t, []model.FormInput{testInput}, mock.Calls())
}
