// Package stubserver is a scripted stand-in for the prediction service, used
// for local development and tests. It contains no model.
package stubserver

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

const requestIDHeader = "X-Request-ID"

var intFields = []string{"gender", "married", "education", "credit_history"}

const floatField = "loan_amount"

func isKnownField(field string) bool {
	if field == floatField {
		return true
	}
	for _, f := range intFields {
		if f == field {
			return true
		}
	}
	return false
}

// Server serves scripted predictions.
type Server struct {
	scenarios Scenarios
	sleep     func(ctx context.Context, d time.Duration) error
}

// New creates a stub server.
func New(scenarios Scenarios) *Server {
	return &Server{
		scenarios: scenarios,
		sleep:     sleepCtx,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(corsMiddleware)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/predict", s.predict)
	r.Options("/predict", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFromContext(r.Context())

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("Stub rejected malformed body", "request_id", reqID, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "request body must be a JSON object"})
		return
	}

	fields, err := validatePayload(payload)
	if err != nil {
		slog.Warn("Stub rejected request", "request_id", reqID, "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sc := s.scenarios.Pick(fields)
	slog.Info("Stub prediction", "request_id", reqID, "scenario", sc.Name, "status", sc.Status)

	if sc.Delay > 0 {
		if err := s.sleep(r.Context(), sc.Delay); err != nil {
			return
		}
	}

	if sc.Raw != "" || sc.Body == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(sc.Status)
		_, _ = w.Write([]byte(sc.Raw))
		return
	}
	writeJSON(w, sc.Status, sc.Body)
}

// validatePayload requires every field to be a number and the flag fields to be whole numbers.
func validatePayload(payload map[string]any) (map[string]float64, error) {
	out := make(map[string]float64, len(intFields)+1)
	for _, field := range append(append([]string{}, intFields...), floatField) {
		raw, ok := payload[field]
		if !ok {
			return nil, fmt.Errorf("missing field '%s'", field)
		}
		n, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("field '%s' must be a number", field)
		}
		if field != floatField && n != math.Trunc(n) {
			return nil, fmt.Errorf("field '%s' must be an integer", field)
		}
		out[field] = n
	}
	return out, nil
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		ctx := context.WithValue(r.Context(), ctxKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)
		next.ServeHTTP(w, r)
	})
}

func requestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(ctxKeyRequestID).(string)
	return v
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// ListenAndServe runs the stub over plain HTTP until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stub server failed: %w", err)
	}
	return s.Serve(ctx, ln)
}

// ListenAndServeTLS runs the stub over HTTPS with cert until ctx is canceled.
func (s *Server) ListenAndServeTLS(ctx context.Context, addr string, cert tls.Certificate) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("stub server failed: %w", err)
	}
	return s.Serve(ctx, tls.NewListener(ln, &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}))
}

// Serve accepts connections on ln until ctx is canceled. ln is closed on return.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Stub prediction server listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("stub server failed: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("stub server shutdown: %w", err)
		}
		return nil
	}
}
