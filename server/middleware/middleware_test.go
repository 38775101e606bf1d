package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/announcer/logger"
	"github.com/kbukum/announcer/server/middleware"
)

func TestRecovery(t *testing.T) {
	t.Run("no panic", func(t *testing.T) {
		handler := middleware.Recovery(logger.Nop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("ok"))
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	})

	t.Run("panic", func(t *testing.T) {
		var buf bytes.Buffer
		log := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "", &buf)
		handler := middleware.Recovery(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("test panic")
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/status", http.NoBody))

		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rr.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("response is not valid JSON: %v", err)
		}
		if body["error"] != "Internal server error" {
			t.Errorf("unexpected error message: %s", body["error"])
		}
		if !strings.Contains(buf.String(), "test panic") {
			t.Errorf("expected panic to be logged, got %q", buf.String())
		}
	})
}

func TestRequestID(t *testing.T) {
	t.Run("generates", func(t *testing.T) {
		var seen string
		handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = r.Header.Get(middleware.HeaderRequestID)
		}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest("GET", "/", http.NoBody))

		if seen == "" {
			t.Error("expected request id on the request")
		}
		if rr.Header().Get(middleware.HeaderRequestID) != seen {
			t.Errorf("expected response to echo %q, got %q", seen, rr.Header().Get(middleware.HeaderRequestID))
		}
	})

	t.Run("preserves", func(t *testing.T) {
		handler := middleware.RequestID()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		req := httptest.NewRequest("GET", "/", http.NoBody)
		req.Header.Set(middleware.HeaderRequestID, "abc")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if got := rr.Header().Get(middleware.HeaderRequestID); got != "abc" {
			t.Errorf("expected abc, got %q", got)
		}
	})
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "", &buf)
	handler := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
		_, _ = w.Write([]byte("body"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", http.NoBody))
	if buf.Len() != 0 {
		t.Fatalf("probe requests must not be logged, got %q", buf.String())
	}

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", http.NoBody))
	var line map[string]interface{}
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line); err != nil {
		t.Fatalf("invalid log line: %v", err)
	}
	if line["level"] != "warn" || line[logger.FieldStatus] != float64(404) || line["bytes"] != float64(4) {
		t.Errorf("unexpected log line: %v", line)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) middleware.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := middleware.Chain(mark("outer"), mark("inner"))(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", http.NoBody))

	if strings.Join(order, ",") != "outer,inner,handler" {
		t.Errorf("unexpected order: %v", order)
	}
}
