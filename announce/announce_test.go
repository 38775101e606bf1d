package announce

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/announcer/logger"
)

// fakeAnnouncer answers from per-endpoint scripts and records every call.
type fakeAnnouncer struct {
	mu        sync.Mutex
	register  func(endpoint string) AttemptResult
	withdraw  func(endpoint string) AttemptResult
	registers []string
	withdraws []string
	bodies    []Descriptor
}

func (f *fakeAnnouncer) RegisterAt(_ context.Context, endpoint string, d Descriptor) AttemptResult {
	f.mu.Lock()
	f.registers = append(f.registers, endpoint)
	f.bodies = append(f.bodies, d)
	fn := f.register
	f.mu.Unlock()
	res := fn(endpoint)
	res.Endpoint = endpoint
	return res
}

func (f *fakeAnnouncer) WithdrawAt(_ context.Context, endpoint string) AttemptResult {
	f.mu.Lock()
	f.withdraws = append(f.withdraws, endpoint)
	fn := f.withdraw
	f.mu.Unlock()
	res := AttemptResult{StatusCode: 200}
	if fn != nil {
		res = fn(endpoint)
	}
	res.Endpoint = endpoint
	return res
}

func (f *fakeAnnouncer) setRegister(fn func(string) AttemptResult) {
	f.mu.Lock()
	f.register = fn
	f.mu.Unlock()
}

func (f *fakeAnnouncer) calls() (registers, withdraws []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.registers...), append([]string(nil), f.withdraws...)
}

func (f *fakeAnnouncer) reset() {
	f.mu.Lock()
	f.registers = nil
	f.bodies = nil
	f.mu.Unlock()
}

// acceptOnly answers 202 for the given endpoint and 500 for all others.
func acceptOnly(endpoint string) func(string) AttemptResult {
	return func(ep string) AttemptResult {
		if ep == endpoint {
			return AttemptResult{StatusCode: 202}
		}
		return AttemptResult{StatusCode: 500}
	}
}

func rejectAll(string) AttemptResult { return AttemptResult{StatusCode: 503} }

func unreachable(string) AttemptResult {
	return AttemptResult{Err: stderrors.New("connection refused")}
}

// syncBuffer is a bytes.Buffer safe for the scheduler goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	b.buf.Reset()
	b.mu.Unlock()
}

func newTestLogger(w *syncBuffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: "json"}, "", w)
}

type logLine struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func logLines(t *testing.T, w *syncBuffer) []logLine {
	t.Helper()
	var out []logLine
	for _, raw := range strings.Split(strings.TrimSpace(w.String()), "\n") {
		if raw == "" {
			continue
		}
		var l logLine
		if err := json.Unmarshal([]byte(raw), &l); err != nil {
			t.Fatalf("invalid log line %q: %v", raw, err)
		}
		out = append(out, l)
	}
	return out
}

func testConfig(hosts string) Config {
	cfg := Config{
		Discovery:   DiscoveryConfig{Hosts: hosts, Port: 4111},
		Environment: "test",
		HTTPPort:    8080,
		TelnetPort:  4242,
	}
	cfg.ApplyDefaults()
	return cfg
}
