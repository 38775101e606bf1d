package announce

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/kbukum/announcer/component"
	"github.com/kbukum/announcer/errors"
)

func newTestService(t *testing.T, hosts string, fake *fakeAnnouncer, buf *syncBuffer) *Service {
	t.Helper()
	return NewService(testConfig(hosts), newTestLogger(buf), WithAnnouncer(fake))
}

func TestServiceTickLogsOnlyOnTransitions(t *testing.T) {
	var buf syncBuffer
	fake := &fakeAnnouncer{register: rejectAll}
	s := newTestService(t, "a,b", fake, &buf)
	if err := s.init(); err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	// First tick: both fail, both warnings logged.
	s.tick(ctx)
	lines := logLines(t, &buf)
	if len(lines) != 2 || lines[0].Level != "warn" || lines[1].Level != "warn" {
		t.Fatalf("expected two warnings on first tick, got %+v", lines)
	}
	if !strings.Contains(lines[0].Message, "http://a:4111") || !strings.Contains(lines[1].Message, "http://b:4111") {
		t.Errorf("warnings out of order: %+v", lines)
	}

	// Second tick: still failing, nothing logged.
	buf.Reset()
	s.tick(ctx)
	if lines := logLines(t, &buf); len(lines) != 0 {
		t.Fatalf("expected silence while still failing, got %+v", lines)
	}

	// Third tick: a fails, b accepts; both lines logged in order.
	buf.Reset()
	fake.setRegister(acceptOnly("http://b:4111"))
	s.tick(ctx)
	lines = logLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected warning then info on recovery, got %+v", lines)
	}
	if lines[0].Level != "warn" || lines[1].Level != "info" || lines[1].Message != "announce to http://b:4111 succeeded" {
		t.Errorf("unexpected recovery lines: %+v", lines)
	}

	// Fourth tick: still announced, nothing logged.
	buf.Reset()
	s.tick(ctx)
	if lines := logLines(t, &buf); len(lines) != 0 {
		t.Fatalf("expected silence while announced, got %+v", lines)
	}

	st := s.Status()
	if !st.Announced || st.Endpoint != "http://b:4111" || st.Ticks != 4 {
		t.Errorf("unexpected status: %+v", st)
	}
}

func TestServiceTickRecoversPanics(t *testing.T) {
	var buf syncBuffer
	calls := 0
	fake := &fakeAnnouncer{}
	fake.register = func(string) AttemptResult {
		calls++
		if calls == 1 {
			panic("encoder exploded")
		}
		return AttemptResult{StatusCode: 202}
	}
	s := newTestService(t, "a", fake, &buf)
	if err := s.init(); err != nil {
		t.Fatal(err)
	}

	s.tick(context.Background())
	lines := logLines(t, &buf)
	if len(lines) != 1 || lines[0].Level != "warn" || !strings.Contains(lines[0].Message, "encoder exploded") {
		t.Fatalf("expected one warning for the panic, got %+v", lines)
	}
	if s.Status().Announced {
		t.Error("a panicking tick counts as a failure")
	}

	buf.Reset()
	s.tick(context.Background())
	if lines := logLines(t, &buf); len(lines) != 1 || lines[0].Level != "info" {
		t.Errorf("expected recovery to be logged, got %+v", lines)
	}
}

type panicCounter struct{ noop.Int64Counter }

func (panicCounter) Add(context.Context, int64, ...metric.AddOption) { panic("exporter exploded") }

type panicMeter struct{ noop.Meter }

func (panicMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return panicCounter{}, nil
}

func TestServiceTickSettlesStateWhenReportingPanics(t *testing.T) {
	var buf syncBuffer
	fake := &fakeAnnouncer{register: acceptOnly("http://a:4111")}
	s := NewService(testConfig("a"), newTestLogger(&buf), WithAnnouncer(fake), WithMeter(panicMeter{}))
	if err := s.init(); err != nil {
		t.Fatal(err)
	}

	s.tick(context.Background())
	lines := logLines(t, &buf)
	if len(lines) != 2 || lines[0].Level != "info" || lines[1].Level != "warn" ||
		!strings.Contains(lines[1].Message, "exporter exploded") {
		t.Fatalf("expected success line then reporting warning, got %+v", lines)
	}

	buf.Reset()
	s.tick(context.Background())
	lines = logLines(t, &buf)
	if len(lines) != 1 || lines[0].Level != "warn" {
		t.Errorf("expected only the reporting warning once announced, got %+v", lines)
	}

	st := s.Status()
	if !st.Announced || st.Ticks != 2 || st.Endpoint != "http://a:4111" {
		t.Errorf("status not updated: %+v", st)
	}
	if !s.gate.Announced() || s.gate.FirstRun() {
		t.Error("gate not updated")
	}
}

func TestServiceStartRejectsBadConfig(t *testing.T) {
	var buf syncBuffer
	s := newTestService(t, " , ", &fakeAnnouncer{register: rejectAll}, &buf)

	err := s.Start(context.Background())
	if !errors.IsCode(err, errors.ErrCodeMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if s.Health(context.Background()).Status != component.StatusUnhealthy {
		t.Error("service that failed to start must be unhealthy")
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("Stop on an unstarted service must be a no-op, got %v", err)
	}
}

func TestServiceStopWithdrawsEverywhere(t *testing.T) {
	var buf syncBuffer
	fake := &fakeAnnouncer{
		register: acceptOnly("http://a:4111"),
		withdraw: func(ep string) AttemptResult {
			if ep == "http://b:4111" {
				return AttemptResult{Err: errors.RegistryUnavailable(ep, nil)}
			}
			return AttemptResult{StatusCode: 500}
		},
	}
	s := newTestService(t, "a,b,c", fake, &buf)

	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitFor(t, "first announcement", func() bool { return s.Status().Announced })
	if h := s.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy once announced, got %+v", h)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	buf.Reset()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop must not fail, got %v", err)
	}

	_, withdraws := fake.calls()
	want := []string{"http://a:4111", "http://b:4111", "http://c:4111"}
	if len(withdraws) != len(want) {
		t.Fatalf("expected withdrawals %v, got %v", want, withdraws)
	}
	for i := range want {
		if withdraws[i] != want[i] {
			t.Errorf("withdrawal %d: expected %s, got %s", i, want[i], withdraws[i])
		}
	}

	var infos, warns int
	for _, l := range logLines(t, &buf) {
		if !strings.HasPrefix(l.Message, "withdraw from") {
			continue
		}
		switch l.Level {
		case "info":
			infos++
		case "warn":
			warns++
		}
	}
	if infos != 2 || warns != 1 {
		t.Errorf("expected 2 info and 1 warn withdrawal lines, got %d/%d", infos, warns)
	}

	if st := s.Status(); st.Running || st.Announced {
		t.Errorf("unexpected status after stop: %+v", st)
	}
	if err := s.Stop(context.Background()); err != nil {
		t.Errorf("second Stop must be a no-op, got %v", err)
	}
	if _, again := fake.calls(); len(again) != 3 {
		t.Errorf("second Stop must not withdraw again, got %v", again)
	}
}

func TestServiceHealthDegradedWhenRejected(t *testing.T) {
	var buf syncBuffer
	fake := &fakeAnnouncer{register: rejectAll}
	s := newTestService(t, "a", fake, &buf)
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer s.Stop(context.Background())

	waitFor(t, "first tick", func() bool { return s.Status().Ticks >= 1 })
	if h := s.Health(context.Background()); h.Status != component.StatusDegraded {
		t.Errorf("expected degraded, got %+v", h)
	}
}

func TestServiceIdentityIsStable(t *testing.T) {
	var buf syncBuffer
	fake := &fakeAnnouncer{register: acceptOnly("http://a:4111")}
	s := newTestService(t, "a", fake, &buf)
	if err := s.init(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		s.tick(context.Background())
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	id := s.Identity()
	for _, d := range fake.bodies {
		if d.Services[0].ID != id.AnnouncementID || d.Location != "/"+id.NodeID {
			t.Fatalf("descriptor does not carry the process identity: %+v", d)
		}
	}
	if st := s.Status(); st.NodeID != id.NodeID || st.AnnouncementID != id.AnnouncementID {
		t.Errorf("status identity mismatch: %+v", st)
	}
}

func TestServiceDescribe(t *testing.T) {
	s := NewService(testConfig("a,b"), nil, WithAnnouncer(&fakeAnnouncer{register: rejectAll}))
	d := s.Describe()
	if d.Type != "announcer" || !strings.Contains(d.Details, "endpoints=2") || !strings.Contains(d.Details, "period=5s") {
		t.Errorf("unexpected description: %+v", d)
	}
	if s.Name() != "announcer" {
		t.Errorf("unexpected name %q", s.Name())
	}
}

func TestServiceStartIsNonBlocking(t *testing.T) {
	var buf syncBuffer
	block := make(chan struct{})
	fake := &fakeAnnouncer{register: func(string) AttemptResult {
		<-block
		return AttemptResult{StatusCode: 202}
	}}
	s := newTestService(t, "a", fake, &buf)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Start blocked on the first announcement")
	}
	close(block)
	_ = s.Stop(context.Background())
}
