package announce

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/kbukum/announcer/announce"

// Metrics holds the announcer's instruments.
type Metrics struct {
	ticks       metric.Int64Counter
	attempts    metric.Int64Counter
	withdrawals metric.Int64Counter
	tickTime    metric.Float64Histogram
}

// NewMetrics creates the instruments on meter. A nil meter records nothing.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = noop.NewMeterProvider().Meter(instrumentationName)
	}

	ticks, err := meter.Int64Counter("announce.ticks",
		metric.WithDescription("Announce ticks by outcome"))
	if err != nil {
		return nil, err
	}
	attempts, err := meter.Int64Counter("announce.attempts",
		metric.WithDescription("Registration requests sent to registry endpoints"))
	if err != nil {
		return nil, err
	}
	withdrawals, err := meter.Int64Counter("announce.withdrawals",
		metric.WithDescription("Withdrawal requests sent on shutdown"))
	if err != nil {
		return nil, err
	}
	tickTime, err := meter.Float64Histogram("announce.tick.duration",
		metric.WithDescription("Duration of an announce tick"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ticks:       ticks,
		attempts:    attempts,
		withdrawals: withdrawals,
		tickTime:    tickTime,
	}, nil
}

// RecordTick records one tick and the attempts it made.
func (m *Metrics) RecordTick(ctx context.Context, out TickOutcome, elapsed time.Duration) {
	outcome := attribute.String("outcome", outcomeLabel(out.Success))
	m.ticks.Add(ctx, 1, metric.WithAttributes(outcome))
	m.tickTime.Record(ctx, elapsed.Seconds(), metric.WithAttributes(outcome))

	for i, msg := range out.Messages {
		if i >= out.Attempts {
			break
		}
		m.attempts.Add(ctx, 1, metric.WithAttributes(
			attribute.String("endpoint", msg.Endpoint),
			attribute.String("outcome", outcomeLabel(msg.Level == LevelInfo)),
		))
	}
}

// RecordWithdrawal records one withdrawal request.
func (m *Metrics) RecordWithdrawal(ctx context.Context, res AttemptResult) {
	m.withdrawals.Add(ctx, 1, metric.WithAttributes(
		attribute.String("endpoint", res.Endpoint),
		attribute.String("outcome", outcomeLabel(res.Err == nil && res.StatusCode >= 200 && res.StatusCode < 300)),
	))
}

func outcomeLabel(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
