package announce

import (
	"context"
	"fmt"

	"github.com/kbukum/announcer/errors"
)

// Level is the severity of a tick message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
)

func (l Level) String() string {
	if l == LevelWarn {
		return "warn"
	}
	return "info"
}

// Message is one log line produced by a tick. Messages are collected rather
// than logged directly so the log gate can decide afterwards whether the
// tick is worth reporting.
type Message struct {
	Level      Level
	Text       string
	Endpoint   string
	StatusCode int
	Err        error
}

// TickOutcome summarizes one announce tick.
type TickOutcome struct {
	// Success is true if some endpoint accepted the descriptor.
	Success bool
	// Endpoint is the endpoint that accepted it, empty on failure.
	Endpoint string
	// Attempts counts the endpoints tried.
	Attempts int
	Messages []Message
}

// RunTick announces to the endpoints in order and stops at the first one
// that accepts. Each endpoint is tried at most once. A single descriptor is
// built per tick and sent to every endpoint tried.
func RunTick(ctx context.Context, a Announcer, b *DescriptorBuilder, endpoints *EndpointSet) TickOutcome {
	var out TickOutcome
	d := b.Build()

	for _, ep := range endpoints.All() {
		out.Attempts++
		res := a.RegisterAt(ctx, ep, d)
		if res.Succeeded() {
			out.Success = true
			out.Endpoint = ep
			out.Messages = append(out.Messages, Message{
				Level:      LevelInfo,
				Text:       fmt.Sprintf("announce to %s succeeded", ep),
				Endpoint:   ep,
				StatusCode: res.StatusCode,
			})
			return out
		}
		out.Messages = append(out.Messages, failureMessage("announce", ep, res))
	}
	return out
}

// failureMessage describes a failed attempt. An answer other than 202
// carries a RegistryRejected error so every warning has a code.
func failureMessage(op, ep string, res AttemptResult) Message {
	if res.Err != nil {
		return Message{
			Level:      LevelWarn,
			Text:       fmt.Sprintf("%s to %s failed: %v", op, ep, res.Err),
			Endpoint:   ep,
			StatusCode: res.StatusCode,
			Err:        res.Err,
		}
	}
	return Message{
		Level:      LevelWarn,
		Text:       fmt.Sprintf("%s to %s failed: HTTP %d", op, ep, res.StatusCode),
		Endpoint:   ep,
		StatusCode: res.StatusCode,
		Err:        errors.RegistryRejected(ep, res.StatusCode),
	}
}
