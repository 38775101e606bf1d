package announce

import "github.com/kbukum/announcer/logger"

// LogGate implements edge-triggered logging across ticks. It is not safe
// for concurrent use; the scheduler serializes ticks.
type LogGate struct {
	announced bool
	firstRun  bool
}

// NewLogGate returns a gate whose first decision always logs.
func NewLogGate() *LogGate {
	return &LogGate{firstRun: true}
}

// Decide records the outcome of a tick and reports whether its messages
// should be logged: on the first tick, and whenever the outcome flips.
func (g *LogGate) Decide(success bool) bool {
	shouldLog := g.firstRun || success != g.announced
	g.announced = success
	g.firstRun = false
	return shouldLog
}

// Announced reports the outcome of the last decided tick.
func (g *LogGate) Announced() bool { return g.announced }

// FirstRun reports whether no tick has been decided yet.
func (g *LogGate) FirstRun() bool { return g.firstRun }

// Emit writes messages to log in order.
func Emit(log *logger.Logger, messages []Message) {
	for _, m := range messages {
		fields := map[string]interface{}{logger.FieldEndpoint: m.Endpoint}
		if m.StatusCode != 0 {
			fields[logger.FieldStatusCode] = m.StatusCode
		}
		switch m.Level {
		case LevelWarn:
			if m.Err != nil {
				fields[logger.FieldError] = m.Err
			}
			log.Warn(m.Text, fields)
		default:
			log.Info(m.Text, fields)
		}
	}
}
