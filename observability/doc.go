// Package observability wires OpenTelemetry tracing and metrics export.
//
// The Component installs OTLP/HTTP providers globally when enabled:
//
//	reg.Register(observability.NewComponent(cfg.Observability, log))
//	svc := announce.NewService(cfg.Announce, log,
//		announce.WithMeter(observability.Meter("announce")),
//		announce.WithTracer(observability.Tracer("announce")))
//
// Meters and tracers taken from the global provider before Start forward to
// the real providers once they are installed.
//
// ServiceHealth rolls component health into the status served on /healthz.
package observability
