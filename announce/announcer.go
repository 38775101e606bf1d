package announce

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/kbukum/announcer/errors"
	"github.com/kbukum/announcer/httpclient"
)

// announcementPath is appended to a registry base URL, followed by the
// node id.
const announcementPath = "/v1/announcement/"

// AttemptResult is the outcome of one request to one endpoint. StatusCode is
// set whenever the registry answered; Err is set when it did not, or when
// the request could not be built.
type AttemptResult struct {
	Endpoint   string
	StatusCode int
	Err        error
}

// Succeeded reports whether the registry accepted the request. Only 202
// Accepted counts.
func (r AttemptResult) Succeeded() bool {
	return r.Err == nil && r.StatusCode == http.StatusAccepted
}

// Announcer performs single register and withdraw requests.
type Announcer interface {
	RegisterAt(ctx context.Context, endpoint string, d Descriptor) AttemptResult
	WithdrawAt(ctx context.Context, endpoint string) AttemptResult
}

// HTTPAnnouncer speaks the registry's HTTP announcement protocol.
type HTTPAnnouncer struct {
	client *httpclient.Client
	nodeID string
	tracer trace.Tracer
}

// NewHTTPAnnouncer creates an announcer that identifies itself as nodeID.
// A nil tracer disables spans.
func NewHTTPAnnouncer(client *httpclient.Client, nodeID string, tracer trace.Tracer) *HTTPAnnouncer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}
	return &HTTPAnnouncer{client: client, nodeID: nodeID, tracer: tracer}
}

// RegisterAt PUTs d to endpoint.
func (a *HTTPAnnouncer) RegisterAt(ctx context.Context, endpoint string, d Descriptor) AttemptResult {
	body, err := json.Marshal(d)
	if err != nil {
		return AttemptResult{Endpoint: endpoint, Err: errors.Internal(err).WithDetail("operation", "encode descriptor")}
	}
	return a.send(ctx, http.MethodPut, endpoint, body)
}

// WithdrawAt DELETEs this node's announcement from endpoint.
func (a *HTTPAnnouncer) WithdrawAt(ctx context.Context, endpoint string) AttemptResult {
	return a.send(ctx, http.MethodDelete, endpoint, nil)
}

func (a *HTTPAnnouncer) send(ctx context.Context, method, endpoint string, body []byte) AttemptResult {
	ctx, span := a.tracer.Start(ctx, "announce."+strings.ToLower(method),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("announce.endpoint", endpoint),
		))
	defer span.End()

	headers := map[string]string{"User-Agent": a.nodeID}
	req := httpclient.Request{
		Method:  method,
		Path:    a.url(endpoint),
		Headers: headers,
	}
	if body != nil {
		headers["Content-Type"] = "application/json"
		req.Body = body
	}

	result := AttemptResult{Endpoint: endpoint}
	resp, err := a.client.Do(ctx, req)
	if resp != nil {
		// A non-2xx answer is still an answer; the status alone decides.
		result.StatusCode = resp.StatusCode
		span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	} else if err != nil {
		result.Err = classify(endpoint, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return result
}

func (a *HTTPAnnouncer) url(endpoint string) string {
	return strings.TrimRight(endpoint, "/") + announcementPath + a.nodeID
}

func classify(endpoint string, err error) error {
	switch {
	case httpclient.IsTimeout(err):
		return errors.Timeout("request to " + endpoint).WithCause(err)
	case httpclient.IsEncoding(err):
		return errors.Internal(err)
	default:
		return errors.RegistryUnavailable(endpoint, err)
	}
}
