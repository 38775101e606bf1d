// Package httpclient provides the small HTTP client the announcer uses to
// talk to discovery registries.
//
// Do returns the full Response for every status the server answered with,
// together with a classified *Error for non-2xx codes, so callers that care
// about one exact status (202 Accepted for announcements) can inspect
// Response.StatusCode and ignore the classification.
//
//	client, _ := httpclient.New(httpclient.Config{Timeout: 10 * time.Second})
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method:  http.MethodDelete,
//	    Path:    "http://disco-1:4111/v1/announcement/" + nodeID,
//	    Headers: map[string]string{"User-Agent": nodeID},
//	})
package httpclient
