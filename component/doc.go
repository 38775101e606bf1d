// Package component defines the lifecycle contract shared by everything the
// announcer process runs: the announce service, the status server and the
// telemetry exporters.
//
// A Registry starts components in registration order and stops them in
// reverse, so the status server can outlive the announcer's withdrawal and
// telemetry can flush last.
package component
