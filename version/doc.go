// Package version reports build information for the announcer binary.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/announcer/version.Version=1.4.0" ./cmd/announced
package version
