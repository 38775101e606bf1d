// Package server provides the HTTP status server: a Gin engine behind an
// h2c handler with recovery, request-id and request logging middleware.
//
//	srv := server.New(cfg.Server, log)
//	srv.Routes(name, version.GetShortVersion(), registry.HealthAll, statusFn)
//	registry.Register(server.NewComponent(srv))
package server
