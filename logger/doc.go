// Package logger provides structured logging backed by zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("announce")
//	log.Info("announce to http://disco:4111 succeeded", logger.Fields("endpoint", ep))
package logger
