// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers fetched from a named registry.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("alignment")
//	log.Info("aligned", logger.Fields("utterances", 12, "speakers", 3))
package logger
