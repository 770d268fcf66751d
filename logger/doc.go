// Package logger provides structured logging for hubspotkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Request ids stored with
// ContextWithRequestID are attached by WithContext.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("hubspot")
//	log.Info("request sent", logger.Fields("url", u))
package logger
