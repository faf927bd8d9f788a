// Package logger provides structured logging for rallykit using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and request-scoped fields carried on a context.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("restapi")
//	ctx = logger.ContextWithRequestID(ctx, id)
//	log.WithContext(ctx).Debug("issuing request", logger.Fields("url", "/defect/1"))
package logger
