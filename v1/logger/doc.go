// Package logger builds the application's structured zap logger.
//
// Every component in this module takes a *zap.Logger and names its own
// child with logger.Named, so this package only owns construction:
// encoding, level, and the initial service fields.
//
// Configuration comes from the environment:
//
//	LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_SERVICE_NAME=erpvec  # "service" field on every entry
//	LOGGER_DEVELOPMENT=true     # console encoding with colored levels
//
// The FXModule provides the logger to the container and flushes it on
// shutdown.
package logger
