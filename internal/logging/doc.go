// Package logging provides a simple leveled logging interface for the
// tube-adventures player.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (skipped annotations, ticks)
//   - INFO: General operational messages
//   - WARN: Warning conditions (data-quality findings, soft failures)
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable, or
// forced to debug with DEBUG=1. Packages that want their messages tagged
// with a component name use For:
//
//	var log = logging.For("decoder")
//	log.Warn("annotation %s has a single rect region", id)
package logging
