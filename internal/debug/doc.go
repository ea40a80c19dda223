// Package debug provides optional file-based debug logging.
//
// When the HAMLFMT_DEBUG environment variable is set to a file path, debug
// messages are appended to that file. Otherwise, logging is a no-op.
package debug
