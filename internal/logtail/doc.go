// Package logtail reads the end of the debug log and styles its lines for
// the in-app log view.
//
// Read keeps a bounded window of lines while scanning, so a long-running
// log file never has to fit in memory. Parse understands the standard
// logger layout ("prefix 2006/01/02 15:04:05 message") and guesses a level
// from the message text, since the standard logger has none.
package logtail
