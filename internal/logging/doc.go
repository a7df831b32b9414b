// Package logging provides concrete implementations of the poolcache.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes formatted messages to stderr (or any io.Writer)
//   - NullLogger: Discards all messages (useful for testing)
//
// Timed wraps a step of the pipeline and reports its duration at verbose level.
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
