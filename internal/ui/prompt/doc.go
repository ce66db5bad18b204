// Package prompt provides simple interactive prompts.
//
// Prompts render to stderr and read from stdin, so they are only shown
// when stdin is a terminal. Callers check that with [IsInteractive] and
// require an explicit flag otherwise.
package prompt
