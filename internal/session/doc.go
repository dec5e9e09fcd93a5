// Package session runs the interactive command loop.
//
// A Session owns the active library and the current result set. Each input
// line is parsed into a command and executed against that state; any
// command failure is reported to the user and the session returns to idle.
// Records are addressed only by their index in the current result set, and
// every write goes back to the library position recorded in that entry.
package session
