// Package state holds the long-lived user state shared by the TUI, the CLI and
// the HTTP API: the have/want collection and the colour theme.
//
// Both containers write through to a store before changing memory, so a failed
// write leaves the in-memory view untouched.
package state
