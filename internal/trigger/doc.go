// Package trigger lowers on_message entries and describes how a lowered
// trigger matches incoming messages.
//
// A trigger has four optional filter axes: source, destination, opcode and
// data. An axis that was not configured matches every message; opcode
// compares against the first data byte; data compares the whole payload,
// opcode included, by length and content.
package trigger
