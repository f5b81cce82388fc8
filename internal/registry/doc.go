// Package registry maps action names used in `then` lists to the code that
// lowers them.
//
// Action modules register a Definition at startup; registering a name
// twice is a programming error and panics. The registry then serves two
// consumers: schema validation, which needs each action's field table, and
// the trigger compiler, which hands a validated action list to
// BuildActionChain.
package registry
