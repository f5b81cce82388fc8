// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation of configuration field
paths, based on the canonical format `path`.

The format is a dot-separated sequence of segments, where repeated blocks
carry their list index, e.g. `hdmi_cec.on_message[0].data`.

Validation errors carry an Address so users can locate the offending entry
without knowing anything about the compiler internals.
*/
package nodeid
