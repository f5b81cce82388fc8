// Package templatable compiles fields whose value is either known when the
// configuration is compiled or computed each time the generated object
// needs it. A templatable field is in one of three states: absent, a
// literal that is validated now, or a deferred lambda whose result is
// validated when it is evaluated.
package templatable
