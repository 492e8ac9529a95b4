// Package template defines the in-memory template model the compiler works
// on. A Template is a named, ordered tree of Elements. Each element claims
// exactly one primary Behavior (group, dynamic property, member property,
// command or inner template) that selects its mold, plus any number of
// secondary Capability flags consulted by fragments and value formatting.
// Property sets carry target specific attribute overrides keyed by prefix
// (for example "htmlWrapper"), and settings carry free-form key/value
// configuration such as a form "action".
//
// Templates are built by an external reader or by hand, optionally bound to a
// DataShape (a Go struct via ShapeOf or an OpenAPI schema) and initialised
// once with Init. After Init a template is read-only and may be shared by any
// number of compilers.
package template
