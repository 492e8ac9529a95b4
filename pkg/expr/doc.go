// Package expr evaluates template expressions with expr-lang. Expressions
// may be written bare ("this.id == 3") or wrapped ("${this.id}"). Every
// evaluation sees the render attributes as variables plus two pseudo
// references: "this" (the object of the current render frame) and "parent"
// (the object of the frame above it). Struct fields are addressed by their
// Go names or `expr` tags; map keys by their literal names.
package expr
