// Package snippet executes pongo2 snippets attached to snippet properties.
// Snippets are parsed once at compile time and executed per render with the
// current object, the model attributes and the message helpers in context.
package snippet
