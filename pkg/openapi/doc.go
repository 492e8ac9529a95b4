// Package openapi reads data shapes from OpenAPI documents.
//
// Every component schema of a document becomes a template.DataShape, so
// templates can populate their elements from an API description instead
// of listing them by hand. Documents are parsed with kin-openapi.
package openapi
