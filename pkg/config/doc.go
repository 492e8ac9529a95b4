// Package config loads engine configuration files.
//
// A configuration names the render targets to compile, the locale,
// namespace, URL base and theme shared by every render, and declares the
// templates themselves: plain templates with nested elements, forms and
// tables. Files are JSON or YAML.
package config
