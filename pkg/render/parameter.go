package render

import (
	"sort"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/expr"
)

// Parameter yields a value at render time.
type Parameter interface {
	Resolve(m *Model) (any, error)
}

// LiteralParameter is a fixed value.
type LiteralParameter struct {
	Value any
}

// Resolve returns the value.
func (p LiteralParameter) Resolve(*Model) (any, error) { return p.Value, nil }

// ExpressionParameter evaluates an expression against the current frame.
type ExpressionParameter struct {
	Expression string
	Kind       expr.Kind
}

// Resolve evaluates the expression.
func (p ExpressionParameter) Resolve(m *Model) (any, error) {
	return m.Evaluate(p.Expression, p.Kind)
}

// ResourceParameter resolves a localized message.
type ResourceParameter struct {
	Key     string
	Default string
}

// Resolve looks the message up.
func (p ResourceParameter) Resolve(m *Model) (any, error) {
	return m.Message(p.Key, p.Default), nil
}

// PropertyParameter reads a property relative to the current frame.
type PropertyParameter struct {
	Name string
}

// Resolve looks the property up.
func (p PropertyParameter) Resolve(m *Model) (any, error) {
	return m.Lookup(p.Name)
}

// ParseParameter turns a raw setting into a parameter: a '$' prefix marks
// an expression, a '#' prefix a message key and anything else a literal.
func ParseParameter(raw string) Parameter {
	trimmed := strings.TrimSpace(raw)
	switch {
	case expr.IsExpression(trimmed):
		return ExpressionParameter{Expression: trimmed}
	case strings.HasPrefix(trimmed, "#") && len(trimmed) > 1:
		return ResourceParameter{Key: trimmed[1:], Default: trimmed[1:]}
	default:
		return LiteralParameter{Value: raw}
	}
}

// NamedParameter pairs a parameter with the name it is sent under.
type NamedParameter struct {
	Name  string
	Value Parameter
}

// ParseParameters converts a raw parameter map into named parameters in
// name order.
func ParseParameters(raw map[string]string) []NamedParameter {
	if len(raw) == 0 {
		return nil
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]NamedParameter, 0, len(names))
	for _, name := range names {
		out = append(out, NamedParameter{Name: name, Value: ParseParameter(raw[name])})
	}
	return out
}
