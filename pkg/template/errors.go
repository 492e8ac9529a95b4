package template

import "errors"

var (
	// ErrBehaviorConflict reports an element claiming more than one primary
	// behavior.
	ErrBehaviorConflict = errors.New("template: conflicting primary behaviors")
	// ErrNoBehavior reports an element without a primary behavior.
	ErrNoBehavior = errors.New("template: element has no primary behavior")
	// ErrMissingTemplate reports a member or inner-template element that does
	// not name its target template.
	ErrMissingTemplate = errors.New("template: element does not name a target template")
	// ErrUnknownTemplate reports a lookup for a template that is not part of
	// the configuration.
	ErrUnknownTemplate = errors.New("template: unknown template")
	// ErrDuplicateElement reports sibling elements sharing a name.
	ErrDuplicateElement = errors.New("template: duplicate element")
	// ErrDuplicateTemplate reports two templates sharing a name.
	ErrDuplicateTemplate = errors.New("template: duplicate template")
	// ErrFrozen reports a mutation after Init.
	ErrFrozen = errors.New("template: template is initialised and read-only")
)
