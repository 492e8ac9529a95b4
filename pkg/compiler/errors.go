package compiler

import (
	"errors"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

var (
	// ErrConfiguration marks every compile failure caused by the template
	// configuration rather than by the data.
	ErrConfiguration = errors.New("compiler: configuration error")
	// ErrNoMold reports an element no registered mold accepts.
	ErrNoMold = errors.New("compiler: no mold for element")
	// ErrBehaviorConflict reports an element claiming more than one primary
	// behavior.
	ErrBehaviorConflict = template.ErrBehaviorConflict
	// ErrMissingSetting reports a fragment that needs a setting the element
	// does not carry.
	ErrMissingSetting = errors.New("compiler: required setting missing")
)

// ConfigError wraps err with ErrConfiguration unless it already carries it.
func ConfigError(err error) error {
	if err == nil || errors.Is(err, ErrConfiguration) {
		return err
	}
	return &configError{err: err}
}

type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }

func (e *configError) Unwrap() []error { return []error{ErrConfiguration, e.err} }
