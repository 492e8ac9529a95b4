// Package validation checks template configurations ahead of compilation
// and reports every problem it finds, where compiling stops at the first.
package validation

import (
	"strings"

	"github.com/ncruces/go-strftime"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// Issue is one problem found in a configuration.
type Issue struct {
	Template string `json:"template"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
}

// String formats the issue as "template.field: message".
func (i Issue) String() string {
	loc := i.Template
	if i.Field != "" {
		loc += "." + i.Field
	}
	return loc + ": " + i.Message
}

// Result captures validation outcomes.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Check validates every template of cfg in name order.
func Check(cfg *template.Configuration) Result {
	result := Result{Valid: true}
	if cfg == nil {
		return result.add(Issue{Message: "configuration is required"})
	}
	if root := cfg.Root(); root != "" && !cfg.Has(root) {
		result = result.add(Issue{Template: root, Message: "root template is not defined"})
	}
	for _, name := range cfg.Names() {
		t, err := cfg.Template(name)
		if err != nil {
			continue
		}
		for _, issue := range checkElements(cfg, t, "", t.Elements, false) {
			result = result.add(issue)
		}
	}
	return result
}

func (r Result) add(issue Issue) Result {
	r.Valid = false
	r.Issues = append(r.Issues, issue)
	return r
}

func checkElements(cfg *template.Configuration, t *template.Template, prefix string, elements []*template.Element, inForm bool) []Issue {
	var out []Issue
	for _, e := range elements {
		field := strings.TrimPrefix(prefix+"."+e.Name, ".")
		issue := func(message string) {
			out = append(out, Issue{Template: t.Name, Field: field, Message: message})
		}

		if e.Member != nil && e.Member.Template != "" && !cfg.Has(e.Member.Template) {
			issue("member template " + quote(e.Member.Template) + " is not defined")
		}
		if e.Inner != "" && !cfg.Has(e.Inner) {
			issue("inner template " + quote(e.Inner) + " is not defined")
		}
		if e.Type == template.TypeFormGroup {
			if strings.TrimSpace(e.SettingOr("action", "")) == "" {
				issue("form has no action")
			}
			if inForm {
				issue("forms cannot be nested")
			}
		}
		if e.Type == template.TypeGridGroup && strings.TrimSpace(e.SettingOr("headings", "")) == "" {
			issue("table has no headings")
		}
		if e.Command != nil && strings.TrimSpace(e.Command.Action) == "" && !inForm {
			issue("command has no action")
		}
		if n := e.Number; n != nil && n.Min != nil && n.Max != nil && *n.Min > *n.Max {
			issue("minimum is greater than maximum")
		}
		if c := e.Coded; c != nil && len(c.Codes) == 0 && !c.Unbounded && !c.Dynamic {
			issue("choice has no codes")
		}
		if d := e.Date; d != nil {
			for _, pattern := range []string{d.DatePattern, d.TimePattern} {
				if pattern == "" {
					continue
				}
				if _, err := strftime.Layout(pattern); err != nil {
					issue("unsupported date pattern " + quote(pattern))
				}
			}
		}
		if e.Resource != nil && strings.TrimSpace(e.Resource.Key) == "" {
			issue("resource has no key")
		}

		out = append(out, checkElements(cfg, t, field, e.Children, inForm || e.Type == template.TypeFormGroup)...)
	}
	return out
}

func quote(s string) string { return `"` + s + `"` }
