package render

import (
	"strings"
)

// TemplateFuncsConfig configures the helper functions handed to text
// template engines (snippet properties).
type TemplateFuncsConfig struct {
	// FuncName customizes the translator helper name (defaults to "translate").
	FuncName string
}

// TemplateFuncs returns helpers bound to m, suitable for injecting into a
// template context:
//
//	translate(key, ...args) string
//	current_locale() string
//	url(action, ...name/value pairs) string
func TemplateFuncs(m *Model, cfg TemplateFuncsConfig) map[string]any {
	translateName := strings.TrimSpace(cfg.FuncName)
	if translateName == "" {
		translateName = "translate"
	}

	return map[string]any{
		translateName: func(key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			return m.Message(key, "", params...)
		},
		"current_locale": func() string {
			return m.Locale().String()
		},
		"url": func(action string, pairs ...any) string {
			params := make(map[string]any, len(pairs)/2)
			for i := 0; i+1 < len(pairs); i += 2 {
				if name, ok := pairs[i].(string); ok {
					params[name] = pairs[i+1]
				}
			}
			out, err := m.ActionURL(action, params)
			if err != nil {
				m.Logger().Debug("template url helper failed", "action", action, "error", err)
				return ""
			}
			return out
		},
	}
}
