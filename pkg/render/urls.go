package render

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// URLGenerator builds the target address of an action. The shape of the
// result is environment specific.
type URLGenerator interface {
	ActionURL(namespace, action string, params map[string]any) (string, error)
}

// URLGeneratorFunc adapts a function into a URLGenerator.
type URLGeneratorFunc func(namespace, action string, params map[string]any) (string, error)

// ActionURL calls the function.
func (fn URLGeneratorFunc) ActionURL(namespace, action string, params map[string]any) (string, error) {
	return fn(namespace, action, params)
}

// PathURLGenerator joins Base, the namespace and the action into a path and
// appends parameters as a sorted query string.
type PathURLGenerator struct {
	Base string
}

var _ URLGenerator = PathURLGenerator{}

// ActionURL builds "<base>/<namespace>/<action>?k=v". Slashes in action
// separate path segments.
func (g PathURLGenerator) ActionURL(namespace, action string, params map[string]any) (string, error) {
	action = strings.Trim(strings.TrimSpace(action), "/")
	if action == "" {
		return "", fmt.Errorf("render: action is required")
	}
	segments := []string{strings.TrimRight(g.Base, "/")}
	if ns := strings.Trim(namespace, "/"); ns != "" {
		segments = append(segments, url.PathEscape(ns))
	}
	for _, part := range strings.Split(action, "/") {
		segments = append(segments, url.PathEscape(part))
	}
	path := strings.Join(segments, "/")
	if !strings.HasPrefix(path, "/") && !strings.Contains(path, "://") {
		path = "/" + path
	}
	if len(params) == 0 {
		return path, nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	query := url.Values{}
	for _, k := range keys {
		if params[k] == nil {
			continue
		}
		query.Add(k, fmt.Sprint(params[k]))
	}
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return path, nil
}
