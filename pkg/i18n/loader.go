package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS reads message files below dir. Files are named
// messages.<locale>.{yaml,yml,json}; a plain messages.<ext> holds root
// messages. Nested keys are flattened with dots.
func LoadFS(fsys fs.FS, dir string, opts ...Option) (*Bundle, error) {
	bundle := NewBundle(opts...)
	if fsys == nil {
		return bundle, nil
	}
	if dir = strings.Trim(strings.TrimSpace(dir), "/"); dir == "" {
		dir = "."
	}

	err := fs.WalkDir(fsys, dir, func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		locale, ok := messageLocale(path.Base(p))
		if !ok {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", p, err)
		}
		tree, err := parseMessages(data, p)
		if err != nil {
			return err
		}
		if err := bundle.AddTree(locale, tree); err != nil {
			return fmt.Errorf("i18n: %s: %w", p, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

func messageLocale(name string) (string, bool) {
	ext := path.Ext(name)
	switch ext {
	case ".yaml", ".yml", ".json":
	default:
		return "", false
	}
	stem := strings.TrimSuffix(name, ext)
	if stem == "messages" {
		return "", true
	}
	locale, ok := strings.CutPrefix(stem, "messages.")
	if !ok || locale == "" {
		return "", false
	}
	return locale, true
}

func parseMessages(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return map[string]any{}, nil
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err == nil {
		return tree, nil
	}
	tree = nil
	if err := yaml.Unmarshal(data, &tree); err == nil {
		return tree, nil
	}
	return nil, fmt.Errorf("i18n: parse %s: invalid JSON or YAML", source)
}
