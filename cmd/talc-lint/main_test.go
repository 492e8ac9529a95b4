package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/thegaffer/tal-web-sub003/pkg/testsupport"
)

func TestLintFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	doc := "openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\ncomponents:\n  schemas:\n    A:\n      type: object\n      properties:\n        b: {type: string, x-tal-kind: nope}\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := lintFile(testsupport.Context(), path)
	if err != nil {
		t.Fatalf("lint: %v", err)
	}
	if len(got) != 1 || got[0].file != path || got[0].Location != "schemas > A > properties > b" {
		t.Fatalf("unexpected violations %+v", got)
	}

	if _, err := lintFile(testsupport.Context(), filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatalf("expected a read error")
	}
}

func TestCheckConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	site := "root: page\ntemplates:\n  - name: page\n    elements:\n      - name: score\n        type: number-prop\n        min: 5\n        max: 1\n"
	if err := os.WriteFile(path, []byte(site), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := checkConfig(testsupport.Context(), path)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(got) != 1 || got[0].Location != "page > score" || got[0].Message != "minimum is greater than maximum" {
		t.Fatalf("unexpected violations %+v", got)
	}
}
