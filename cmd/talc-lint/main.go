package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	talweb "github.com/thegaffer/tal-web-sub003"
	"github.com/thegaffer/tal-web-sub003/pkg/openapi"
	"github.com/thegaffer/tal-web-sub003/pkg/validation"
)

type violation struct {
	file string
	openapi.Violation
}

func main() {
	configPath := flag.String("config", "", "engine configuration whose templates are checked as well")
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-config site.yaml] [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint OpenAPI documents for unsupported x-tal schema extensions and check template configurations.\n"); err != nil {
			panic(err)
		}
		flag.PrintDefaults()
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 && *configPath == "" {
		paths = []string{"examples/people/api.yaml"}
	}

	ctx := context.Background()
	var violations []violation
	if *configPath != "" {
		checked, err := checkConfig(ctx, *configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check %s: %v\n", *configPath, err)
			os.Exit(1)
		}
		violations = append(violations, checked...)
	}
	for _, path := range paths {
		linted, err := lintFile(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s\n", v.file, v.Violation)
		}
		os.Exit(1)
	}
}

func lintFile(ctx context.Context, path string) ([]violation, error) {
	doc, err := openapi.Load(ctx, nil, openapi.SourceFromFile(path))
	if err != nil {
		return nil, err
	}
	found, err := openapi.Lint(ctx, doc)
	if err != nil {
		return nil, err
	}
	out := make([]violation, 0, len(found))
	for _, v := range found {
		out = append(out, violation{file: path, Violation: v})
	}
	return out, nil
}

func checkConfig(ctx context.Context, path string) ([]violation, error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	engine, err := talweb.LoadConfig(ctx, os.DirFS(dir), name, talweb.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err != nil {
		return nil, err
	}
	result := validation.Check(engine.Configuration())
	out := make([]violation, 0, len(result.Issues))
	for _, issue := range result.Issues {
		loc := issue.Template
		if issue.Field != "" {
			loc += " > " + strings.ReplaceAll(issue.Field, ".", " > ")
		}
		out = append(out, violation{file: path, Violation: openapi.Violation{Location: loc, Message: issue.Message}})
	}
	return out, nil
}
