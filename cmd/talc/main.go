package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	talweb "github.com/thegaffer/tal-web-sub003"
	"github.com/thegaffer/tal-web-sub003/pkg/config"
)

type options struct {
	config      string
	data        string
	target      string
	template    string
	output      string
	openapi     string
	locale      string
	verbose     bool
	interactive bool
}

// chooser asks the user to pick one of options.
type chooser func(message string, options []string, def string) (string, error)

func main() {
	var opts options
	flag.StringVar(&opts.config, "config", "talweb.yaml", "engine configuration (JSON or YAML)")
	flag.StringVar(&opts.data, "data", "", "render data file, JSON or YAML (empty renders without data)")
	flag.StringVar(&opts.target, "target", "", "render target (defaults to the first configured target)")
	flag.StringVar(&opts.template, "template", "", "template to render instead of the configured root")
	flag.StringVar(&opts.output, "output", "", "output file (stdout if empty)")
	flag.StringVar(&opts.openapi, "openapi", "", "OpenAPI document, relative to the configuration, supplying data shapes")
	flag.StringVar(&opts.locale, "locale", "", "render locale (overrides the configuration)")
	flag.BoolVar(&opts.verbose, "verbose", false, "log compilation details")
	flag.BoolVar(&opts.interactive, "interactive", false, "prompt for the template and target when not given")
	flag.Parse()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var ask chooser
	if opts.interactive {
		ask = surveyChooser
	}

	out, err := run(context.Background(), opts, logger, ask)
	if err != nil {
		log.Fatalf("talc: %v", err)
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", opts.output)
		return
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func run(ctx context.Context, opts options, logger *slog.Logger, ask chooser) ([]byte, error) {
	if strings.TrimSpace(opts.config) == "" {
		return nil, errors.New("a configuration file is required")
	}
	dir, name := filepath.Split(opts.config)
	if dir == "" {
		dir = "."
	}
	fsys := os.DirFS(dir)

	cfg, err := config.LoadFS(fsys, name)
	if err != nil {
		return nil, err
	}
	if opts.openapi != "" {
		cfg.OpenAPI = filepath.ToSlash(opts.openapi)
	}
	if opts.locale != "" {
		if _, err := language.Parse(opts.locale); err != nil {
			return nil, fmt.Errorf("%w %q: %v", config.ErrLocale, opts.locale, err)
		}
		cfg.Locale = opts.locale
	}

	engine, err := talweb.NewFromConfig(ctx, fsys, cfg, talweb.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	tmpl := opts.template
	if tmpl == "" && ask != nil {
		if tmpl, err = ask("Template to render", engine.Configuration().Names(), engine.Root()); err != nil {
			return nil, err
		}
	}
	if tmpl != "" {
		if !engine.Configuration().Has(tmpl) {
			return nil, fmt.Errorf("unknown template %q", tmpl)
		}
		engine.SetRoot(tmpl)
	}

	target := opts.target
	if target == "" && ask != nil && len(cfg.Targets) > 1 {
		if target, err = ask("Render target", cfg.Targets, cfg.Targets[0]); err != nil {
			return nil, err
		}
	}
	if target == "" {
		target = cfg.Targets[0]
	}

	data, err := readData(opts.data)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := engine.Render(target, &buf, data); err != nil {
		return nil, err
	}
	logger.Info("rendered", "template", engine.Root(), "target", target, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func readData(path string) (map[string]any, error) {
	data := make(map[string]any)
	if strings.TrimSpace(path) == "" {
		return data, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	if err := decodeData(raw, filepath.Ext(path), &data); err != nil {
		return nil, fmt.Errorf("decode data %s: %w", path, err)
	}
	return data, nil
}

func decodeData(raw []byte, ext string, out *map[string]any) error {
	if strings.EqualFold(ext, ".json") {
		return json.Unmarshal(raw, out)
	}
	return yaml.Unmarshal(raw, out)
}

func surveyChooser(message string, options []string, def string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("nothing to choose for %q", message)
	}
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	for _, option := range options {
		if option == def {
			prompt.Default = def
			break
		}
	}
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}
