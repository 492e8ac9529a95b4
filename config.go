package talweb

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/thegaffer/tal-web-sub003/pkg/config"
	"github.com/thegaffer/tal-web-sub003/pkg/i18n"
	"github.com/thegaffer/tal-web-sub003/pkg/openapi"
	"github.com/thegaffer/tal-web-sub003/pkg/render"
	"github.com/thegaffer/tal-web-sub003/pkg/targets/markup"
	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// NewFromConfig builds an engine from a loaded configuration. Paths in cfg
// (messages, openapi) are resolved against fsys. Only the targets cfg lists
// are available; opts are applied after the configuration.
func NewFromConfig(ctx context.Context, fsys fs.FS, cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("talweb: configuration is required")
	}

	base := []Option{
		WithLocale(cfg.LocaleTag()),
		WithNamespace(cfg.Namespace),
		WithModelOptions(render.WithURLGenerator(render.PathURLGenerator{Base: cfg.URLBase})),
	}
	builtin := Targets()
	e := New(cfg.Root, append(base, opts...)...)
	e.factories = make(map[string]CompilerFactory, len(cfg.Targets))
	for _, target := range cfg.Targets {
		factory, ok := builtin[target]
		if !ok {
			return nil, fmt.Errorf("%w: %q (config %s)", ErrUnknownTarget, target, cfg.Source)
		}
		e.factories[target] = factory
		if styles := cfg.StylesFor(target); len(styles) > 0 {
			e.styles[target] = append(append([]string(nil), styles...), e.styles[target]...)
		}
	}

	if cfg.Messages != "" {
		bundle, err := i18n.LoadFS(fsys, cfg.Messages, i18n.WithFallback(cfg.LocaleTag()))
		if err != nil {
			return nil, err
		}
		e.modelOpts = append([]render.ModelOption{render.WithTranslator(bundle)}, e.modelOpts...)
	}
	if manifest := cfg.Manifest(); manifest != nil {
		selector, err := markup.NewStaticSelector(manifest)
		if err != nil {
			return nil, err
		}
		th, err := markup.SelectTheme(selector.WithDefaultVariant(cfg.Theme.Variant), "", "")
		if err != nil {
			return nil, err
		}
		e.modelOpts = append([]render.ModelOption{render.WithTheme(th)}, e.modelOpts...)
	}

	var shapes []template.DataShape
	if cfg.OpenAPI != "" {
		loaded, err := LoadShapes(ctx, fsys, cfg.OpenAPI)
		if err != nil {
			return nil, err
		}
		shapes = loaded
	}
	templates, err := cfg.BuildTemplates(config.ShapeMap(openapi.ShapeMap(shapes)))
	if err != nil {
		return nil, err
	}
	if err := e.AddTemplate(templates...); err != nil {
		return nil, err
	}
	// schemas no declared template claims become templates of their own
	used := make(map[string]struct{}, len(cfg.Templates))
	for _, decl := range cfg.Templates {
		used[decl.Shape] = struct{}{}
	}
	free := make([]template.DataShape, 0, len(shapes))
	for _, shape := range shapes {
		if _, ok := used[shape.ShapeName()]; !ok {
			free = append(free, shape)
		}
	}
	added, err := e.AddShapes(free...)
	if err != nil {
		return nil, err
	}
	e.logger.Info("engine configured",
		"config", cfg.Source,
		"root", cfg.Root,
		"templates", len(templates)+len(added),
		"targets", cfg.Targets,
	)
	return e, nil
}

// LoadConfig reads a configuration from fsys and builds its engine.
func LoadConfig(ctx context.Context, fsys fs.FS, path string, opts ...Option) (*Engine, error) {
	cfg, err := config.LoadFS(fsys, path)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(ctx, fsys, cfg, opts...)
}

// LoadShapes reads the OpenAPI document at path in fsys and returns its
// component schemas as data shapes.
func LoadShapes(ctx context.Context, fsys fs.FS, path string) ([]template.DataShape, error) {
	doc, err := openapi.Load(ctx, fsys, openapi.SourceFromFS(path))
	if err != nil {
		return nil, err
	}
	return openapi.Shapes(ctx, doc)
}
