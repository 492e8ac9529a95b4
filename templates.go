package talweb

import (
	"fmt"
	"strings"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
)

// AddTemplate initialises and registers templates. Compiled renderers are
// dropped so the next render sees them.
func (e *Engine) AddTemplate(templates ...*template.Template) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range templates {
		if err := e.cfg.Add(t); err != nil {
			return err
		}
	}
	e.invalidate()
	return nil
}

// AddStructTemplate registers a template named name populated from the
// struct v. Nested struct types become templates named after their type
// unless a template of that name exists.
func (e *Engine) AddStructTemplate(name string, v any) error {
	shapes := template.ShapesOf(v)
	if len(shapes) == 0 {
		return fmt.Errorf("talweb: %T is not a struct", v)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = shapes[0].ShapeName()
	}
	if err := e.AddTemplate(template.NewShapedTemplate(name, shapes[0])); err != nil {
		return err
	}
	_, err := e.AddShapes(shapes[1:]...)
	return err
}

// AddShapes registers a shaped template for every shape whose name is not
// taken yet and returns the names it added.
func (e *Engine) AddShapes(shapes ...template.DataShape) ([]string, error) {
	var (
		added     []string
		templates []*template.Template
	)
	for _, shape := range shapes {
		if shape == nil || e.cfg.Has(shape.ShapeName()) {
			continue
		}
		templates = append(templates, template.NewShapedTemplate(shape.ShapeName(), shape))
		added = append(added, shape.ShapeName())
	}
	if len(templates) == 0 {
		return nil, nil
	}
	if err := e.AddTemplate(templates...); err != nil {
		return nil, err
	}
	return added, nil
}

// AddFormTemplate builds and registers a form template.
func (e *Engine) AddFormTemplate(spec template.FormSpec) error {
	form, err := template.FormTemplate(spec)
	if err != nil {
		return err
	}
	return e.AddTemplate(form)
}

// AddTableTemplate builds and registers a table template and its row
// template.
func (e *Engine) AddTableTemplate(spec template.TableSpec) error {
	templates, err := template.TableTemplate(spec)
	if err != nil {
		return err
	}
	return e.AddTemplate(templates...)
}
