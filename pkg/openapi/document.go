package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrEmptyDocument reports a document without content.
var ErrEmptyDocument = errors.New("openapi: document is empty")

// Document is a raw OpenAPI payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument wraps raw, which must not be empty.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if len(raw) == 0 {
		return Document{}, fmt.Errorf("%w: %s", ErrEmptyDocument, src.Location())
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin of the document.
func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte { return append([]byte(nil), d.raw...) }

// Location returns the origin's location, or "".
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Load reads the document src names. fsys serves SourceKindFS sources and
// may be nil otherwise.
func Load(ctx context.Context, fsys fs.FS, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("openapi: source is required")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = os.ReadFile(src.Location())
	case SourceKindFS:
		if fsys == nil {
			return Document{}, errors.New("openapi: filesystem is not configured")
		}
		data, err = fs.ReadFile(fsys, src.Location())
	default:
		err = fmt.Errorf("openapi: unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("openapi: read %s: %w", src.Location(), err)
	}
	return NewDocument(src, data)
}
