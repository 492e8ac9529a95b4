package testsupport

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RenderString renders r against attrs and returns the output, failing the
// test on error.
func RenderString(t *testing.T, r render.Renderer, attrs map[string]any, opts ...render.ModelOption) string {
	t.Helper()

	var buf bytes.Buffer
	opts = append([]render.ModelOption{render.WithLogger(DiscardLogger())}, opts...)
	if err := render.RenderTo(&buf, r, attrs, opts...); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
