package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	t.Parallel()

	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.CSRFToken("_csrf", "token123"),
		render.VersionField("version", 4),
		render.Hidden("  ", "skip"),
		render.Hidden("existing", "override"),
	)

	wantMerged := map[string]string{
		"existing": "override",
		"_csrf":    "token123",
		"version":  "4",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "existing", Value: "override"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestModelHiddenFields(t *testing.T) {
	t.Parallel()

	m := render.NewModel(nil, nil,
		render.WithHiddenFields(render.CSRFToken("_csrf", "abc")),
		render.WithHiddenFields(render.VersionField("version", 2)),
	)
	want := []render.HiddenField{
		{Name: "_csrf", Value: "abc"},
		{Name: "version", Value: "2"},
	}
	if diff := cmp.Diff(want, m.HiddenFields()); diff != "" {
		t.Fatalf("model hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedHiddenFieldsEmpty(t *testing.T) {
	t.Parallel()

	if got := render.SortedHiddenFields(map[string]string{" ": "x"}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
