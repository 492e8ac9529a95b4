package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thegaffer/tal-web-sub003/pkg/template"
	"github.com/thegaffer/tal-web-sub003/pkg/validation"
)

func TestCheck_Valid(t *testing.T) {
	t.Parallel()

	cfg := template.MustConfiguration("page",
		template.NewTemplate("page",
			template.NewNumberProperty("score", template.WithRange(0, 10)),
			template.NewDateProperty("born", template.WithDatePattern("%d/%m/%Y", "")),
			template.NewMember("tags", "tag", template.MemberCollection),
		),
		template.NewTemplate("tag", template.NewProperty("label")),
	)
	if result := validation.Check(cfg); !result.Valid {
		t.Fatalf("expected a valid configuration: %v", result.Issues)
	}
}

func TestCheck_ReportsEveryIssue(t *testing.T) {
	t.Parallel()

	cfg := template.MustConfiguration("missing",
		template.NewTemplate("page",
			template.NewNumberProperty("score", template.WithRange(10, 1)),
			template.NewDateProperty("born", template.WithDatePattern("%Q", "")),
			template.NewChoiceProperty("status", nil),
			template.NewMember("tags", "tag", template.MemberCollection),
			template.New("form", template.TypeFormGroup,
				template.WithChildren(template.New("inner", template.TypeFormGroup, template.WithSetting("action", "x"))),
			),
			template.New("grid", template.TypeGridGroup),
		),
	)
	result := validation.Check(cfg)
	if result.Valid {
		t.Fatalf("expected issues")
	}

	var got []string
	for _, issue := range result.Issues {
		got = append(got, issue.String())
	}
	want := []string{
		"missing: root template is not defined",
		"page.score: minimum is greater than maximum",
		`page.born: unsupported date pattern "%Q"`,
		"page.status: choice has no codes",
		`page.tags: member template "tag" is not defined`,
		"page.form: form has no action",
		"page.form.inner: forms cannot be nested",
		"page.grid: table has no headings",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck_NilConfiguration(t *testing.T) {
	t.Parallel()

	if result := validation.Check(nil); result.Valid || len(result.Issues) != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
}
