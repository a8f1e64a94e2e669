package cli

import (
	"strings"
	"testing"

	"github.com/containerpak/cpakstore/pkg/catalog"
	cerrors "github.com/containerpak/cpakstore/pkg/errors"
	"github.com/containerpak/cpakstore/pkg/lint"
)

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"development":     "Development",
		"developer-tools": "Developer Tools",
		"office_suite":    "Office Suite",
		"Games":           "Games",
	}
	for in, want := range tests {
		if got := displayName(in); got != want {
			t.Errorf("displayName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a longer description", 8, "a longe…"},
		{"äöüäöü", 4, "äöü…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		noun string
		want string
	}{
		{1, "category", "category"},
		{2, "category", "categories"},
		{0, "package", "packages"},
		{1, "warning", "warning"},
	}
	for _, tt := range tests {
		if got := plural(tt.n, tt.noun); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.noun, got, tt.want)
		}
	}
}

func TestRenderCategoryTable(t *testing.T) {
	out := renderCategoryTable([]catalog.CategorySummary{
		{Name: "development", Count: 12, Color: "#336699", Layout: catalog.SlotFor(0)},
		{Name: "games", Count: 0, Layout: catalog.SlotFor(1)},
	})

	for _, want := range []string{"Category", "Development", "12", "Games", "col-span-2 row-span-2", "#336699"} {
		if !strings.Contains(out, want) {
			t.Errorf("category table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderPackageTable(t *testing.T) {
	long := strings.Repeat("word ", 30)
	out := renderPackageTable([]catalog.Package{
		{Name: "Helix", Version: "1.2.0", Origin: "github.com/helix/helix", Description: "A\nmodal   editor"},
		{Name: "Long", Version: "0.1", Origin: "github.com/a/long", Description: long},
	})

	for _, want := range []string{"Helix", "1.2.0", "github.com/helix/helix", "A modal editor", "…"} {
		if !strings.Contains(out, want) {
			t.Errorf("package table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, long) {
		t.Error("long descriptions should be truncated")
	}
}

// captureStdout redirects status output for the duration of the test.
func captureStdout(t *testing.T) *strings.Builder {
	t.Helper()
	var b strings.Builder
	prev := stdout
	stdout = &b
	t.Cleanup(func() { stdout = prev })
	return &b
}

func TestPrintStats(t *testing.T) {
	out := captureStdout(t)

	printStats(stat{12, "category"}, stat{0, "warning"}, stat{1, "package"})
	printStats(stat{0, "package"})

	got := strings.TrimSpace(out.String())
	if got != "12 categories · 1 package" {
		t.Errorf("printStats() = %q", got)
	}
}

func TestPrintCheckResults(t *testing.T) {
	out := captureStdout(t)

	printCheckResults([]lint.Result{
		{Category: "dev", Origin: "github.com/a/ok", Version: "1.0.0"},
		{Category: "dev", Origin: "github.com/a/warn", Version: "nightly", Findings: []lint.Finding{
			{Severity: lint.SeverityWarning, Rule: lint.RuleSemver, Message: "not a semantic version"},
		}},
		{Category: "dev", Origin: "github.com/a/bad", Err: cerrors.New(cerrors.ErrCodeMissingReference, "manifest has no reference")},
	})

	got := out.String()
	for _, want := range []string{
		"✓ dev/github.com/a/ok 1.0.0",
		"dev/github.com/a/warn nightly",
		"warning [semver] not a semantic version",
		"✗ dev/github.com/a/bad manifest has no reference",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("check output missing %q:\n%s", want, got)
		}
	}
}
