package lint

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/containerpak/cpakstore/pkg/catalog"
)

type prober struct {
	found map[string]bool
	err   error
}

func (p prober) Head(_ context.Context, url string) (bool, error) {
	return p.found[url], p.err
}

const iconURL = "https://store.test/apps/tool/icon.svg"

func report(t *testing.T, raw string) catalog.PackageReport {
	t.Helper()
	var d catalog.Descriptor
	require.NoError(t, json.Unmarshal([]byte(raw), &d))
	return catalog.PackageReport{
		Category: "Utilities",
		Origin:   "gh/o/tool",
		Detail: &catalog.PackageDetail{
			Package:    catalog.Package{Origin: "gh/o/tool", Version: d.Version, Icon: iconURL},
			Descriptor: &d,
		},
	}
}

func TestValidateDescriptor(t *testing.T) {
	findings, err := ValidateDescriptor([]byte(`{"version": "1.0.0", "image": "alpine:latest", "binaries": ["/usr/bin/x"]}`))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestValidateDescriptorViolations(t *testing.T) {
	findings, err := ValidateDescriptor([]byte(`{"version": "1.0.0", "binaries": "not-a-list", "override": {"net": "yes"}}`))
	require.NoError(t, err)
	require.NotEmpty(t, findings)

	paths := map[string]bool{}
	for _, f := range findings {
		assert.Equal(t, SeverityError, f.Severity)
		assert.Equal(t, RuleSchema, f.Rule)
		assert.NotEmpty(t, f.Message)
		paths[f.Path] = true
	}
	assert.True(t, paths["/binaries"], "findings: %+v", findings)
	assert.True(t, paths["/override/net"], "findings: %+v", findings)
}

func TestValidateDescriptorNotJSON(t *testing.T) {
	_, err := ValidateDescriptor([]byte(`{broken`))
	assert.Error(t, err)
}

func TestCheckVersion(t *testing.T) {
	for _, v := range []string{"1.0.0", "v2.3.4", "1.2", "0.1.0-beta.1"} {
		assert.Nil(t, CheckVersion(v), "version %q", v)
	}
	for _, v := range []string{"", "latest", "one.two"} {
		f := CheckVersion(v)
		require.NotNil(t, f, "version %q", v)
		assert.Equal(t, SeverityWarning, f.Severity)
		assert.Equal(t, RuleSemver, f.Rule)
	}
}

func TestLintClean(t *testing.T) {
	l := New(prober{found: map[string]bool{iconURL: true}})
	res := l.Lint(context.Background(), report(t, `{"version": "1.0.0", "image": "alpine"}`))

	assert.False(t, res.Failed())
	assert.Empty(t, res.Findings)
	assert.Equal(t, "1.0.0", res.Version)
}

func TestLintWarnings(t *testing.T) {
	l := New(prober{})
	res := l.Lint(context.Background(), report(t, `{"version": "nightly", "image": "alpine"}`))

	assert.False(t, res.Failed())
	assert.Equal(t, 2, res.Warnings())
	rules := []string{res.Findings[0].Rule, res.Findings[1].Rule}
	assert.ElementsMatch(t, []string{RuleSemver, RuleIcon}, rules)
}

func TestLintIconProbeFailure(t *testing.T) {
	l := New(prober{err: errors.New("connection refused")})
	res := l.Lint(context.Background(), report(t, `{"version": "1.0.0", "image": "alpine"}`))

	require.Len(t, res.Findings, 1)
	assert.Equal(t, RuleIcon, res.Findings[0].Rule)
	assert.Contains(t, res.Findings[0].Message, "connection refused")
}

func TestLintSchemaError(t *testing.T) {
	l := New(prober{found: map[string]bool{iconURL: true}})
	res := l.Lint(context.Background(), report(t, `{"version": "1.0.0"}`))

	assert.True(t, res.Failed())
	require.NotEmpty(t, res.Findings)
	assert.Equal(t, RuleSchema, res.Findings[0].Rule)
}

func TestLintUnresolved(t *testing.T) {
	l := New(prober{})
	rep := catalog.PackageReport{Category: "Games", Origin: "gh/x/y", Err: errors.New("boom")}
	res := l.Lint(context.Background(), rep)

	assert.True(t, res.Failed())
	assert.Empty(t, res.Findings)

	all := l.LintAll(context.Background(), []catalog.PackageReport{rep, report(t, `{"version": "1.0.0", "image": "a"}`)})
	require.Len(t, all, 2)
	assert.Equal(t, "gh/x/y", all[0].Origin)
	assert.Equal(t, "gh/o/tool", all[1].Origin)
}
