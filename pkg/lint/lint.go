// Package lint checks resolved store packages for publishing mistakes.
//
// Three rules run on every package that resolved:
//
//   - schema (error): cpak.json must satisfy the embedded descriptor schema
//   - semver (warning): the descriptor version should be a semantic version
//   - icon (warning): icon.svg should exist next to the manifest
//
// A package that did not resolve at all is reported with its resolution
// error and no findings.
package lint

import (
	"context"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/containerpak/cpakstore/pkg/catalog"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule names.
const (
	RuleSchema = "schema"
	RuleSemver = "semver"
	RuleIcon   = "icon"
)

// Finding is one problem with a package.
type Finding struct {
	Severity Severity `json:"severity"`
	Rule     string   `json:"rule"`
	Path     string   `json:"path,omitempty"`
	Message  string   `json:"message"`
}

// Result is the lint outcome of one package.
type Result struct {
	Category string    `json:"category"`
	Origin   string    `json:"origin"`
	Version  string    `json:"version,omitempty"`
	Err      error     `json:"-"`
	Findings []Finding `json:"findings,omitempty"`
}

// Failed reports whether the package did not resolve or has an error finding.
func (r Result) Failed() bool {
	if r.Err != nil {
		return true
	}
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings counts warning findings.
func (r Result) Warnings() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Linter applies the rules. It probes icons through its Prober.
type Linter struct {
	prober catalog.Prober
}

// New creates a Linter.
func New(p catalog.Prober) *Linter {
	return &Linter{prober: p}
}

// Lint checks one report from [catalog.Resolver.Check].
func (l *Linter) Lint(ctx context.Context, rep catalog.PackageReport) Result {
	res := Result{Category: rep.Category, Origin: rep.Origin, Err: rep.Err}
	if rep.Err != nil || rep.Detail == nil {
		return res
	}
	res.Version = rep.Detail.Version

	if raw := rep.Detail.Descriptor.Raw(); raw != nil {
		findings, err := ValidateDescriptor(raw)
		if err != nil {
			findings = []Finding{{Severity: SeverityError, Rule: RuleSchema, Message: err.Error()}}
		}
		res.Findings = append(res.Findings, findings...)
	}
	if f := CheckVersion(rep.Detail.Version); f != nil {
		res.Findings = append(res.Findings, *f)
	}
	if f := l.checkIcon(ctx, rep.Detail.Icon); f != nil {
		res.Findings = append(res.Findings, *f)
	}
	return res
}

// LintAll lints every report, keeping their order.
func (l *Linter) LintAll(ctx context.Context, reports []catalog.PackageReport) []Result {
	results := make([]Result, len(reports))
	for i, rep := range reports {
		results[i] = l.Lint(ctx, rep)
	}
	return results
}

// CheckVersion returns a warning when version is not a semantic version.
// A leading "v" is accepted.
func CheckVersion(version string) *Finding {
	if _, err := semver.NewVersion(strings.TrimPrefix(version, "v")); err != nil {
		return &Finding{
			Severity: SeverityWarning,
			Rule:     RuleSemver,
			Path:     "/version",
			Message:  printer.Sprintf("version %q is not a semantic version", version),
		}
	}
	return nil
}

func (l *Linter) checkIcon(ctx context.Context, iconURL string) *Finding {
	ok, err := l.prober.Head(ctx, iconURL)
	switch {
	case err != nil:
		return &Finding{Severity: SeverityWarning, Rule: RuleIcon, Message: "cannot probe icon: " + err.Error()}
	case !ok:
		return &Finding{Severity: SeverityWarning, Rule: RuleIcon, Message: "missing icon " + iconURL}
	}
	return nil
}
