package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/containerpak/cpakstore/pkg/errors"
	"github.com/containerpak/cpakstore/pkg/lint"
)

// checkResult is the JSON form of a lint result.
type checkResult struct {
	lint.Result
	Error string `json:"error,omitempty"`
}

// checkCommand creates the command that resolves and lints every package.
func (c *CLI) checkCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Resolve and lint every package in the store",
		Long: `Resolve and lint every package in the store.

Unlike 'list', a package that fails to resolve does not stop the others:
every package is reported. Resolved packages are linted against the cpak.json
schema, their version is checked for semantic versioning and their icon is
probed.

The command fails when any package fails to resolve or has an error finding.
With --strict, warnings fail the check too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, strict bool) error {
	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := startSpinner(ctx, "Checking store...")

	reports, err := s.resolver.Check(ctx)
	if err != nil {
		spinner.Fail("Could not read the store index")
		return err
	}
	results := lint.New(s.client).LintAll(ctx, reports)
	spinner.Stop()
	prog.done(fmt.Sprintf("Checked %d packages", len(results)))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	failed, warnings := 0, 0
	for _, r := range results {
		if r.Failed() || (strict && r.Warnings() > 0) {
			failed++
		}
		warnings += r.Warnings()
	}

	if c.jsonOut {
		out := make([]checkResult, len(results))
		for i, r := range results {
			out[i] = checkResult{Result: r}
			if r.Err != nil {
				out[i].Error = r.Err.Error()
			}
		}
		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else {
		printCheckResults(results)
		printNewline()
		printStats(stat{len(results) - failed, "passing package"}, stat{failed, "failing package"}, stat{warnings, "warning"})
	}

	if failed > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%d of %d packages failed the check", failed, len(results))
	}
	if !c.jsonOut {
		printSuccess("All %d packages passed", len(results))
	}
	return nil
}

// printCheckResults prints one line per package with its findings indented.
func printCheckResults(results []lint.Result) {
	for _, r := range results {
		name := r.Category + "/" + r.Origin
		switch {
		case r.Err != nil:
			printError("%s %s", name, StyleDim.Render(errors.UserMessage(r.Err)))
			continue
		case r.Failed():
			printError("%s %s", name, StyleDim.Render(r.Version))
		case r.Warnings() > 0:
			printWarning("%s %s", name, r.Version)
		default:
			printSuccess("%s %s", name, StyleDim.Render(r.Version))
		}
		for _, f := range r.Findings {
			if f.Path != "" {
				printDetail("%s [%s] %s: %s", f.Severity, f.Rule, f.Path, f.Message)
			} else {
				printDetail("%s [%s] %s", f.Severity, f.Rule, f.Message)
			}
		}
	}
}
