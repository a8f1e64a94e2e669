package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/containerpak/cpakstore/pkg/catalog"
)

// browseCommand creates the interactive store browser.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the store interactively",
		Long: `Browse the store interactively.

Pick a category to load its packages, then pick a package to print it in
full. Press esc to go back and q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd)
		},
	}
}

func (c *CLI) runBrowse(cmd *cobra.Command) error {
	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	spinner := startSpinner(ctx, "Resolving categories...")
	cats, err := s.resolver.ListCategories(ctx)
	if err != nil {
		spinner.Fail("Could not resolve categories")
		return err
	}
	spinner.Stop()

	load := func(category string) ([]catalog.Package, error) {
		return s.resolver.ListCategory(ctx, category)
	}

	p := tea.NewProgram(NewBrowseModel(cats, load), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("run browser: %w", err)
	}

	m, ok := final.(BrowseModel)
	if !ok || m.Selected == nil {
		return nil
	}

	detail, err := c.resolveDetail(ctx, s, m.Category, m.Selected.Origin)
	if err != nil {
		return err
	}
	if c.jsonOut {
		return writeJSON(cmd.OutOrStdout(), detail)
	}
	printPackage(detail)
	return nil
}
