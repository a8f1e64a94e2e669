package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/containerpak/cpakstore/pkg/catalog"
	"github.com/containerpak/cpakstore/pkg/errors"
)

// descriptionWidth caps the description column of package tables.
const descriptionWidth = 60

// categoriesCommand creates the command printing the store overview.
func (c *CLI) categoriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List store categories with their package counts",
		Long: `List store categories with their package counts.

Categories are ordered by descending package count. Categories declared in
the metadata but absent from the index are listed with zero packages.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCategories(cmd)
		},
	}
}

func (c *CLI) runCategories(cmd *cobra.Command) error {
	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := startSpinner(ctx, "Resolving categories...")

	cats, err := s.resolver.ListCategories(ctx)
	if err != nil {
		spinner.Fail("Could not resolve categories")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Resolved %d categories", len(cats)))

	if c.jsonOut {
		return writeJSON(cmd.OutOrStdout(), cats)
	}

	total := 0
	for _, cat := range cats {
		total += cat.Count
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCategoryTable(cats))
	printStats(stat{len(cats), "category"}, stat{total, "package"})
	printCacheMode(c.config().Cache)
	if len(cats) > 0 {
		printNewline()
		printNextStep("List packages", appName+" list "+cats[0].Name)
	}
	return nil
}

// listCommand creates the command printing one category.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <category>",
		Short: "List the packages of a category",
		Long: `List the packages of a category.

Every package of the category is resolved from its manifest and upstream
descriptor. The listing fails as a whole if any package cannot be resolved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd, args[0])
		},
	}
}

func (c *CLI) runList(cmd *cobra.Command, category string) error {
	if err := errors.ValidateCategory(category); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	spinner := startSpinner(ctx, fmt.Sprintf("Resolving %s...", category))

	pkgs, err := s.resolver.ListCategory(ctx, category)
	if err != nil {
		spinner.Fail("Could not list " + category)
		return err
	}
	spinner.Stop()

	if c.jsonOut {
		return writeJSON(cmd.OutOrStdout(), pkgs)
	}

	fmt.Fprintln(cmd.OutOrStdout(), StyleTitle.Render(displayName(category)))
	fmt.Fprintln(cmd.OutOrStdout(), renderPackageTable(pkgs))
	printStats(stat{len(pkgs), "package"})
	if len(pkgs) > 0 {
		printNewline()
		printNextStep("Show details", fmt.Sprintf("%s show %s %s", appName, category, pkgs[0].Origin))
	}
	return nil
}

// showCommand creates the command printing one package in full.
func (c *CLI) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <category> <origin>",
		Short: "Show a package with its descriptor and media",
		Long: `Show a package with its descriptor and media.

The origin is the package's upstream repository in the form
"github.com/<owner>/<repo>". Screenshots and the showcase clip are located
by probing the manifest's directory.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShow(cmd, args[0], args[1])
		},
	}
}

func (c *CLI) runShow(cmd *cobra.Command, category, origin string) error {
	if err := errors.ValidateCategory(category); err != nil {
		return err
	}
	if err := errors.ValidateOrigin(origin); err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := c.newSession(ctx)
	if err != nil {
		return fmt.Errorf("initialize session: %w", err)
	}
	defer s.Close()

	detail, err := c.resolveDetail(ctx, s, category, origin)
	if err != nil {
		return err
	}

	if c.jsonOut {
		return writeJSON(cmd.OutOrStdout(), detail)
	}

	printPackage(detail)
	return nil
}

// printPackage prints a resolved package as labeled lines.
func printPackage(detail *catalog.PackageDetail) {
	printSuccess("%s", StyleTitle.Render(detail.Name))
	printKeyValue("Origin", detail.Origin)
	printKeyValue("Version", detail.Version)
	printKeyValue("Description", detail.Description)
	printKeyValue("Icon", StyleLink.Render(detail.Icon))
	printKeyValue("Manifest", StyleLink.Render(detail.Manifest))
	printKeyValue("Descriptor", StyleLink.Render(detail.DescriptorURL))
	if detail.Showcase != "" {
		printKeyValue("Showcase", StyleLink.Render(detail.Showcase))
	}
	if len(detail.Screenshots) == 0 {
		printKeyValue("Screenshots", StyleDim.Render("none"))
	}
	for i, shot := range detail.Screenshots {
		label := ""
		if i == 0 {
			label = "Screenshots"
		}
		printKeyValue(label, StyleLink.Render(shot))
	}
}

func (c *CLI) resolveDetail(ctx context.Context, s *session, category, origin string) (*catalog.PackageDetail, error) {
	spinner := startSpinner(ctx, "Resolving "+origin+"...")

	detail, err := s.resolver.Package(ctx, category, origin)
	if err != nil {
		spinner.Fail("Could not resolve " + origin)
		return nil, err
	}
	spinner.Stop()
	return detail, nil
}

// =============================================================================
// Tables
// =============================================================================

var tableHeaderStyle = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// renderCategoryTable renders the store overview.
func renderCategoryTable(cats []catalog.CategorySummary) string {
	rows := make([][]string, 0, len(cats))
	for _, cat := range cats {
		rows = append(rows, []string{
			displayName(cat.Name),
			strconv.Itoa(cat.Count),
			cat.Layout.Class(),
			cat.Color,
		})
	}

	return newTable("Category", "Packages", "Tile", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 1 && cats[row].Count == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 1:
				return StyleNumber
			case col >= 2:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}

// renderPackageTable renders the packages of a category.
func renderPackageTable(pkgs []catalog.Package) string {
	rows := make([][]string, 0, len(pkgs))
	for _, p := range pkgs {
		desc := strings.Join(strings.Fields(p.Description), " ")
		rows = append(rows, []string{p.Name, p.Version, p.Origin, truncate(desc, descriptionWidth)})
	}

	return newTable("Name", "Version", "Origin", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return tableHeaderStyle
			case col == 0:
				return StyleHighlight
			case col == 1:
				return StyleNumber
			case col == 2:
				return StyleDim
			}
			return StyleValue
		}).
		Render()
}
