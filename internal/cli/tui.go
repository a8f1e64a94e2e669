package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/containerpak/cpakstore/pkg/catalog"
	"github.com/containerpak/cpakstore/pkg/errors"
)

// List styles
var (
	listDimStyle   = lipgloss.NewStyle().Foreground(colorDim)
	listErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

const defaultListHeight = 15

// =============================================================================
// BrowseModel - Interactive store browser
// =============================================================================

// browseView is the screen the browser shows.
type browseView int

const (
	viewCategories browseView = iota
	viewPackages
)

// PackageLoader lists the packages of a category.
type PackageLoader func(category string) ([]catalog.Package, error)

// packagesMsg delivers a category listing to the model.
type packagesMsg struct {
	category string
	pkgs     []catalog.Package
	err      error
}

// BrowseModel is the bubbletea model for browsing categories and their
// packages. Enter on a category loads its packages; enter on a package
// selects it and quits.
type BrowseModel struct {
	Categories []catalog.CategorySummary
	Packages   []catalog.Package
	Category   string
	Selected   *catalog.Package

	Screen  browseView
	Cursor  int
	Offset  int
	Height  int
	Loading bool
	Err     error

	load      PackageLoader
	catCursor int
}

// NewBrowseModel creates a browser over cats that lists packages with load.
func NewBrowseModel(cats []catalog.CategorySummary, load PackageLoader) BrowseModel {
	return BrowseModel{
		Categories: cats,
		Height:     defaultListHeight,
		load:       load,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return nil
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case packagesMsg:
		m.Loading = false
		if msg.err != nil {
			m.Err = msg.err
			return m, nil
		}
		m.Err = nil
		m.Category = msg.category
		m.Packages = msg.pkgs
		m.Screen = viewPackages
		m.catCursor = m.Cursor
		m.Cursor, m.Offset = 0, 0
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}
	return m, nil
}

func (m BrowseModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		if m.Screen == viewCategories {
			return m, tea.Quit
		}
		m.Screen = viewCategories
		m.Packages = nil
		m.Cursor, m.Offset = m.catCursor, 0
		m.scroll()
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
			m.scroll()
		}
	case "down", "j":
		if m.Cursor < m.rows()-1 {
			m.Cursor++
			m.scroll()
		}
	case "enter":
		if m.Loading || m.rows() == 0 {
			return m, nil
		}
		if m.Screen == viewPackages {
			p := m.Packages[m.Cursor]
			m.Selected = &p
			return m, tea.Quit
		}
		cat := m.Categories[m.Cursor]
		if cat.Count == 0 || m.load == nil {
			return m, nil
		}
		m.Loading = true
		m.Err = nil
		return m, m.loadCmd(cat.Name)
	}
	return m, nil
}

func (m BrowseModel) loadCmd(category string) tea.Cmd {
	load := m.load
	return func() tea.Msg {
		pkgs, err := load(category)
		return packagesMsg{category: category, pkgs: pkgs, err: err}
	}
}

// rows is the length of the current list.
func (m BrowseModel) rows() int {
	if m.Screen == viewPackages {
		return len(m.Packages)
	}
	return len(m.Categories)
}

// scroll keeps the cursor inside the visible window.
func (m *BrowseModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m BrowseModel) View() string {
	var b strings.Builder

	if m.Screen == viewPackages {
		b.WriteString(StyleTitle.Render(displayName(m.Category)))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show  esc back  q quit"))
	} else {
		b.WriteString(StyleTitle.Render("Containerpak Store"))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  q quit"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderList())
	b.WriteString("\n\n")

	switch {
	case m.Loading:
		b.WriteString(StyleHighlight.Render("  Loading packages..."))
		b.WriteString("\n")
	case m.Err != nil:
		b.WriteString(listErrorStyle.Render("  " + errors.UserMessage(m.Err)))
		b.WriteString("\n")
	}

	if n := m.rows(); n > 0 {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, n)))
	}
	return b.String()
}

func (m BrowseModel) renderList() string {
	end := min(m.Offset+m.Height, m.rows())

	var (
		headers []string
		rows    [][]string
		dim     func(i int) bool
	)
	cursor := func(i int) string {
		if i == m.Cursor {
			return "▸ "
		}
		return "  "
	}

	if m.Screen == viewPackages {
		headers = []string{"", "Name", "Version", "Description"}
		for i := m.Offset; i < end; i++ {
			p := m.Packages[i]
			rows = append(rows, []string{cursor(i), p.Name, p.Version, truncate(p.Description, 48)})
		}
		dim = func(int) bool { return false }
	} else {
		headers = []string{"", "Category", "Packages"}
		for i := m.Offset; i < end; i++ {
			c := m.Categories[i]
			rows = append(rows, []string{cursor(i), displayName(c.Name), strconv.Itoa(c.Count)})
		}
		dim = func(i int) bool { return m.Categories[i].Count == 0 }
	}

	return newTable(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			i := m.Offset + row
			base := lipgloss.NewStyle()
			switch {
			case dim(i):
				base = base.Foreground(colorDim)
			case i == m.Cursor:
				base = base.Foreground(colorGreen)
			}
			if i == m.Cursor {
				base = base.Bold(true)
			}
			return base
		}).
		Render()
}
