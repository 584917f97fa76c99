package cli

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mindw/pipshow/pkg/inspect"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the interactive package picker.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Pick an installed package interactively and show its report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context())
		},
	}
}

func (c *CLI) runBrowse(ctx context.Context) error {
	idx, src, err := c.snapshot()
	if err != nil {
		return err
	}
	if idx.Len() == 0 {
		printInfo("No packages installed")
		return nil
	}

	pkgs := idx.Packages()
	slices.SortFunc(pkgs, func(a, b *inspect.Package) int {
		return cmp.Compare(a.Norm(), b.Norm())
	})

	m := newPackageListModel(pkgs)
	p := tea.NewProgram(m)
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	fm, ok := finalModel.(packageListModel)
	if !ok || fm.Selected == nil {
		printDetail("No selection made")
		return nil
	}

	reports, _ := inspect.Search(ctx, []string{fm.Selected.Name}, idx, inspect.SearchOptions{
		Metadata: src,
		Logf:     c.Logger.Debugf,
	})
	renderReports(os.Stdout, reports, renderOptions{Classifiers: c.verbose})
	printNewline()
	printNextStep("Full file manifest", fmt.Sprintf("pipshow -f %s", fm.Selected.Name))
	return nil
}

// =============================================================================
// packageListModel - Interactive package selection
// =============================================================================

// packageListModel is the bubbletea model for interactive package selection.
type packageListModel struct {
	Packages []*inspect.Package
	Cursor   int
	Selected *inspect.Package
	Height   int
	Offset   int
}

// newPackageListModel creates a new package list model.
func newPackageListModel(pkgs []*inspect.Package) packageListModel {
	return packageListModel{
		Packages: pkgs,
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m packageListModel) Init() tea.Cmd {
	return nil
}

func (m packageListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Packages)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Packages[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m packageListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Installed Packages"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Packages) {
		end = len(m.Packages)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Packages[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			p.Name,
			p.Version,
			strconv.Itoa(len(p.Requires)),
			strconv.Itoa(len(p.Extras)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "Deps", "Extras").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Packages))))

	return b.String()
}
