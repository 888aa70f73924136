package cli

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lptable "github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/tablekit/tablekit/pkg/table"
)

const (
	// defaultViewRows is how many rows the static preview shows.
	defaultViewRows = 20
	// maxCellRunes caps cell width in the preview so one long string cannot
	// blow up the whole table.
	maxCellRunes = 32
	// nullCell marks null values so they are distinguishable from empty
	// strings.
	nullCell = "—"
)

// viewCommand creates the view command for previewing tables.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		rows        int
		interactive bool
		read        readOptions
	)

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Preview a table in the terminal",
		Long: `Preview a table in the terminal.

Prints the first rows of the file as a bordered table. With --interactive the
table opens in a scrollable browser instead (arrows or j/k to scroll, f/b to
page, g/G to jump, q to quit).

Examples:
  tablekit view tidy.csv
  tablekit view -n 50 confirmed.parquet
  tablekit view --interactive tidy.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTable(args[0], read)
			if err != nil {
				return err
			}
			if interactive {
				return runTableBrowser(args[0], t)
			}
			fmt.Println(renderPreview(args[0], t, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&rows, "rows", "n", defaultViewRows, "number of rows to show")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "browse the table interactively")
	addReadFlags(cmd, &read)

	return cmd
}

// renderPreview renders the first n rows of t with a heading and a footer.
func renderPreview(name string, t *table.Table, n int) string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(name))
	b.WriteString("\n")
	b.WriteString(renderRows(t, 0, n))
	b.WriteString("\n")

	shown := min(n, t.NumRows())
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d of %d rows · %d columns", shown, t.NumRows(), t.NumCols())))
	return b.String()
}

// renderRows renders the window of rows [offset, offset+height) as a
// bordered lipgloss table.
func renderRows(t *table.Table, offset, height int) string {
	end := offset + height
	if end > t.NumRows() {
		end = t.NumRows()
	}
	if offset > end {
		offset = end
	}

	headers := make([]string, t.NumCols())
	for i, c := range t.Columns() {
		headers[i] = c.Name
	}

	rows := make([][]string, 0, end-offset)
	for r := offset; r < end; r++ {
		row := make([]string, t.NumCols())
		for i, v := range t.Row(r) {
			row[i] = formatCell(v)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Foreground(colorWhite)

	return lptable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}

// formatCell renders v for display, truncating long strings.
func formatCell(v table.Value) string {
	if v.IsNull {
		return nullCell
	}
	s := v.Format()
	if utf8.RuneCountInString(s) > maxCellRunes {
		runes := []rune(s)
		s = string(runes[:maxCellRunes-1]) + "…"
	}
	return s
}

// =============================================================================
// TableModel - Interactive table browsing
// =============================================================================

// TableModel is the bubbletea model for scrolling through a table.
type TableModel struct {
	Name   string
	Table  *table.Table
	Offset int
	Height int
}

// NewTableModel creates a table browser model for t.
func NewTableModel(name string, t *table.Table) TableModel {
	return TableModel{
		Name:   name,
		Table:  t,
		Height: 15,
	}
}

func (m TableModel) Init() tea.Cmd {
	return nil
}

func (m TableModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Offset > 0 {
				m.Offset--
			}
		case "down", "j":
			if m.Offset < m.maxOffset() {
				m.Offset++
			}
		case "pgup", "b":
			m.Offset -= m.Height
			if m.Offset < 0 {
				m.Offset = 0
			}
		case "pgdown", "f", " ":
			m.Offset += m.Height
			if m.Offset > m.maxOffset() {
				m.Offset = m.maxOffset()
			}
		case "g", "home":
			m.Offset = 0
		case "G", "end":
			m.Offset = m.maxOffset()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Offset > m.maxOffset() {
			m.Offset = m.maxOffset()
		}
	}
	return m, nil
}

// maxOffset is the highest offset that still shows a full window where the
// table allows it.
func (m TableModel) maxOffset() int {
	max := m.Table.NumRows() - m.Height
	if max < 0 {
		return 0
	}
	return max
}

func (m TableModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Name))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ scroll  f/b page  g/G jump  q quit"))
	b.WriteString("\n\n")
	b.WriteString(renderRows(m.Table, m.Offset, m.Height))
	b.WriteString("\n")

	if m.Table.NumRows() == 0 {
		b.WriteString(StyleDim.Render("  no rows"))
		return b.String()
	}
	end := m.Offset + m.Height
	if end > m.Table.NumRows() {
		end = m.Table.NumRows()
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  rows %d-%d of %d", m.Offset+1, end, m.Table.NumRows())))
	return b.String()
}

// runTableBrowser starts the interactive table browser and blocks until the
// user quits.
func runTableBrowser(name string, t *table.Table) error {
	p := tea.NewProgram(NewTableModel(name, t))
	_, err := p.Run()
	return err
}
