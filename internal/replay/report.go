package replay

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/VoidMesh/horizon/internal/render/terminal"
)

var tableHeaders = []string{"SCRIPT", "SEED", "FRAMES", "TICKS", "X", "Y", "Z", "TERRAIN"}

var (
	headerStyle = terminal.TitleStyle
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
)

// Table lays results out one row per script, in result order.
func Table(results []Result) *table.Table {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		pos := r.Observer.Position
		rows = append(rows, []string{
			r.Name,
			strconv.FormatInt(r.Seed, 10),
			strconv.FormatUint(r.Frames, 10),
			strconv.FormatUint(r.Ticks, 10),
			fmt.Sprintf("%.6f", pos.X()),
			fmt.Sprintf("%.6f", pos.Y()),
			fmt.Sprintf("%.6f", pos.Z()),
			fmt.Sprintf("%016x", r.TerrainHash),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(terminal.Gray)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0 || col == len(tableHeaders)-1:
				return cellStyle
			default:
				return numberStyle
			}
		}).
		Headers(tableHeaders...).
		Rows(rows...)
}
