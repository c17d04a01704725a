// Package render draws the goalie board for terminals.
package render

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/XavierBriggs/fortuna/services/goalie-service/pkg/models"
)

var (
	purple  = lipgloss.Color("#bd93f9")
	comment = lipgloss.Color("#6272a4")
	green   = lipgloss.Color("#50fa7b")
	orange  = lipgloss.Color("#ffb86c")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(purple).
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	sideStyle = lipgloss.NewStyle().
			Foreground(green).
			Padding(0, 1)

	unknownStyle = lipgloss.NewStyle().
			Foreground(orange).
			Padding(0, 1)
)

// Headers are the board columns in display order
var Headers = []string{
	"Team",
	"Goalie",
	"Games Played",
	"Games with Goals Against",
	"Favored Side",
	"Left / Right Goals",
}

const sideColumn = 4

// RenderTable draws one line per board row under the column headers.
// An empty board renders the header only.
func RenderTable(rows []models.BoardRow) string {
	cells := Cells(rows)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(comment)).
		Headers(Headers...).
		Rows(cells...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == sideColumn && row >= 0 && row < len(cells) {
				if cells[row][col] == models.FavoredNone {
					return unknownStyle
				}
				return sideStyle
			}
			return cellStyle
		})

	return t.Render()
}

// Cells converts board rows to table text
func Cells(rows []models.BoardRow) [][]string {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{
			r.Team,
			r.GoalieName,
			strconv.Itoa(r.GamesPlayed),
			strconv.Itoa(r.GamesWithGoalsAgainst),
			r.SideFavored,
			fmt.Sprintf("%d / %d", r.Left, r.Right),
		})
	}
	return out
}
