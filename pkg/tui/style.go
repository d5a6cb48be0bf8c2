package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	bordersAndPaddingWidth = 4
	panelHeightPadding     = 3
	// Rows taken by title, subtitles, header and footer around the entry table.
	tableChromeHeight = 10
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	markedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	textRedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	textOkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))

	tableHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Function to colorize text based on its status
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

// The focused side gets the larger share of the width.
func (m model) columnWidths() (int, int) {
	var left int
	if m.focus == focusTable {
		left = (m.width * 35) / 100
	} else {
		left = (m.width * 45) / 100
	}
	return left, m.width - left
}

// visibleWindow returns the slice bounds of entries that fit on screen while
// keeping the cursor row visible.
func (m model) visibleWindow() (int, int) {
	rows := m.height - tableChromeHeight
	if rows < 1 {
		rows = 1
	}
	start := 0
	if m.entryCursor >= rows {
		start = m.entryCursor - rows + 1
	}
	end := start + rows
	if end > len(m.entries) {
		end = len(m.entries)
	}
	return start, end
}
