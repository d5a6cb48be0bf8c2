package tui

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/unowned-ai/emolabel/pkg/config"
	"github.com/unowned-ai/emolabel/pkg/export"
	"github.com/unowned-ai/emolabel/pkg/labels"
	"github.com/unowned-ai/emolabel/pkg/utils"
)

type focusArea int

const (
	focusText focusArea = iota
	focusLabel
	focusTable
	focusAreas
)

type mode int

const (
	modeNormal mode = iota
	modeConfirmDelete
	modeConfirmClear
	modeExport
)

// Options tune the terminal shell.
type Options struct {
	// MaxTextLength truncates texts in the entry table. Display only.
	MaxTextLength int
	// Archive, when set, is offered as an export destination.
	Archive *sql.DB
}

type model struct {
	store    *labels.Store
	exporter *export.Exporter
	archive  *sql.DB

	archiveName   string
	maxTextLength int
	allLabels     []labels.Label

	// Snapshot of the store, refreshed after every mutation.
	entries  []labels.Entry
	counts   map[labels.Label]int
	selected map[int64]bool

	focus    focusArea
	mode     mode
	width    int // Current terminal width (for layout)
	height   int // Current terminal height
	err      error
	quitting bool

	textInput   textinput.Model
	labelCursor int // -1 until a label is picked
	entryCursor int

	confirmIdx    int // 0 = "Yes" selected, 1 = "No"
	pendingDelete []int64

	pathInput       textinput.Model
	exportToArchive bool

	status      string
	statusError bool
}

// Initialize TUI model
func initModel(store *labels.Store, exporter *export.Exporter, opts Options) model {
	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = config.DefaultMaxTextLength
	}

	ti := textinput.New()
	ti.Placeholder = "Text to label"
	ti.Focus()

	pi := textinput.New()
	pi.Placeholder = "Export path"
	pi.CharLimit = 1024

	m := model{
		store:    store,
		exporter: exporter,
		archive:  opts.Archive,

		archiveName:   archiveFileName(opts.Archive),
		maxTextLength: opts.MaxTextLength,
		allLabels:     labels.AllowedLabels(),

		selected: map[int64]bool{},

		focus:  focusText,
		width:  100,
		height: 30,

		textInput:   ti,
		labelCursor: -1,

		pathInput: pi,
	}
	m.refresh()
	return m
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

// Re-read the store after a mutation and keep cursor and selection in range
func (m *model) refresh() {
	m.entries = m.store.Entries()
	m.counts = m.store.LabelCounts()

	live := make(map[int64]bool, len(m.entries))
	for _, e := range m.entries {
		live[e.ID] = true
	}
	for id := range m.selected {
		if !live[id] {
			delete(m.selected, id)
		}
	}

	if m.entryCursor >= len(m.entries) {
		m.entryCursor = len(m.entries) - 1
	}
	if m.entryCursor < 0 {
		m.entryCursor = 0
	}
}

func (m *model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
}

func (m *model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	if f == focusText {
		return m.textInput.Focus()
	}
	m.textInput.Blur()
	return nil
}

// Processes events like window resize, export results and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case exportedMsg:
		m.setStatus(fmt.Sprintf("Data exported successfully to: %s", msg.result.Path), false)
		return m, nil

	case archivedMsg:
		m.setStatus(fmt.Sprintf("Data saved to %s as batch %s.", m.archiveName, msg.batch.ID), false)
		return m, nil

	case exportFailedMsg:
		if errors.Is(msg.err, labels.ErrNothingToExport) {
			m.setStatus("No data to export.", false)
		} else {
			m.setStatus(msg.err.Error(), true)
		}
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		switch m.mode {
		case modeConfirmDelete, modeConfirmClear:
			return m.updateConfirm(msg)
		case modeExport:
			return m.updateExport(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	// Exit alt screen before quitting so the goodbye message displays
	return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m, m.setFocus((m.focus + 1) % focusAreas)
	case "shift+tab":
		return m, m.setFocus((m.focus + focusAreas - 1) % focusAreas)
	case "ctrl+s":
		return m.addEntry()
	}

	if m.focus == focusText {
		// Typing mode: everything but enter goes to the input
		if msg.Type == tea.KeyEnter {
			return m, m.setFocus(focusLabel)
		}
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}

	switch key := msg.String(); key {
	case "q":
		return m.quit()

	case "up", "k":
		if m.focus == focusLabel {
			if m.labelCursor > 0 {
				m.labelCursor--
			} else {
				m.labelCursor = 0
			}
		} else if m.entryCursor > 0 {
			m.entryCursor--
		}

	case "down", "j":
		if m.focus == focusLabel {
			if m.labelCursor < len(m.allLabels)-1 {
				m.labelCursor++
			}
		} else if m.entryCursor < len(m.entries)-1 {
			m.entryCursor++
		}

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if m.focus == focusLabel {
			if n, _ := strconv.Atoi(key); n <= len(m.allLabels) {
				m.labelCursor = n - 1
			}
		}

	case "enter":
		if m.focus == focusLabel {
			return m.addEntry()
		}

	case " ", "space":
		if m.focus == focusTable && len(m.entries) > 0 {
			id := m.entries[m.entryCursor].ID
			if m.selected[id] {
				delete(m.selected, id)
			} else {
				m.selected[id] = true
			}
		}

	case "a":
		// Select all / none
		if m.focus == focusTable {
			if len(m.selected) == len(m.entries) {
				m.selected = map[int64]bool{}
			} else {
				for _, e := range m.entries {
					m.selected[e.ID] = true
				}
			}
		}

	case "d":
		ids := m.deleteTargets()
		if len(ids) == 0 {
			m.setStatus("Please select an entry to delete.", false)
			return m, nil
		}
		m.pendingDelete = ids
		m.confirmIdx = 1
		m.mode = modeConfirmDelete

	case "c":
		if m.store.Count() == 0 {
			m.setStatus("No data to clear.", false)
			return m, nil
		}
		m.confirmIdx = 1
		m.mode = modeConfirmClear

	case "e":
		if m.store.Count() == 0 {
			m.setStatus("No data to export.", false)
			return m, nil
		}
		m.mode = modeExport
		m.exportToArchive = false
		m.pathInput.SetValue(m.exporter.SuggestPath())
		m.pathInput.CursorEnd()
		return m, m.pathInput.Focus()
	}

	return m, nil
}

// Marked entries in table order, else the entry under the table cursor
func (m model) deleteTargets() []int64 {
	var ids []int64
	for _, e := range m.entries {
		if m.selected[e.ID] {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 && m.focus == focusTable && len(m.entries) > 0 {
		ids = append(ids, m.entries[m.entryCursor].ID)
	}
	return ids
}

func (m model) addEntry() (tea.Model, tea.Cmd) {
	var label labels.Label
	if m.labelCursor >= 0 {
		label = m.allLabels[m.labelCursor]
	}

	if _, err := m.store.Add(m.textInput.Value(), label); err != nil {
		m.setStatus(userMessage(err), true)
		return m, nil
	}

	m.textInput.Reset()
	m.labelCursor = -1
	m.refresh()
	m.entryCursor = len(m.entries) - 1
	m.setStatus("Label added successfully!", false)
	return m, m.setFocus(focusText)
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "left", "h":
		m.confirmIdx = 0
	case "down", "j", "right", "l":
		m.confirmIdx = 1
	case "y":
		return m.resolveConfirm(true)
	case "n", "esc":
		return m.resolveConfirm(false)
	case "enter":
		return m.resolveConfirm(m.confirmIdx == 0)
	}
	return m, nil
}

func (m model) resolveConfirm(yes bool) (tea.Model, tea.Cmd) {
	current := m.mode
	m.mode = modeNormal
	pending := m.pendingDelete
	m.pendingDelete = nil

	if !yes {
		m.setStatus("", false)
		return m, nil
	}

	switch current {
	case modeConfirmDelete:
		removed := m.store.DeleteByIDs(pending...)
		m.refresh()
		switch len(removed) {
		case 0:
			m.setStatus("Nothing was deleted.", false)
		case 1:
			m.setStatus("Deleted 1 entry.", false)
		default:
			m.setStatus(fmt.Sprintf("Deleted %d entries.", len(removed)), false)
		}

	case modeConfirmClear:
		n := m.store.Clear()
		m.refresh()
		if n == 0 {
			m.setStatus("No data to clear.", false)
		} else {
			m.setStatus("All data cleared.", false)
		}
	}
	return m, nil
}

func (m model) updateExport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.pathInput.Blur()
		m.setStatus("Export cancelled.", false)
		return m, m.setFocus(m.focus)

	case tea.KeyTab:
		if m.archive != nil {
			m.exportToArchive = !m.exportToArchive
		}
		return m, nil

	case tea.KeyEnter:
		m.mode = modeNormal
		m.pathInput.Blur()
		m.setStatus("Exporting...", false)
		focusCmd := m.setFocus(m.focus)
		if m.exportToArchive {
			return m, tea.Batch(saveToArchive(m.exporter, m.archive, m.store), focusCmd)
		}
		return m, tea.Batch(exportToFile(m.exporter, m.store, m.pathInput.Value()), focusCmd)
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

// userMessage turns store errors into a sentence for the status line.
func userMessage(err error) string {
	var ve *labels.ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return strings.ToUpper(ve.Message[:1]) + ve.Message[1:] + "."
	}
	return err.Error()
}

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Labeling session closed.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleBar := titleStyle.Width(m.width).Render("Emolabel - emotion labeling")

	leftWidth, rightWidth := m.columnWidths()
	m.textInput.Width = leftWidth - bordersAndPaddingWidth - 2
	m.pathInput.Width = rightWidth - bordersAndPaddingWidth - 8

	// Left column: text input, label picker and session info
	var left strings.Builder
	left.WriteString(subtitleStyle.Render(generateLinePointer(m.focus == focusText, 2) + "Text"))
	left.WriteString("\n\n")
	left.WriteString(m.textInput.View())
	left.WriteString("\n\n")

	left.WriteString(subtitleStyle.Render(generateLinePointer(m.focus == focusLabel, 2) + "Label"))
	left.WriteString("\n\n")
	for i, l := range m.allLabels {
		line := fmt.Sprintf("%d %s", i+1, l)
		pointer := generateLinePointer(i == m.labelCursor && m.focus == focusLabel, 2)
		if i == m.labelCursor {
			left.WriteString(pointer + selectedStyle.Render(line) + "\n")
		} else {
			left.WriteString(pointer + inactiveStyle.Render(line) + "\n")
		}
	}

	if m.status != "" {
		style := textOkStyle
		if m.statusError {
			style = textRedStyle
		}
		left.WriteString("\n" + style.Width(leftWidth-bordersAndPaddingWidth).Render(m.status) + "\n")
	}

	archiveStatus, archiveText := 0, "none"
	if m.archiveName != "" {
		archiveStatus, archiveText = 1, m.archiveName
	}
	left.WriteString(fmt.Sprintf("\nDataset archive: %s\n", TextStatusColorize(archiveText, archiveStatus)))

	// Right column: entry table, confirmation prompt or export form
	var right strings.Builder
	switch m.mode {
	case modeConfirmDelete:
		right.WriteString(subtitleStyle.Render("Delete Entries") + "\n\n")
		right.WriteString(fmt.Sprintf("Delete %s?\n\n", pluralEntries(len(m.pendingDelete))))
		right.WriteString(m.confirmOptions())
	case modeConfirmClear:
		right.WriteString(subtitleStyle.Render("Clear All Entries") + "\n\n")
		right.WriteString(fmt.Sprintf("Remove all %s from this session?\n\n", pluralEntries(len(m.entries))))
		right.WriteString(m.confirmOptions())
	case modeExport:
		right.WriteString(subtitleStyle.Render("Export") + "\n\n")
		if m.exportToArchive {
			right.WriteString("Destination: " + markedStyle.Render("dataset archive ("+m.archiveName+")") + "\n\n")
		} else {
			right.WriteString("Destination: " + markedStyle.Render("file") + "\n\n")
			right.WriteString("Path: " + m.pathInput.View() + "\n\n")
		}
		hint := "(enter to export, esc to cancel)"
		if m.archive != nil {
			hint = "(enter to export, tab to switch destination, esc to cancel)"
		}
		right.WriteString(hint)
	default:
		right.WriteString(m.entryTable(rightWidth - bordersAndPaddingWidth))
	}

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(m.height - panelHeightPadding).
		Render(left.String())

	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(m.height - panelHeightPadding).
		Render(right.String())

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, rightPanel)

	footerBar := footerStyle.Width(m.width).Render("\n" + m.countsLine() + "\n" +
		"tab focus • enter add • space mark • a mark all • d delete • c clear • e export • q quit")

	return titleBar + "\n\n" + columns + footerBar
}

func (m model) entryTable(width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(generateLinePointer(m.focus == focusTable, 2)+"Entries") + "\n\n")

	if len(m.entries) == 0 {
		b.WriteString("  No entries yet. Type some text, pick a label and press enter.\n")
		return b.String()
	}

	b.WriteString(tableHeaderStyle.Render(fmt.Sprintf("      %4s  %-8s  %s", "ID", "Label", "Text")) + "\n")

	// pointer + mark + id + label columns
	textWidth := width - 24
	start, end := m.visibleWindow()
	for i := start; i < end; i++ {
		e := m.entries[i]
		mark := "[ ]"
		if m.selected[e.ID] {
			mark = "[x]"
		}
		text := utils.TruncateText(strings.ReplaceAll(e.Text, "\n", " "), m.maxTextLength)
		if textWidth > 0 {
			text = lipgloss.NewStyle().MaxWidth(textWidth).Render(text)
		}
		row := fmt.Sprintf("%s %4d  %-8s  %s", mark, e.ID, e.Label, text)

		isCursor := i == m.entryCursor && m.focus == focusTable
		pointer := generateLinePointer(isCursor, 2)
		switch {
		case isCursor:
			row = selectedStyle.Render(row)
		case m.selected[e.ID]:
			row = markedStyle.Render(row)
		default:
			row = inactiveStyle.Render(row)
		}
		b.WriteString(pointer + row + "\n")
	}
	return b.String()
}

func (m model) confirmOptions() string {
	yesOpt, noOpt := "Yes", "No"
	if m.confirmIdx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	return fmt.Sprintf("%s\n%s\n\n(enter to confirm, esc to cancel, up/down to switch)", yesOpt, noOpt)
}

// Footer line: total and per-label tallies of the live session
func (m model) countsLine() string {
	parts := []string{pluralEntries(len(m.entries))}
	for _, l := range m.allLabels {
		parts = append(parts, fmt.Sprintf("%s %d", l, m.counts[l]))
	}
	return strings.Join(parts, " • ")
}

func pluralEntries(n int) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}

// Create and start the Bubble Tea TUI
func ShowTUI(store *labels.Store, exporter *export.Exporter, opts Options) error {
	p := tea.NewProgram(initModel(store, exporter, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
