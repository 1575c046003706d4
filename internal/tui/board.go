// Package tui implements the interactive board view.
package tui

import (
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/taskflow/internal/board"
	"github.com/twiced-technology-gmbh/taskflow/internal/config"
	"github.com/twiced-technology-gmbh/taskflow/internal/date"
	"github.com/twiced-technology-gmbh/taskflow/internal/depgraph"
	"github.com/twiced-technology-gmbh/taskflow/internal/output"
	"github.com/twiced-technology-gmbh/taskflow/internal/recurrence"
	"github.com/twiced-technology-gmbh/taskflow/internal/task"
)

type view int

const (
	viewBoard view = iota
	viewConfirmDelete
)

const (
	boardChrome  = 2 // blank line + status bar below the columns
	errorChrome  = 1
	tickInterval = time.Minute // overdue markers follow the clock
	maxColWidth  = 48
)

// columns lists the statuses the board shows, in order. Cancelled tasks are
// hidden.
var columns = []task.Status{
	task.StatusToDo,
	task.StatusInProgress,
	task.StatusBlocked,
	task.StatusOnHold,
	task.StatusCompleted,
}

type keyMap struct {
	Left, Right, Up, Down key.Binding
	Complete, Next, Prev  key.Binding
	Delete, Reload, Quit  key.Binding
	Confirm, Cancel       key.Binding
}

var keys = keyMap{
	Left:     key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/l", "column")),
	Right:    key.NewBinding(key.WithKeys("l", "right")),
	Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("j/k", "card")),
	Down:     key.NewBinding(key.WithKeys("j", "down")),
	Complete: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete")),
	Next:     key.NewBinding(key.WithKeys("m", "shift+right"), key.WithHelp("m/M", "move")),
	Prev:     key.NewBinding(key.WithKeys("M", "shift+left")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Reload:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	Confirm:  key.NewBinding(key.WithKeys("y", "Y")),
	Cancel:   key.NewBinding(key.WithKeys("n", "N", "esc", "q")),
}

func (k keyMap) help() []key.Binding {
	return []key.Binding{k.Left, k.Up, k.Complete, k.Next, k.Delete, k.Reload, k.Quit}
}

// Board is the top-level bubbletea model.
type Board struct {
	cfg   *config.Config
	actor string
	now   func() time.Time

	graph     *depgraph.Graph
	columns   []column
	activeCol int
	activeRow int
	view      view
	width     int
	height    int
	err       error
	notice    string

	deleteID    int
	deleteTitle string
}

// column groups tasks belonging to a single status.
type column struct {
	status    task.Status
	tasks     []*task.Task
	scrollOff int
}

// NewBoard loads the board for cfg. Mutations made from the UI are
// authorized as actor.
func NewBoard(cfg *config.Config, actor string) *Board {
	b := &Board{cfg: cfg, actor: actor, now: time.Now}
	b.loadTasks()
	return b
}

// SetNow overrides the clock used for completion and overdue markers.
func (b *Board) SetNow(fn func() time.Time) {
	b.now = fn
}

// WatchPaths returns the directories the file watcher should follow.
func (b *Board) WatchPaths() []string {
	return []string{b.cfg.TasksPath(), b.cfg.Dir()}
}

// ReloadMsg is sent by the file watcher to trigger a board refresh.
type ReloadMsg struct{}

// TickMsg refreshes time-dependent markers.
type TickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return TickMsg{} })
}

// Init implements tea.Model.
func (b *Board) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (b *Board) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.view == viewConfirmDelete {
			return b.handleDeleteKey(msg)
		}
		return b.handleBoardKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.clampRow()
	case ReloadMsg:
		b.loadTasks()
	case TickMsg:
		return b, tickCmd()
	}
	return b, nil
}

// View implements tea.Model.
func (b *Board) View() string {
	if b.width == 0 {
		return "Loading..."
	}
	if b.view == viewConfirmDelete {
		return b.viewDeleteConfirm()
	}
	return b.viewBoard()
}

func (b *Board) handleBoardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	b.notice = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return b, tea.Quit
	case key.Matches(msg, keys.Left):
		if b.activeCol > 0 {
			b.activeCol--
			b.clampRow()
		}
	case key.Matches(msg, keys.Right):
		if b.activeCol < len(b.columns)-1 {
			b.activeCol++
			b.clampRow()
		}
	case key.Matches(msg, keys.Down):
		if col := b.currentColumn(); col != nil && b.activeRow < len(col.tasks)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Up):
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case key.Matches(msg, keys.Complete):
		b.completeSelected()
	case key.Matches(msg, keys.Next):
		b.moveSelected(1)
	case key.Matches(msg, keys.Prev):
		b.moveSelected(-1)
	case key.Matches(msg, keys.Delete):
		if t := b.selectedTask(); t != nil {
			b.deleteID, b.deleteTitle = t.ID, t.Title
			b.view = viewConfirmDelete
		}
	case key.Matches(msg, keys.Reload):
		b.loadTasks()
	}
	return b, nil
}

func (b *Board) handleDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Confirm):
		b.executeDelete()
	case key.Matches(msg, keys.Cancel):
		b.view = viewBoard
	}
	return b, nil
}

func (b *Board) completeSelected() {
	t := b.selectedTask()
	if t == nil {
		return
	}
	res, err := board.Complete(b.cfg, b.actor, t.ID, b.now())
	if err != nil {
		b.err = err
		return
	}
	b.err = nil
	switch {
	case res.Next != nil && res.Next.DueDate != nil:
		b.notice = fmt.Sprintf("Completed #%d, next occurrence #%d due %s", t.ID, res.Next.ID, date.Format(*res.Next.DueDate))
	case res.Next != nil:
		b.notice = fmt.Sprintf("Completed #%d, next occurrence #%d", t.ID, res.Next.ID)
	default:
		b.notice = fmt.Sprintf("Completed #%d", t.ID)
	}
	b.loadTasks()
}

func (b *Board) moveSelected(delta int) {
	t := b.selectedTask()
	if t == nil {
		return
	}
	target := b.activeCol + delta
	if target < 0 || target >= len(b.columns) {
		return
	}
	if _, err := board.Move(b.cfg, b.actor, t.ID, b.columns[target].status, b.now()); err != nil {
		b.err = err
		return
	}
	b.err = nil
	b.loadTasks()
	b.activeCol = target
	b.selectTask(t.ID)
}

func (b *Board) executeDelete() {
	b.view = viewBoard
	t := b.selectedTask()
	if t == nil || t.ID != b.deleteID {
		return
	}
	if _, err := board.Remove(b.cfg, b.actor, b.deleteID); err != nil {
		b.err = fmt.Errorf("deleting task #%d: %w", b.deleteID, err)
		return
	}
	b.err = nil
	b.notice = fmt.Sprintf("Deleted #%d", b.deleteID)
	b.loadTasks()
}

// loadTasks reads all tasks and organizes them into columns.
func (b *Board) loadTasks() {
	tasks, _, err := task.ReadAllLenient(b.cfg.TasksPath())
	if err != nil {
		b.err = err
		return
	}
	b.graph = depgraph.New(tasks)
	board.Sort(tasks, "priority", true, b.cfg)

	prev := b.columns
	b.columns = make([]column, len(columns))
	for i, status := range columns {
		b.columns[i] = column{status: status}
		if i < len(prev) {
			b.columns[i].scrollOff = prev[i].scrollOff
		}
	}
	for _, t := range tasks {
		for i := range b.columns {
			if b.columns[i].status == t.Status {
				b.columns[i].tasks = append(b.columns[i].tasks, t)
				break
			}
		}
	}
	b.clampRow()
}

func (b *Board) selectTask(id int) {
	col := b.currentColumn()
	if col == nil {
		return
	}
	for i, t := range col.tasks {
		if t.ID == id {
			b.activeRow = i
			b.ensureVisible()
			return
		}
	}
}

func (b *Board) currentColumn() *column {
	if b.activeCol >= 0 && b.activeCol < len(b.columns) {
		return &b.columns[b.activeCol]
	}
	return nil
}

func (b *Board) selectedTask() *task.Task {
	col := b.currentColumn()
	if col == nil || b.activeRow < 0 || b.activeRow >= len(col.tasks) {
		return nil
	}
	return col.tasks[b.activeRow]
}

func (b *Board) clampRow() {
	col := b.currentColumn()
	if col == nil || len(col.tasks) == 0 {
		b.activeRow = 0
		return
	}
	if b.activeRow >= len(col.tasks) {
		b.activeRow = len(col.tasks) - 1
	}
	b.ensureVisible()
}

// visibleCards estimates how many cards fit in the column area.
func (b *Board) visibleCards() int {
	h := b.height - boardChrome - 1 // column header
	if b.err != nil {
		h -= errorChrome
	}
	cardH := b.cfg.TitleLines() + 3 //nolint:mnd // meta line plus borders
	return max(h/cardH, 1)
}

func (b *Board) ensureVisible() {
	col := b.currentColumn()
	if col == nil {
		return
	}
	n := b.visibleCards()
	if b.activeRow < col.scrollOff {
		col.scrollOff = b.activeRow
	}
	if b.activeRow >= col.scrollOff+n {
		col.scrollOff = b.activeRow - n + 1
	}
}

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle  = cardStyle.BorderForeground(lipgloss.Color("226"))
	waitingCardStyle = cardStyle.BorderForeground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	overdueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	labelPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

// labelStyle colors a label by hashing its name, so a label keeps its color.
func labelStyle(label string) lipgloss.Style {
	h := fnv.New32a()
	_, _ = h.Write([]byte(label))
	return lipgloss.NewStyle().Foreground(labelPalette[h.Sum32()%uint32(len(labelPalette))])
}

// --- View rendering ---

func (b *Board) viewBoard() string {
	width := b.columnWidth()
	rendered := make([]string, len(b.columns))
	for i, col := range b.columns {
		rendered[i] = b.renderColumn(i, col, width)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	target := b.height - boardChrome
	if b.err != nil {
		target -= errorChrome
	}
	if target > 0 {
		lines := strings.Split(boardView, "\n")
		if len(lines) > target {
			lines = lines[:target]
		}
		for len(lines) < target {
			lines = append(lines, "")
		}
		boardView = strings.Join(lines, "\n")
	}

	parts := []string{boardView, ""}
	if b.err != nil {
		parts = append(parts, errorStyle.Render("Error: "+b.err.Error()))
	}
	parts = append(parts, b.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) columnWidth() int {
	if b.width == 0 || len(b.columns) == 0 {
		return 30 //nolint:mnd // default column width
	}
	return min(b.width/len(b.columns), maxColWidth)
}

func (b *Board) renderColumn(colIdx int, col column, width int) string {
	headerText := fmt.Sprintf("%s (%d)", col.status, len(col.tasks))
	if wip := b.cfg.WIPLimit(col.status); wip > 0 {
		headerText = fmt.Sprintf("%s (%d/%d)", col.status, len(col.tasks), wip)
	}
	headerText = truncate(headerText, width-2) //nolint:mnd // header padding

	style := columnHeaderStyle.Foreground(output.StatusStyle(col.status).GetForeground())
	if colIdx == b.activeCol {
		style = activeColumnHeaderStyle
	}
	parts := []string{style.Width(width).Render(headerText)}

	n := b.visibleCards()
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+n, len(col.tasks))

	if start > 0 {
		parts = append(parts, dimStyle.Width(width).Render(fmt.Sprintf("  ↑ %d more", start)))
	}
	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
	}
	for row := start; row < end; row++ {
		active := colIdx == b.activeCol && row == b.activeRow
		parts = append(parts, b.renderCard(col.tasks[row], active, width))
	}
	if end < len(col.tasks) {
		parts = append(parts, dimStyle.Width(width).Render(fmt.Sprintf("  ↓ %d more", len(col.tasks)-end)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (b *Board) renderCard(t *task.Task, active bool, width int) string {
	style := cardStyle
	switch {
	case active:
		style = activeCardStyle
	case b.graph != nil && b.graph.IsBlocked(t.ID):
		style = waitingCardStyle
	}
	inner := width - 4                                                              //nolint:mnd // border and padding
	return style.Width(width - 2).Render(strings.Join(b.cardLines(t, inner), "\n")) //nolint:mnd // border width
}

// cardLines renders the title, wrapped to the configured number of lines,
// followed by one meta line.
func (b *Board) cardLines(t *task.Task, width int) []string {
	lines := wrapTitle(fmt.Sprintf("#%d %s", t.ID, t.Title), width, b.cfg.TitleLines())

	var meta []string
	if t.Priority != "" {
		meta = append(meta, t.Priority)
	}
	if t.DueDate != nil {
		due := date.Format(*t.DueDate)
		if t.Overdue(b.now()) {
			due = overdueStyle.Render(due)
		}
		meta = append(meta, due)
	}
	if t.Recurring() {
		meta = append(meta, "↻ "+recurrence.Describe(*t.Recurrence))
	}
	if b.graph != nil {
		if waiting := b.graph.Unresolved(t.ID); len(waiting) > 0 {
			meta = append(meta, errorStyle.Render(fmt.Sprintf("waits on %d", len(waiting))))
		}
	}
	for _, l := range t.Labels {
		meta = append(meta, labelStyle(l).Render(l))
	}
	line := strings.Join(meta, " · ")
	if lipgloss.Width(line) > width {
		line = truncate(strings.Join(meta[:min(len(meta), 2)], " · "), width) //nolint:mnd // keep priority and due
	}
	return append(lines, line)
}

func (b *Board) renderStatusBar() string {
	if b.notice != "" {
		return noticeStyle.Render(b.notice)
	}
	var help []string
	for _, k := range keys.help() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	total := 0
	for _, col := range b.columns {
		total += len(col.tasks)
	}
	return statusBarStyle.Render(fmt.Sprintf("%s · %d tasks · %s", b.cfg.Board.Name, total, strings.Join(help, "  ")))
}

func (b *Board) viewDeleteConfirm() string {
	prompt := fmt.Sprintf("Delete task #%d?\n\n%s\n\n[y] yes  [n] no", b.deleteID, truncate(b.deleteTitle, 50)) //nolint:mnd // dialog width
	return lipgloss.Place(b.width, b.height, lipgloss.Center, lipgloss.Center, dialogStyle.Render(prompt))
}

// wrapTitle splits title into at most maxLines lines of maxWidth runes,
// ending the last line with an ellipsis when text is cut.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxWidth <= 0 {
		return []string{title}
	}
	words := strings.Fields(title)
	var lines []string
	cur := ""
	for i, w := range words {
		switch {
		case cur == "":
			cur = w
		case lipgloss.Width(cur)+1+lipgloss.Width(w) <= maxWidth:
			cur += " " + w
		default:
			lines = append(lines, truncate(cur, maxWidth))
			cur = w
			if len(lines) == maxLines {
				rest := strings.Join(words[i:], " ")
				lines[maxLines-1] = truncate(lines[maxLines-1]+" "+rest, maxWidth)
				return lines
			}
		}
	}
	if cur != "" {
		lines = append(lines, truncate(cur, maxWidth))
	}
	return lines
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 0 {
		return ""
	}
	if maxLen == 1 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-1]) + "…"
}
