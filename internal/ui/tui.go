// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/missionctl/internal/model"
	"github.com/nibzard/missionctl/internal/report"
	"github.com/nibzard/missionctl/internal/rules"
	"github.com/nibzard/missionctl/internal/utils"
)

// DefaultRefreshInterval is how often the board refetches tasks.
const DefaultRefreshInterval = 30 * time.Second

// maxPerSection caps how many tasks each status section lists.
const maxPerSection = 15

// TaskLister fetches the tasks shown on the board.
type TaskLister interface {
	ListTasks(ctx context.Context, projectID string) ([]model.Task, error)
}

// BoardOption configures the board.
type BoardOption func(*boardConfig)

type boardConfig struct {
	projectID string
	policy    rules.Policy
	interval  time.Duration
	now       func() time.Time
	source    string
}

// WithProject limits the board to one project.
func WithProject(id string) BoardOption {
	return func(c *boardConfig) {
		c.projectID = id
	}
}

// WithPolicy sets the thresholds used for the attention view.
func WithPolicy(p rules.Policy) BoardOption {
	return func(c *boardConfig) {
		c.policy = p
	}
}

// WithRefreshInterval sets the refetch interval.
func WithRefreshInterval(d time.Duration) BoardOption {
	return func(c *boardConfig) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithSource labels the footer with the deployment URL.
func WithSource(url string) BoardOption {
	return func(c *boardConfig) {
		c.source = url
	}
}

func newBoardConfig(opts []BoardOption) *boardConfig {
	c := &boardConfig{
		policy:   rules.DefaultPolicy(),
		interval: DefaultRefreshInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunBoard starts the read-only task board. It never writes to the backend.
func RunBoard(ctx context.Context, lister TaskLister, opts ...BoardOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("board requires a TTY")
	}
	m := newBoardModel(ctx, lister, newBoardConfig(opts))
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

// filter selects which tasks the board lists.
type filter int

const (
	filterAll filter = iota
	filterTodo
	filterInProgress
	filterDone
	filterAttention
)

func (f filter) String() string {
	switch f {
	case filterTodo:
		return string(model.StatusTodo)
	case filterInProgress:
		return string(model.StatusInProgress)
	case filterDone:
		return string(model.StatusDone)
	case filterAttention:
		return "needs attention"
	default:
		return ""
	}
}

type boardModel struct {
	ctx    context.Context
	lister TaskLister
	cfg    *boardConfig

	tasks     []model.Task
	loadErr   error
	loading   bool
	fetchedAt time.Time

	filter      filter
	showHelp    bool
	showSummary bool
}

type tickMsg time.Time

type tasksMsg struct {
	tasks []model.Task
	err   error
	at    time.Time
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	priorityStyles = map[model.Priority]lipgloss.Style{
		model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		model.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

func newBoardModel(ctx context.Context, lister TaskLister, cfg *boardConfig) *boardModel {
	return &boardModel{
		ctx:         ctx,
		lister:      lister,
		cfg:         cfg,
		loading:     true,
		showSummary: true,
	}
}

func (m *boardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tickCmd(m.cfg.interval))
}

func (m *boardModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.lister.ListTasks(m.ctx, m.cfg.projectID)
		return tasksMsg{tasks: tasks, err: err, at: m.cfg.now()}
	}
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			m.loading = true
			return m, m.fetchCmd()
		case "s":
			m.showSummary = !m.showSummary
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.filter = filterTodo
		case "2":
			m.filter = filterInProgress
		case "3":
			m.filter = filterDone
		case "4":
			m.filter = filterAttention
		case "0":
			m.filter = filterAll
		}
		return m, nil
	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), tickCmd(m.cfg.interval))
	case tasksMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil {
			m.tasks = msg.tasks
			m.fetchedAt = msg.at
		}
	}
	return m, nil
}

func (m *boardModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.cfg)
		return b.String()
	}

	if m.filter != filterAll {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading tasks:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
	}
	if m.tasks == nil && m.loading {
		b.WriteString("Loading...\n\n")
		writeFooter(&b, m.cfg)
		return b.String()
	}

	now := m.fetchedAt
	if now.IsZero() {
		now = m.cfg.now()
	}
	c := rules.Classify(m.tasks, now, m.cfg.policy)

	writeOverview(&b, m.tasks)
	if m.showSummary {
		writeAttention(&b, c)
	}
	if m.filter == filterAttention {
		writeReminders(&b, report.Reminders(c))
	} else {
		writeSections(&b, filterTasks(m.tasks, m.filter))
	}
	if !m.fetchedAt.IsZero() {
		b.WriteString(mutedStyle.Render("Updated "+m.fetchedAt.Local().Format("15:04:05")) + "\n")
	}
	writeFooter(&b, m.cfg)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// filterTasks returns the tasks a status filter shows.
func filterTasks(tasks []model.Task, f filter) []model.Task {
	switch f {
	case filterTodo:
		return rules.ByStatus(tasks, model.StatusTodo)
	case filterInProgress:
		return rules.ByStatus(tasks, model.StatusInProgress)
	case filterDone:
		return rules.ByStatus(tasks, model.StatusDone)
	default:
		return tasks
	}
}

func writeTitle(b *strings.Builder) {
	title := "Mission Control"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeOverview(b *strings.Builder, tasks []model.Task) {
	b.WriteString(headingStyle.Render("Task Overview") + "\n\n")
	b.WriteString(fmt.Sprintf("  Todo: %d  In Progress: %d  Done: %d\n\n",
		len(rules.ByStatus(tasks, model.StatusTodo)),
		len(rules.ByStatus(tasks, model.StatusInProgress)),
		len(rules.ByStatus(tasks, model.StatusDone)),
	))
}

func writeAttention(b *strings.Builder, c rules.Classification) {
	b.WriteString(headingStyle.Render("Needs Attention") + "\n\n")
	b.WriteString(fmt.Sprintf("  Overdue: %d  High priority unstarted: %d  Stale: %d\n\n",
		len(c.Overdue), len(c.HighPriority), len(c.Stale)))
}

func writeSections(b *strings.Builder, tasks []model.Task) {
	for _, status := range model.Statuses() {
		group := rules.ByStatus(tasks, status)
		if len(group) == 0 {
			continue
		}
		b.WriteString(headingStyle.Render(fmt.Sprintf("%s %s (%d)", report.StatusEmoji(status), status, len(group))) + "\n\n")
		for i, t := range group {
			if i == maxPerSection {
				b.WriteString(mutedStyle.Render(fmt.Sprintf("  ... %d more", len(group)-maxPerSection)) + "\n")
				break
			}
			b.WriteString(formatTask(t) + "\n")
		}
		b.WriteString("\n")
	}
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
	}
}

func writeReminders(b *strings.Builder, reminders []report.Reminder) {
	if len(reminders) == 0 {
		b.WriteString("  All tasks are on track!\n\n")
		return
	}
	for _, r := range reminders {
		b.WriteString(fmt.Sprintf("  %-13s %s\n", r.Category, formatTask(r.Task)))
	}
	b.WriteString("\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Refresh now\n")
	b.WriteString("  s            Toggle attention summary\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Filter by todo\n")
	b.WriteString("  2            Filter by in_progress\n")
	b.WriteString("  3            Filter by done\n")
	b.WriteString("  4            Show tasks needing attention\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder, cfg *boardConfig) {
	line := fmt.Sprintf("Press h for help | q to quit | Refreshing every %s", cfg.interval)
	if cfg.source != "" {
		line += " | " + cfg.source
	}
	b.WriteString(mutedStyle.Render(line) + "\n")
}

func formatTask(t model.Task) string {
	priority := strings.ToUpper(string(t.Priority))
	if style, ok := priorityStyles[t.Priority]; ok {
		priority = style.Render(priority)
	}
	line := fmt.Sprintf("  %s [%s] %s", report.PriorityEmoji(t.Priority), priority, utils.Truncate(t.Title, 60))
	if t.IsAssigned() {
		line += mutedStyle.Render(" @" + t.AssignedTo.DisplayName(t.AssignedTo.ID))
	}
	if t.DueDate.IsSet() {
		line += mutedStyle.Render(" due " + t.DueDate.Format("2006-01-02"))
	}
	return line
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
