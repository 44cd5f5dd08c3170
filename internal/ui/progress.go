package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"karta/internal/driver"
)

const (
	labelQueued = "queued"
	labelLoaded = "loaded"
	labelOK     = "ok"
	labelError  = "error"
)

type checkModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	rows    []fileRow
	index   map[string]int
	width   int
	started time.Time
	done    bool
}

type fileRow struct {
	path    string
	label   string
	stage   driver.Stage
	elapsed time.Duration
}

type eventMsg driver.Event
type closedMsg struct{}

// NewCheckModel returns a Bubble Tea model that renders the progress of a
// check run fed by events. The model quits once events is closed.
func NewCheckModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	rows := make([]fileRow, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		rows = append(rows, fileRow{path: file, label: labelQueued})
		index[file] = i
	}
	return &checkModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		rows:    rows,
		index:   index,
		width:   80,
		started: time.Now(),
	}
}

// RunCheckProgress drives the model on out until events is closed.
func RunCheckProgress(out io.Writer, title string, files []string, events <-chan driver.Event) error {
	p := tea.NewProgram(NewCheckModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}

func (m *checkModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *checkModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.apply(driver.Event(msg))
		return m, tea.Batch(cmd, m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *checkModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	ok, failed := m.counts()
	header := fmt.Sprintf("%s %d/%d", m.title, ok+failed, len(m.rows))
	if m.done {
		header = fmt.Sprintf("done: %s in %s", header, time.Since(m.started).Round(time.Millisecond))
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const labelWidth = 8
	nameWidth := max(m.width-labelWidth-14, 20)
	for _, row := range m.rows {
		label := labelStyle(row.label).Render(fmt.Sprintf("%*s", labelWidth, row.label))
		fmt.Fprintf(&b, "  %s %s", label, truncate(row.path, nameWidth))
		if row.elapsed > 0 {
			fmt.Fprintf(&b, " (%s)", row.elapsed.Round(time.Microsecond))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	if failed > 0 {
		b.WriteString(labelStyle(labelError).Render(fmt.Sprintf("%d file(s) failed", failed)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *checkModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *checkModel) apply(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	row := &m.rows[idx]
	if row.label == labelOK || row.label == labelError {
		return nil
	}
	row.stage = ev.Stage
	if label := eventLabel(ev); label != "" {
		row.label = label
	}
	if ev.Elapsed > 0 {
		row.elapsed = ev.Elapsed
	}
	return m.prog.SetPercent(m.fraction())
}

func (m *checkModel) counts() (ok, failed int) {
	for _, row := range m.rows {
		switch row.label {
		case labelOK:
			ok++
		case labelError:
			failed++
		}
	}
	return ok, failed
}

func (m *checkModel) fraction() float64 {
	total := 0.0
	for _, row := range m.rows {
		total += rowWeight(row)
	}
	return total / float64(len(m.rows))
}

func rowWeight(row fileRow) float64 {
	switch row.label {
	case labelOK, labelError:
		return 1
	case labelQueued:
		return 0
	}
	switch row.stage {
	case driver.StageLoad:
		return 0.2
	case driver.StageCache:
		return 0.4
	case driver.StageParse:
		return 0.6
	default:
		return 0
	}
}

// eventLabel maps an event onto the row label. Load finishing is only an
// intermediate step; cache and parse finishing end the row.
func eventLabel(ev driver.Event) string {
	switch ev.Status {
	case driver.StatusQueued:
		return labelQueued
	case driver.StatusError:
		return labelError
	case driver.StatusDone:
		if ev.Stage == driver.StageLoad {
			return labelLoaded
		}
		return labelOK
	case driver.StatusWorking:
		switch ev.Stage {
		case driver.StageLoad:
			return "loading"
		case driver.StageCache:
			return "cache"
		case driver.StageParse:
			return "parsing"
		}
	}
	return ""
}

func labelStyle(label string) lipgloss.Style {
	switch label {
	case labelOK:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case labelError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "loading", "cache", "parsing", labelLoaded:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
