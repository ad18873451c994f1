package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/adamgarcia4/goLearning/rhocollide/logger"
	"github.com/adamgarcia4/goLearning/rhocollide/rho"
)

var interactiveOpts searchFlags

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Run a collision search with a live terminal view",
	Long: `Run a collision search under a terminal UI showing the search phase,
rendezvous table size, trail and step counts, and recent log lines.

Keyboard shortcuts:
  Q - Quit (cancels a running search)
  ↑/↓/j/k - Scroll logs

Examples:
  rhocollide interactive --bits=40 --distinguished-bits=10`,
	Args: cobra.NoArgs,
	Run:  runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
	interactiveOpts.bind(interactiveCmd)
}

const logLines = 12

type model struct {
	search    *rho.Search
	cancel    context.CancelFunc
	done      <-chan searchDoneMsg
	started   time.Time
	logBuffer *logger.LogBuffer
	logScroll int
	width     int

	result  *rho.Result
	err     error
	elapsed time.Duration
	report  string
}

type tickMsg struct{}

type searchDoneMsg struct {
	result *rho.Result
	err    error
}

func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

func waitForSearch(done <-chan searchDoneMsg) tea.Cmd {
	return func() tea.Msg {
		return <-done
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForSearch(m.done))
}

func (m model) running() bool {
	return m.result == nil && m.err == nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "up", "k":
			maxScroll := max(0, m.logBuffer.Len()-logLines)
			if m.logScroll < maxScroll {
				m.logScroll++
			}
		case "down", "j":
			if m.logScroll > 0 {
				m.logScroll--
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.running() {
			m.elapsed = time.Since(m.started)
		}
		return m, tick()

	case searchDoneMsg:
		m.result, m.err = msg.result, msg.err
		m.elapsed = time.Since(m.started)
		if msg.result != nil {
			var b strings.Builder
			if err := rho.WriteReport(&b, msg.result); err != nil {
				m.err = err
			}
			m.report = b.String()
		}
		return m, nil
	}

	return m, nil
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(1, 2)
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(22)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			PaddingTop(1)
)

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("rhocollide: " + m.search.Walker().Name()))
	s.WriteString("\n")

	snap := m.search.Stats().Snapshot()
	rate := 0.0
	if secs := m.elapsed.Seconds(); secs > 0 {
		rate = float64(snap.Steps) / secs
	}
	rows := [][2]string{
		{"Phase", snap.Phase.String()},
		{"Attempt", fmt.Sprintf("%d", snap.Attempts)},
		{"Rendezvous entries", fmt.Sprintf("%d", snap.TableSize)},
		{"Trails", fmt.Sprintf("%d (%d dropped, %d duplicate starts)", snap.Trails, snap.Dropped, snap.Duplicates)},
		{"Walk steps", fmt.Sprintf("%d (%.0f/s)", snap.Steps, rate)},
		{"Elapsed", m.elapsed.Truncate(100 * time.Millisecond).String()},
	}
	for _, row := range rows {
		s.WriteString("  " + labelStyle.Render(row[0]) + row[1] + "\n")
	}
	s.WriteString("\n")

	if m.err != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	}
	if m.report != "" {
		s.WriteString(reportStyle.Render(strings.TrimSuffix(m.report, "\n")))
		s.WriteString("\n\n")
	}

	boxWidth := 100
	if m.width > 0 {
		boxWidth = m.width - 4 // Leave some margin
	}
	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Height(logLines + 1).
		Width(boxWidth)
	s.WriteString(logStyle.Render("Logs:\n" + strings.Join(m.logView(), "\n")))
	s.WriteString("\n")

	s.WriteString(helpStyle.Render("↑/↓/j/k to scroll logs | Q to quit"))
	return s.String()
}

// logView returns the visible log lines, newest first
func (m model) logView() []string {
	entries := m.logBuffer.GetRecent(logLines + m.logScroll)
	if len(entries) == 0 {
		return []string{"(no logs yet)"}
	}
	end := max(0, len(entries)-m.logScroll)
	start := max(0, end-logLines)

	lines := make([]string, 0, end-start)
	for i := end - 1; i >= start; i-- {
		lines = append(lines, logger.FormatLogEntry(entries[i]))
	}
	return lines
}

func runInteractive(cmd *cobra.Command, args []string) {
	// Initialize logger for interactive mode (no stdout, only log buffer)
	logBuffer := logger.GetGlobalLogBuffer()
	logger.Init("", nil)
	logger.AddOutput(logger.NewLogBufferWriter(logBuffer))
	logger.SetVerbose(interactiveOpts.verbose)

	s, err := rho.New(interactiveOpts.config(cmd), logf)
	if err != nil {
		fmt.Printf("Error creating search: %v\n", err)
		return
	}

	stop, err := interactiveOpts.observability(s)
	defer stop()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan searchDoneMsg, 1)
	go func() {
		result, err := s.Run(ctx)
		done <- searchDoneMsg{result: result, err: err}
	}()

	p := tea.NewProgram(model{
		search:    s,
		cancel:    cancel,
		done:      done,
		started:   time.Now(),
		logBuffer: logBuffer,
	})
	final, err := p.Run()
	if err != nil {
		fmt.Printf("Error running interactive mode: %v\n", err)
		return
	}

	// Leave the report on the terminal after the UI exits
	if m, ok := final.(model); ok && m.report != "" {
		fmt.Print(m.report)
	}
}
