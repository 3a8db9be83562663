package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"filecopier/internal/domain"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// Phase represents the current state of the TUI
type Phase int

const (
	PhaseScanning Phase = iota
	PhaseTransferring
	PhaseDone
	PhaseError
)

const recentLines = 6

// Messages for the TUI
type (
	EventMsg struct {
		Event domain.Event
	}
	DoneMsg struct {
		Summary domain.Summary
	}
	ErrorMsg struct {
		Err error
	}
	tickMsg time.Time
)

// Sender is satisfied by *tea.Program.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramSink forwards run events into a running program.
type ProgramSink struct {
	Program Sender
}

func (s ProgramSink) OnEvent(event domain.Event) {
	s.Program.Send(EventMsg{Event: event})
}

// Config for the TUI
type Config struct {
	SourceDir string
	TargetDir string
	Mode      domain.Mode
	Verbose   bool
}

// Model is the main TUI model
type Model struct {
	config    Config
	Phase     Phase
	spinner   spinner.Model
	progress  progress.Model
	current   int
	total     int
	succeeded int
	failed    int
	lines     []string
	warnings  []string
	Summary   domain.Summary
	Err       error
	Quitting  bool
	width     int
	height    int
}

// NewModel creates a new TUI model
func NewModel(cfg Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return Model{
		config:   cfg,
		Phase:    PhaseScanning,
		spinner:  s,
		progress: p,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-20, 60)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.Quitting = true
			return m, tea.Quit
		case "enter":
			if m.Phase == PhaseDone || m.Phase == PhaseError {
				return m, tea.Quit
			}
		}

	case EventMsg:
		m = m.applyEvent(msg.Event)
		return m, nil

	case DoneMsg:
		m.Phase = PhaseDone
		m.Summary = msg.Summary
		m.succeeded = msg.Summary.Succeeded
		m.failed = msg.Summary.Failed
		return m, m.progress.SetPercent(1)

	case ErrorMsg:
		m.Phase = PhaseError
		m.Err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseTransferring {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case tickMsg:
		if m.Phase == PhaseScanning || m.Phase == PhaseTransferring {
			var cmds []tea.Cmd
			if m.total > 0 {
				cmds = append(cmds, m.progress.SetPercent(float64(m.current)/float64(m.total)))
			}
			cmds = append(cmds, tickCmd())
			return m, tea.Batch(cmds...)
		}
	}

	return m, nil
}

func (m Model) applyEvent(event domain.Event) Model {
	switch event.Kind {
	case domain.EventStart:
		m.Phase = PhaseTransferring
		m.total = event.Total
	case domain.EventTransferred:
		m.current, m.total = event.Current, event.Total
		m.succeeded++
		m.lines = pushLine(m.lines, successStyle.Render(iconSuccess)+" "+event.Message)
	case domain.EventFailed:
		m.current, m.total = event.Current, event.Total
		m.failed++
		m.lines = pushLine(m.lines, errorStyle.Render(iconError)+" "+event.Message)
	case domain.EventWarning:
		m.warnings = append(m.warnings, event.Message)
	case domain.EventNoMatch:
		m.lines = pushLine(m.lines, event.Message)
	}
	return m
}

func pushLine(lines []string, line string) []string {
	lines = append(lines, line)
	if len(lines) > recentLines {
		lines = lines[len(lines)-recentLines:]
	}
	return lines
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.Phase {
	case PhaseScanning:
		b.WriteString(fmt.Sprintf("%s Scanning source...", m.spinner.View()))
	case PhaseTransferring:
		b.WriteString(m.renderTransfer())
	case PhaseDone:
		b.WriteString(m.renderTransfer())
		b.WriteString("\n")
		b.WriteString(m.renderCompletion())
	case PhaseError:
		b.WriteString(m.renderError())
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(iconTitle + " File Copier")
	subtitle := subtitleStyle.Render(fmt.Sprintf("Rule-based %s", m.config.Mode))

	dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		subtitle,
		"",
		dimStyle.Render(fmt.Sprintf("%s Source: %s", iconFolder, shortenPath(m.config.SourceDir))),
		dimStyle.Render(fmt.Sprintf("%s Target: %s", iconFolder, shortenPath(m.config.TargetDir))),
	)
}

func (m Model) renderTransfer() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Transferring Files"))
	b.WriteString("\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.current) / float64(m.total)
	}

	if m.Phase == PhaseTransferring {
		b.WriteString(fmt.Sprintf("  %s Working...\n\n", m.spinner.View()))
	}
	b.WriteString(fmt.Sprintf("  %s\n", m.progress.ViewAs(percent)))

	countStyle := lipgloss.NewStyle().Foreground(primaryColor).Bold(true)
	percentStyle := lipgloss.NewStyle().Foreground(dimTextColor)

	b.WriteString(fmt.Sprintf("  %s %s\n",
		countStyle.Render(fmt.Sprintf("%d/%d files", m.current, m.total)),
		percentStyle.Render(fmt.Sprintf("(%.0f%%)", percent*100)),
	))

	if len(m.lines) > 0 {
		b.WriteString("\n")
		for _, line := range m.lines {
			b.WriteString("  ")
			b.WriteString(fileNameStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if len(m.warnings) > 0 {
		b.WriteString("\n")
		for _, w := range m.warnings {
			b.WriteString(fmt.Sprintf("  %s %s\n", warningStyle.Render(iconWarning), w))
		}
	}

	return b.String()
}

func (m Model) renderCompletion() string {
	var b strings.Builder

	b.WriteString(sectionStyle.Render("Summary"))
	b.WriteString("\n\n")

	if m.Summary.NoMatch {
		dimStyle := lipgloss.NewStyle().Foreground(dimTextColor)
		b.WriteString(dimStyle.Render("  No matching files"))
		b.WriteString("\n")
	} else {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Processed:"), successStyle.Render(fmt.Sprintf("%s %d", iconSuccess, m.succeeded))))
		failedStyle := statValueStyle
		if m.failed > 0 {
			failedStyle = errorStyle
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Errored:"), failedStyle.Render(fmt.Sprintf("%s %d", iconError, m.failed))))
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Transferred:"), statValueStyle.Render(humanize.Bytes(uint64(m.Summary.Bytes)))))
	}

	if m.config.Verbose && m.Summary.Failed > 0 {
		b.WriteString("\n")
		for _, outcome := range m.Summary.Outcomes {
			if outcome.OK() {
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s: %s\n",
				errorStyle.Render(iconError),
				pathStyle.Render(shortenPath(outcome.Candidate.AbsolutePath)),
				outcome.ErrorMessage(),
			))
		}
		b.WriteString("\n")
	}

	if m.Summary.LogPath != "" {
		b.WriteString(fmt.Sprintf("  %s  %s\n", statLabelStyle.Render("Log file:"), pathStyle.Render(shortenPath(m.Summary.LogPath))))
	}

	return b.String()
}

func (m Model) renderError() string {
	icon := errorStyle.Render(iconError)
	msg := errorStyle.Render(fmt.Sprintf("Error: %s", m.Err.Error()))

	return highlightBoxStyle.
		BorderForeground(errorColor).
		Render(fmt.Sprintf("%s %s", icon, msg))
}

func (m Model) renderHelp() string {
	var help string
	switch m.Phase {
	case PhaseScanning:
		help = "Press q to quit"
	case PhaseTransferring:
		help = "Transferring files... Please wait"
	case PhaseDone:
		help = "Press Enter to exit"
	case PhaseError:
		help = "Press Enter or q to exit"
	}
	return helpStyle.Render(help)
}

// shortenPath replaces the home directory prefix with ~ for display
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
