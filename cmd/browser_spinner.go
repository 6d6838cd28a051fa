package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var tabPickedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

type browserReadDoneMsg struct {
	tab domain.Tab
	err error
}

// browserSpinnerModel shows which DevTools endpoint is being read and, once
// done, which tab was picked from it.
type browserSpinnerModel struct {
	spinner  spinner.Model
	endpoint string
	read     tea.Cmd
	tab      domain.Tab
	err      error
	done     bool
}

func newBrowserSpinnerModel(endpoint string, read tea.Cmd) browserSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return browserSpinnerModel{
		spinner:  s,
		endpoint: endpoint,
		read:     read,
	}
}

func (m browserSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.read)
}

func (m browserSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case browserReadDoneMsg:
		m.done = true
		m.tab = msg.tab
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m browserSpinnerModel) View() string {
	switch {
	case !m.done:
		return fmt.Sprintf("%s Reading tabs from %s...", m.spinner.View(), m.endpoint)
	case m.err != nil:
		return ""
	default:
		return fmt.Sprintf("%s %s\n", tabPickedStyle.Render("Using"), describeTab(domain.NewPersistedTab(m.tab)))
	}
}

// runBrowserSpinner reads a tab from the browser at endpoint, showing progress
// on output, and leaves the picked tab on screen.
func runBrowserSpinner(ctx context.Context, output io.Writer, endpoint string, read func(context.Context) (domain.Tab, error)) (domain.Tab, error) {
	readCmd := func() tea.Msg {
		tab, err := read(ctx)
		return browserReadDoneMsg{tab: tab, err: err}
	}

	p := tea.NewProgram(
		newBrowserSpinnerModel(endpoint, readCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return domain.Tab{}, err
	}

	result, ok := finalModel.(browserSpinnerModel)
	if !ok {
		return domain.Tab{}, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.tab, result.err
}
