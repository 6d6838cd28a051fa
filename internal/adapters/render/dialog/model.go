package dialog

import (
	"errors"
	"io"

	"github.com/bnema/assess-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	props  Props
	opts   RenderOptions
	styles styles
	output string
}

func newModel(props Props, opts RenderOptions) model {
	return model{
		props:  props,
		opts:   opts,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		if Warns(m.props.Check) {
			m.output = renderView(m.props, m.opts, "", m.styles)
		} else {
			m.output = renderUnchanged(m.props.Check, m.styles)
		}
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the target change dialog when the check warns, and a one-line
// "unchanged" notice otherwise.
func Render(props Props, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(props, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

// Warns reports whether Render would draw the full dialog for check.
func Warns(check application.TargetCheck) bool {
	return check.Warn && !check.Previous.IsEmpty()
}
