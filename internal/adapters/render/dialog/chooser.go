package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/assess-cli/internal/application"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrChoiceCancelled = errors.New("target change dialog dismissed")

type chooserModel struct {
	props     Props
	opts      RenderOptions
	styles    styles
	selected  application.DialogChoice
	confirmed bool
	cancelled bool
}

func newChooserModel(props Props, opts RenderOptions) chooserModel {
	return chooserModel{
		props:    props,
		opts:     opts,
		styles:   newStyles(),
		selected: application.DialogChoiceContinue,
	}
}

func (m chooserModel) Init() tea.Cmd {
	return nil
}

func (m chooserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "h", "shift+tab":
		m.selected = application.DialogChoiceContinue
	case "right", "l", "tab":
		m.selected = application.DialogChoiceRestart
	case "c":
		m.selected = application.DialogChoiceContinue
		m.confirmed = true
		return m, tea.Quit
	case "r":
		m.selected = application.DialogChoiceRestart
		m.confirmed = true
		return m, tea.Quit
	case "enter":
		m.confirmed = true
		return m, tea.Quit
	case "esc", "q", "ctrl+c":
		m.cancelled = true
		return m, tea.Quit
	}

	return m, nil
}

func (m chooserModel) View() string {
	if m.confirmed || m.cancelled {
		return ""
	}

	return renderView(m.props, m.opts, m.selected, m.styles) + "\n" +
		m.styles.meta.Render("←/→ select · enter confirm · c continue · r restart · esc dismiss") + "\n"
}

// Choose shows the dialog and waits for the user to pick an action. The
// dialog is modal: the only ways out are the two actions or a dismissal,
// which returns ErrChoiceCancelled.
func Choose(ctx context.Context, in io.Reader, out io.Writer, props Props, opts RenderOptions) (application.DialogChoice, error) {
	if !Warns(props.Check) {
		return "", fmt.Errorf("no target change to confirm")
	}

	p := tea.NewProgram(
		newChooserModel(props, opts),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	result, ok := finalModel.(chooserModel)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}
	if result.cancelled || !result.confirmed {
		return "", ErrChoiceCancelled
	}

	return result.selected, nil
}
