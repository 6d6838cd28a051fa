package dialog

import (
	"testing"
	"time"

	"github.com/bnema/assess-cli/internal/application"
	"github.com/bnema/assess-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func warningProps(reason domain.TargetChangeReason) Props {
	return Props{
		Check: application.TargetCheck{
			Kind:     domain.AssessmentKindFull,
			Previous: &domain.PersistedTab{ID: "1", URL: "https://example.com/cart", Title: "Cart"},
			Current:  domain.Tab{ID: "2", URL: "https://example.com/checkout", Title: "Checkout"},
			Warn:     true,
			Reason:   reason,
		},
		Copy: application.DialogCopyFor(domain.AssessmentKindFull, reason),
	}
}

func TestRenderTargetChangeDialog(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	props := warningProps(domain.TargetChangeTabChanged)
	props.StartedAt = now.Add(-3 * time.Hour)

	output, err := Render(props, RenderOptions{Now: now})
	require.NoError(t, err)

	assert.Contains(t, output, "Assessment in progress")
	assert.Contains(t, output, "There is already an assessment running on Cart <https://example.com/cart>.")
	assert.Contains(t, output, "Would you like to continue your current Assessment on the new target?")
	assert.Contains(t, output, "Note: If you continue")
	assert.Contains(t, output, "Starting a new Assessment will clear all existing Assessment data.")
	assert.Contains(t, output, "[ Continue previous ]")
	assert.Contains(t, output, "[ Start new Assessment ]")
	assert.Contains(t, output, "Started 3 hours ago (09:00)")
}

func TestRenderRefreshedDialogUsesReloadTitle(t *testing.T) {
	output, err := Render(warningProps(domain.TargetChangeAppRefreshed), RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "Target page was reloaded")
	assert.NotContains(t, output, "Started")
}

func TestRenderWithoutWarningShowsUnchangedNotice(t *testing.T) {
	props := warningProps(domain.TargetChangeNone)
	props.Check.Warn = false

	output, err := Render(props, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "Target unchanged: Cart <https://example.com/cart>")
	assert.NotContains(t, output, "Continue previous")
}

func TestRenderWithoutRunningAssessment(t *testing.T) {
	output, err := Render(Props{Check: application.TargetCheck{Kind: domain.AssessmentKindQuickAssess}}, RenderOptions{})
	require.NoError(t, err)
	assert.Contains(t, output, "No quick assess is running.")
}

func TestRenderViewIsEmptyWhenNoWarning(t *testing.T) {
	t.Parallel()

	props := warningProps(domain.TargetChangeNone)
	props.Check.Warn = false
	assert.Empty(t, renderView(props, RenderOptions{}, "", newStyles()))

	props = warningProps(domain.TargetChangeTabChanged)
	props.Check.Previous = nil
	assert.Empty(t, renderView(props, RenderOptions{}, "", newStyles()))
}

func TestPreviousTabLinkFallbacks(t *testing.T) {
	t.Parallel()

	s := newStyles()
	assert.Equal(t, "https://example.com", previousTabLink(domain.PersistedTab{ID: "1", URL: "https://example.com"}, s))
	assert.Equal(t, "Home", previousTabLink(domain.PersistedTab{ID: "1", Title: "Home"}, s))
	assert.Equal(t, "tab 9", previousTabLink(domain.PersistedTab{ID: "9"}, s))
}

func TestFormatSince(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		started time.Time
		want    string
	}{
		{name: "future", started: now.Add(time.Minute), want: "just now"},
		{name: "seconds", started: now.Add(-30 * time.Second), want: "just now"},
		{name: "one minute", started: now.Add(-time.Minute), want: "1 minute ago"},
		{name: "minutes", started: now.Add(-45 * time.Minute), want: "45 minutes ago"},
		{name: "one hour", started: now.Add(-61 * time.Minute), want: "1 hour ago (10:59)"},
		{name: "days", started: now.Add(-50 * time.Hour), want: "2 days ago (10:00 on 15 Oct)"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, formatSince(tc.started, now))
		})
	}
}

func TestWithArticle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "an assessment", withArticle("assessment"))
	assert.Equal(t, "a quick assess", withArticle("quick assess"))
}

func TestChooserModelSelection(t *testing.T) {
	t.Parallel()

	m := newChooserModel(warningProps(domain.TargetChangeURLChanged), RenderOptions{})
	assert.Equal(t, application.DialogChoiceContinue, m.selected)
	assert.Contains(t, m.View(), "enter confirm")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(chooserModel)
	assert.Nil(t, cmd)
	assert.Equal(t, application.DialogChoiceRestart, m.selected)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m = next.(chooserModel)
	assert.Equal(t, application.DialogChoiceContinue, m.selected)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(chooserModel)
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(chooserModel)
	require.NotNil(t, cmd)
	assert.True(t, m.confirmed)
	assert.Equal(t, application.DialogChoiceRestart, m.selected)
	assert.Empty(t, m.View())
}

func TestChooserModelShortcutsAndDismiss(t *testing.T) {
	t.Parallel()

	m := newChooserModel(warningProps(domain.TargetChangeTabChanged), RenderOptions{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	chosen := next.(chooserModel)
	require.NotNil(t, cmd)
	assert.True(t, chosen.confirmed)
	assert.Equal(t, application.DialogChoiceRestart, chosen.selected)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	dismissed := next.(chooserModel)
	assert.True(t, dismissed.cancelled)
	assert.False(t, dismissed.confirmed)

	next, cmd = m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	assert.Equal(t, m.selected, next.(chooserModel).selected)
}
