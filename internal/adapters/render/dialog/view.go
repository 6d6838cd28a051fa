package dialog

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/bnema/assess-cli/internal/application"
	"github.com/bnema/assess-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Props carries everything the target change dialog shows.
type Props struct {
	Check     application.TargetCheck
	Copy      application.DialogCopy
	StartedAt time.Time
}

type RenderOptions struct {
	Now time.Time
	// Width wraps the dialog body; zero disables wrapping.
	Width int
}

func renderView(props Props, opts RenderOptions, selected application.DialogChoice, s styles) string {
	if !Warns(props.Check) {
		return ""
	}

	body := s.body
	if opts.Width > 0 {
		body = body.Width(opts.Width)
	}

	lines := []string{
		s.title.Render(props.Copy.Title),
		s.section.Render(body.Render(fmt.Sprintf(
			"There is already %s running on %s. %s",
			withArticle(strings.ToLower(props.Check.Kind.Label())),
			previousTabLink(*props.Check.Previous, s),
			props.Copy.FirstText,
		))),
	}

	if started := startedLine(props.StartedAt, opts.Now); started != "" {
		lines = append(lines, s.meta.Render(started))
	}

	lines = append(lines,
		s.section.Render(body.Render(s.term.Render("Note")+": "+props.Copy.NoteText)),
		s.section.Render(s.warning.Render(props.Copy.WarningText)),
		s.section.Render(buttonRow(props.Copy, selected, s)),
	)

	return s.frame.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func previousTabLink(tab domain.PersistedTab, s styles) string {
	title := strings.TrimSpace(tab.Title)
	if title == "" {
		title = tab.URL
	}
	if title == "" {
		return s.link.Render(fmt.Sprintf("tab %s", tab.ID))
	}
	if tab.URL == "" || title == tab.URL {
		return s.link.Render(title)
	}

	return s.link.Render(title) + " " + s.linkURL.Render("<"+tab.URL+">")
}

func buttonRow(text application.DialogCopy, selected application.DialogChoice, s styles) string {
	continueButton := s.button
	restartButton := s.button
	switch selected {
	case application.DialogChoiceContinue:
		continueButton = s.buttonPick
	case application.DialogChoiceRestart:
		restartButton = s.buttonPick
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		continueButton.Render("[ "+text.ContinueText+" ]"),
		"  ",
		restartButton.Render("[ "+text.RestartText+" ]"),
	)
}

func renderUnchanged(check application.TargetCheck, s styles) string {
	if check.Previous.IsEmpty() {
		return s.unchanged.Render(fmt.Sprintf("No %s is running.", strings.ToLower(check.Kind.Label())))
	}

	return s.unchanged.Render(fmt.Sprintf("Target unchanged: %s", previousTabLink(*check.Previous, s)))
}

func startedLine(startedAt, now time.Time) string {
	if startedAt.IsZero() || now.IsZero() {
		return ""
	}

	return "Started " + formatSince(startedAt, now)
}

func formatSince(startedAt, now time.Time) string {
	if !startedAt.Before(now) {
		return "just now"
	}

	elapsed := now.Sub(startedAt)
	if elapsed < time.Hour {
		minutes := int(math.Floor(elapsed.Minutes()))
		if minutes < 1 {
			return "just now"
		}
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
	}

	if elapsed < 24*time.Hour {
		hours := int(math.Floor(elapsed.Hours()))
		return fmt.Sprintf("%d %s ago (%s)", hours, plural(hours, "hour"), startedAt.Format("15:04"))
	}

	days := int(math.Floor(elapsed.Hours() / 24))
	return fmt.Sprintf("%d %s ago (%s)", days, plural(days, "day"), startedAt.Format("15:04 on 02 Jan"))
}

func withArticle(noun string) string {
	if noun != "" && strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}

	return "a " + noun
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}

	return unit + "s"
}
