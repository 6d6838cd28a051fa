package application

import (
	"fmt"

	"github.com/bnema/assess-cli/internal/domain"
)

type DialogChoice string

const (
	DialogChoiceContinue DialogChoice = "continue"
	DialogChoiceRestart  DialogChoice = "restart"
)

// DialogCopy is the text shown when a target change needs confirmation. The
// left action accepts the new target, the right one discards and restarts.
type DialogCopy struct {
	Title        string
	FirstText    string
	NoteText     string
	WarningText  string
	ContinueText string
	RestartText  string
}

func DialogCopyFor(kind domain.AssessmentKind, reason domain.TargetChangeReason) DialogCopy {
	label := kind.Label()

	text := DialogCopy{
		Title:        fmt.Sprintf("%s in progress", label),
		FirstText:    fmt.Sprintf("Would you like to continue your current %s on the new target?", label),
		NoteText:     fmt.Sprintf("If you continue, the results collected so far stay attached to this %s.", label),
		WarningText:  fmt.Sprintf("Starting a new %s will clear all existing %s data.", label, label),
		ContinueText: "Continue previous",
		RestartText:  fmt.Sprintf("Start new %s", label),
	}

	if reason == domain.TargetChangeAppRefreshed {
		text.Title = "Target page was reloaded"
		text.FirstText = fmt.Sprintf("The page was reloaded since the %s started, so highlighted results may be out of date.", label)
	}

	return text
}
