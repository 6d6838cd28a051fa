package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	dialogadapter "github.com/bnema/assess-cli/internal/adapters/render/dialog"
	"github.com/bnema/assess-cli/internal/application"
	"github.com/bnema/assess-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newCheckCmd(app *app) *cobra.Command {
	var kf kindFlag
	var tf tabFlags
	var asJSON bool
	var interactive bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Warn when the current tab is not the one the assessment started on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}
			tab, err := tf.resolve(cmd, app, asJSON)
			if err != nil {
				return err
			}

			check, err := app.targets.CheckTarget(cmd.Context(), kind, tab)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(check)
			}

			props := dialogadapter.Props{
				Check:     check,
				Copy:      application.DialogCopyFor(kind, check.Reason),
				StartedAt: check.StartedAt,
			}
			opts := dialogadapter.RenderOptions{Now: app.now()}

			if interactive && dialogadapter.Warns(check) {
				return chooseAndApply(cmd, app, props, opts)
			}

			rendered, err := app.renderDialog(props, opts)
			if err != nil {
				return fmt.Errorf("render target check: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	kf.bind(cmd)
	tf.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "Pick continue or restart when the target changed")
	cmd.MarkFlagsMutuallyExclusive("json", "interactive")

	return cmd
}

func chooseAndApply(cmd *cobra.Command, app *app, props dialogadapter.Props, opts dialogadapter.RenderOptions) error {
	choice, err := app.chooseAction(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), props, opts)
	if err != nil {
		if errors.Is(err, dialogadapter.ErrChoiceCancelled) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No changes made.")
			return nil
		}
		return fmt.Errorf("choose target action: %w", err)
	}

	check := props.Check
	var assessment domain.Assessment
	switch choice {
	case application.DialogChoiceContinue:
		assessment, err = app.targets.ContinueOnNewTarget(cmd.Context(), check.Kind, check.Current)
	case application.DialogChoiceRestart:
		assessment, err = app.targets.RestartOnNewTarget(cmd.Context(), check.Kind, check.Current)
	default:
		return fmt.Errorf("unknown dialog choice %q", choice)
	}
	if err != nil {
		return err
	}

	verb := "Continuing"
	if choice == application.DialogChoiceRestart {
		verb = "Started new"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s on %s\n", verb, check.Kind.Label(), assessment.ID, describeTab(assessment.Tab))
	return nil
}
