package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/events"
	"github.com/spf13/cobra"
)

func newPathCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Manage the element path under review",
	}

	cmd.AddCommand(
		newSelectionAddCmd(app, "path", "DOM path of the element under review", func(a *events.PathSnippetActions) *events.Action[string] {
			return a.OnAddPath
		}),
		newSelectionShowCmd(app, "path", func(selection domain.PathSnippet) string {
			return selection.Path
		}),
	)

	return cmd
}

func newSnippetCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snippet",
		Short: "Manage the HTML snippet under review",
	}

	cmd.AddCommand(
		newSelectionAddCmd(app, "snippet", "HTML snippet of the element under review", func(a *events.PathSnippetActions) *events.Action[string] {
			return a.OnAddSnippet
		}),
		newSelectionShowCmd(app, "snippet", func(selection domain.PathSnippet) string {
			return selection.Snippet
		}),
	)

	return cmd
}

func newSelectionAddCmd(app *app, noun, short string, action func(*events.PathSnippetActions) *events.Action[string]) *cobra.Command {
	var kf kindFlag

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("add <%s>", noun),
		Short: "Set the " + short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}

			value := strings.TrimSpace(args[0])
			if value == "" {
				return fmt.Errorf("%s must not be empty", noun)
			}

			actions, ok := app.actions[kind]
			if !ok {
				return fmt.Errorf("%w %q", domain.ErrInvalidKind, kind)
			}

			if err := action(actions).Invoke(cmd.Context(), value); err != nil {
				if errors.Is(err, domain.ErrAssessmentNotFound) {
					return fmt.Errorf("no %s is running: %w", kind.Label(), err)
				}
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s for %s\n", noun, kind.Label())
			return nil
		},
	}

	kf.bind(cmd)
	return cmd
}

func newSelectionShowCmd(app *app, noun string, field func(domain.PathSnippet) string) *cobra.Command {
	var kf kindFlag

	cmd := &cobra.Command{
		Use:   "show",
		Short: fmt.Sprintf("Print the %s under review", noun),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}

			service, ok := app.selections[kind]
			if !ok {
				return fmt.Errorf("%w %q", domain.ErrInvalidKind, kind)
			}

			selection, err := service.Selection(cmd.Context())
			if err != nil {
				return err
			}

			value := field(selection)
			if value == "" {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No %s set.\n", noun)
				return nil
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}

	kf.bind(cmd)
	return cmd
}
