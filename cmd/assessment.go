package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStartCmd(app *app) *cobra.Command {
	var kf kindFlag
	var tf tabFlags

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an assessment on the current tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}
			tab, err := tf.resolve(cmd, app, false)
			if err != nil {
				return err
			}

			assessment, err := app.targets.Start(cmd.Context(), kind, tab)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started %s %s on %s\n", kind.Label(), assessment.ID, describeTab(assessment.Tab))
			return nil
		},
	}

	kf.bind(cmd)
	tf.bind(cmd)
	return cmd
}

func newContinueCmd(app *app) *cobra.Command {
	var kf kindFlag
	var tf tabFlags

	cmd := &cobra.Command{
		Use:   "continue",
		Short: "Keep the running assessment and move it to the current tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}
			tab, err := tf.resolve(cmd, app, false)
			if err != nil {
				return err
			}

			assessment, err := app.targets.ContinueOnNewTarget(cmd.Context(), kind, tab)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Continuing %s %s on %s\n", kind.Label(), assessment.ID, describeTab(assessment.Tab))
			return nil
		},
	}

	kf.bind(cmd)
	tf.bind(cmd)
	return cmd
}

func newRestartCmd(app *app) *cobra.Command {
	var kf kindFlag
	var tf tabFlags

	cmd := &cobra.Command{
		Use:   "restart",
		Short: "Discard the running assessment and start over on the current tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}
			tab, err := tf.resolve(cmd, app, false)
			if err != nil {
				return err
			}

			assessment, err := app.targets.RestartOnNewTarget(cmd.Context(), kind, tab)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Started new %s %s on %s\n", kind.Label(), assessment.ID, describeTab(assessment.Tab))
			return nil
		},
	}

	kf.bind(cmd)
	tf.bind(cmd)
	return cmd
}

func newRefreshedCmd(app *app) *cobra.Command {
	var kf kindFlag

	cmd := &cobra.Command{
		Use:   "refreshed",
		Short: "Record that the target page was reloaded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}

			if err := app.targets.MarkRefreshed(cmd.Context(), kind); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked %s target as reloaded\n", kind.Label())
			return nil
		},
	}

	kf.bind(cmd)
	return cmd
}

func newDiscardCmd(app *app) *cobra.Command {
	var kf kindFlag

	cmd := &cobra.Command{
		Use:   "discard",
		Short: "Discard the running assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}

			if err := app.targets.Discard(cmd.Context(), kind); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Discarded %s\n", kind.Label())
			return nil
		},
	}

	kf.bind(cmd)
	return cmd
}

func newShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show running assessments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			assessments, err := app.targets.List(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				if assessments == nil {
					assessments = []domain.Assessment{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(assessments)
			}

			return writeAssessments(cmd.OutOrStdout(), assessments, app.now())
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")
	return cmd
}

func writeAssessments(out io.Writer, assessments []domain.Assessment, now time.Time) error {
	if len(assessments) == 0 {
		_, err := fmt.Fprintln(out, "No assessments running.")
		return err
	}

	for i, assessment := range assessments {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}

		_, _ = fmt.Fprintf(out, "%s (%s)\n", assessment.Kind.Label(), assessment.ID)
		_, _ = fmt.Fprintf(out, "  target: %s\n", describeTab(assessment.Tab))
		if assessment.Tab != nil && assessment.Tab.AppRefreshed {
			_, _ = fmt.Fprintln(out, "  reloaded: yes")
		}
		if !assessment.StartedAt.IsZero() {
			_, _ = fmt.Fprintf(out, "  started: %s (%s ago)\n",
				assessment.StartedAt.Local().Format(time.DateTime),
				now.Sub(assessment.StartedAt).Truncate(time.Second))
		}
		if assessment.Selection.Path != "" {
			_, _ = fmt.Fprintf(out, "  path: %s\n", assessment.Selection.Path)
		}
		if assessment.Selection.Snippet != "" {
			_, _ = fmt.Fprintf(out, "  snippet: %s\n", assessment.Selection.Snippet)
		}
	}

	return nil
}

func describeTab(tab *domain.PersistedTab) string {
	if tab.IsEmpty() {
		return "no tab"
	}

	switch {
	case tab.Title != "" && tab.URL != "":
		return fmt.Sprintf("%s <%s> (tab %s)", tab.Title, tab.URL, tab.ID)
	case tab.URL != "":
		return fmt.Sprintf("%s (tab %s)", tab.URL, tab.ID)
	default:
		return fmt.Sprintf("tab %s", tab.ID)
	}
}
