package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newWatchCmd(app *app) *cobra.Command {
	var kf kindFlag

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Mark the assessment refreshed whenever its tab reloads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kf.kind()
			if err != nil {
				return err
			}

			assessment, err := app.targets.Get(cmd.Context(), kind)
			if err != nil {
				return err
			}
			if assessment.Tab.IsEmpty() {
				return fmt.Errorf("%s %s has no target tab: %w", kind.Label(), assessment.ID, domain.ErrTabNotFound)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Watching %s for reloads (Ctrl+C to stop)\n", describeTab(assessment.Tab))

			return app.watcher.WatchReloads(ctx, assessment.Tab.ID, func(url string) {
				if err := app.targets.MarkRefreshed(ctx, kind); err != nil {
					slog.Warn("mark refreshed failed", "kind", kind, "error", err)
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "could not record reload: %v\n", err)
					return
				}
				_, _ = fmt.Fprintf(out, "Tab reloaded: %s\n", url)
			})
		},
	}

	kf.bind(cmd)
	return cmd
}
