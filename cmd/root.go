package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func Execute() error {
	rootCmd, logCloser := newRootCmd()
	return executeRoot(rootCmd, logCloser)
}

// executeRoot runs rootCmd and closes the log file afterwards, including when
// the command failed.
func executeRoot(rootCmd *cobra.Command, logCloser io.Closer) error {
	err := rootCmd.Execute()
	if closeErr := logCloser.Close(); closeErr != nil {
		return errors.Join(err, fmt.Errorf("close log: %w", closeErr))
	}

	return err
}

func newRootCmd() (*cobra.Command, io.Closer) {
	app, err := wireApp()
	if err != nil {
		rootCmd := newBareRootCmd()
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, noopCloser{}
	}

	return newAppRootCmd(app), app.logCloser
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

func newBareRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "assess",
		Short:         "assess: track which browser tab an assessment runs on",
		Long:          "assess records the browser tab an assessment or quick assess started on, warns when the target tab changes, reloads or navigates away, and keeps the element path and snippet under review.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
}

func newAppRootCmd(app *app) *cobra.Command {
	rootCmd := newBareRootCmd()
	rootCmd.AddCommand(
		newVersionCmd(),
		newStartCmd(app),
		newCheckCmd(app),
		newContinueCmd(app),
		newRestartCmd(app),
		newRefreshedCmd(app),
		newDiscardCmd(app),
		newShowCmd(app),
		newPathCmd(app),
		newSnippetCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
