package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/spf13/cobra"
)

var errTabFlagsConflict = errors.New("--browser cannot be combined with --tab-id, --url or --title")

type kindFlag struct {
	raw string
}

func (f *kindFlag) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.raw, "kind", string(domain.AssessmentKindFull), "Assessment kind (assessment|quick-assess)")
}

func (f *kindFlag) kind() (domain.AssessmentKind, error) {
	return domain.ParseAssessmentKind(f.raw)
}

// tabFlags describe the current target tab, either spelled out on the
// command line or read from the browser over CDP.
type tabFlags struct {
	id      string
	url     string
	title   string
	browser bool
}

func (f *tabFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "tab-id", "", "Current tab ID")
	cmd.Flags().StringVar(&f.url, "url", "", "Current tab URL")
	cmd.Flags().StringVar(&f.title, "title", "", "Current tab title")
	cmd.Flags().BoolVar(&f.browser, "browser", false, "Read the current tab from the browser over CDP")
}

func (f *tabFlags) resolve(cmd *cobra.Command, app *app, quiet bool) (domain.Tab, error) {
	if !f.browser {
		tab := domain.Tab{
			ID:    domain.TabID(strings.TrimSpace(f.id)),
			URL:   strings.TrimSpace(f.url),
			Title: strings.TrimSpace(f.title),
		}
		if err := tab.Validate(); err != nil {
			return domain.Tab{}, fmt.Errorf("%w: pass --tab-id or --browser", err)
		}
		return tab, nil
	}

	if f.id != "" || f.url != "" || f.title != "" {
		return domain.Tab{}, errTabFlagsConflict
	}

	read := app.tabSource.ActiveTab
	if !quiet {
		read = func(ctx context.Context) (domain.Tab, error) {
			return runBrowserSpinner(ctx, cmd.ErrOrStderr(), app.cdpURL, app.tabSource.ActiveTab)
		}
	}

	tab, err := read(cmd.Context())
	if err != nil {
		return domain.Tab{}, fmt.Errorf("read browser tab: %w", err)
	}

	return tab, nil
}
