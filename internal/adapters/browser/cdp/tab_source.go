// Package cdp reads the browser tab an assessment targets through the Chrome
// DevTools Protocol.
package cdp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/ports"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/target"
)

const pageTargetType = "page"

type TabSource struct {
	cdpURL    string
	tabFilter string
}

var _ ports.TabSource = (*TabSource)(nil)

// NewTabSource returns a source reading page targets from the DevTools
// endpoint at cdpURL. tabFilter keeps only tabs whose URL contains it,
// compared case-insensitively; empty keeps every page.
func NewTabSource(cdpURL, tabFilter string) *TabSource {
	return &TabSource{cdpURL: cdpURL, tabFilter: tabFilter}
}

// ActiveTab lists the browser's targets over a browser-level connection and
// returns the first page matching the filter. It never opens or closes tabs.
func (s *TabSource) ActiveTab(ctx context.Context) (domain.Tab, error) {
	conn, err := dialBrowser(ctx, s.cdpURL)
	if err != nil {
		return domain.Tab{}, fmt.Errorf("connect to browser: %w", err)
	}
	defer conn.Close()

	targets, err := target.GetTargets().Do(cdp.WithExecutor(ctx, conn))
	if err != nil {
		return domain.Tab{}, fmt.Errorf("enumerate targets: %w", err)
	}

	tab, ok := pickTab(targets, s.tabFilter)
	if !ok {
		slog.Warn("no matching browser tab", "cdp_url", s.cdpURL, "tab_filter", s.tabFilter, "targets", len(targets))
		return domain.Tab{}, domain.ErrTabNotFound
	}

	slog.Debug("browser tab selected", "tab_id", tab.ID, "url", truncateURL(tab.URL))
	return tab, nil
}

func pickTab(targets []*target.Info, urlFilter string) (domain.Tab, bool) {
	filter := strings.ToLower(strings.TrimSpace(urlFilter))
	for _, t := range targets {
		if t == nil || t.Type != pageTargetType {
			continue
		}
		if filter != "" && !strings.Contains(strings.ToLower(t.URL), filter) {
			continue
		}
		return domain.Tab{ID: domain.TabID(t.TargetID), URL: t.URL, Title: t.Title}, true
	}

	return domain.Tab{}, false
}

func truncateURL(url string) string {
	if len(url) > 120 {
		return url[:120] + "..."
	}
	return url
}
