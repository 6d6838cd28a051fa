package cdp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/ports"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/target"
)

const (
	defaultAttachTimeout = 10 * time.Second
	detachTimeout        = time.Second
	reloadQueueDepth     = 16
)

type Watcher struct {
	cdpURL        string
	attachTimeout time.Duration
}

var _ ports.ReloadWatcher = (*Watcher)(nil)

func NewWatcher(cdpURL string) *Watcher {
	return &Watcher{cdpURL: cdpURL, attachTimeout: defaultAttachTimeout}
}

// WatchReloads attaches to the tab and calls onReload with the new URL for
// every main-frame navigation until ctx is done. onReload runs on the calling
// goroutine, never on the CDP read loop. Only the attach handshake is bounded
// by the attach timeout. On return the session is detached; the tab stays open.
func (w *Watcher) WatchReloads(ctx context.Context, id domain.TabID, onReload func(url string)) error {
	if id == "" {
		return domain.ErrTabNotFound
	}

	conn, err := dialBrowser(ctx, w.cdpURL)
	if err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	defer conn.Close()

	attachCtx, attachCancel := context.WithTimeout(ctx, w.attachTimeout)
	defer attachCancel()

	sessionID, err := target.AttachToTarget(target.ID(id)).
		WithFlatten(true).
		Do(cdp.WithExecutor(attachCtx, conn))
	if err != nil {
		return fmt.Errorf("attach to tab %s: %w", id, err)
	}
	defer detach(conn, sessionID)

	reloads := make(chan string, reloadQueueDepth)
	detached := make(chan struct{})
	var detachOnce sync.Once
	onNavigation := navigationHandler(string(id), reloads)

	conn.listen(func(sid target.SessionID, ev any) {
		if e, ok := ev.(*target.EventDetachedFromTarget); ok {
			if e.SessionID == sessionID {
				detachOnce.Do(func() { close(detached) })
			}
			return
		}
		if sid == sessionID {
			onNavigation(ev)
		}
	})

	if err := page.Enable().Do(cdp.WithExecutor(attachCtx, conn.session(sessionID))); err != nil {
		return fmt.Errorf("enable page events on tab %s: %w", id, err)
	}
	attachCancel()

	slog.Info("watching tab for reloads", "tab_id", id, "session_id", sessionID)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-detached:
			return fmt.Errorf("tab %s detached: %w", id, domain.ErrTabNotFound)
		case <-conn.Done():
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("browser connection lost: %w", conn.Err())
		case url := <-reloads:
			if onReload != nil {
				onReload(url)
			}
		}
	}
}

// detach ends the flat session without closing its target.
func detach(conn *browserConn, sessionID target.SessionID) {
	ctx, cancel := context.WithTimeout(context.Background(), detachTimeout)
	defer cancel()

	if err := target.DetachFromTarget().WithSessionID(sessionID).Do(cdp.WithExecutor(ctx, conn)); err != nil {
		slog.Debug("detach from tab failed", "session_id", sessionID, "error", err)
	}
}

func navigationHandler(tabID string, reloads chan<- string) func(ev any) {
	return func(ev any) {
		e, ok := ev.(*page.EventFrameNavigated)
		if !ok || e.Frame == nil || e.Frame.ParentID != "" {
			return
		}

		select {
		case reloads <- e.Frame.URL:
			slog.Debug("tab navigated", "tab_id", tabID, "url", truncateURL(e.Frame.URL))
		default:
			slog.Warn("dropping tab navigation, queue full", "tab_id", tabID)
		}
	}
}
