package ports

import (
	"context"

	"github.com/bnema/assess-cli/internal/domain"
)

type TabSource interface {
	ActiveTab(ctx context.Context) (domain.Tab, error)
}

// ReloadWatcher calls onReload each time the tab reloads or navigates, until
// ctx is done.
type ReloadWatcher interface {
	WatchReloads(ctx context.Context, id domain.TabID, onReload func(url string)) error
}
