package domain

import (
	"fmt"
	"strings"
)

type TabID string

// Tab is the page currently observed in the browser.
type Tab struct {
	ID    TabID
	URL   string
	Title string
}

func (t Tab) Validate() error {
	if strings.TrimSpace(string(t.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTab)
	}

	return nil
}

// PersistedTab is the tab recorded when an assessment started.
type PersistedTab struct {
	ID    TabID
	URL   string
	Title string
	// AppRefreshed is set once a reload of the target page was detected.
	AppRefreshed bool
}

func (p *PersistedTab) IsEmpty() bool {
	return p == nil || *p == PersistedTab{}
}

func NewPersistedTab(tab Tab) *PersistedTab {
	return &PersistedTab{ID: tab.ID, URL: tab.URL, Title: tab.Title}
}
