package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/assess-cli/internal/adapters/browser/cdp"
	dialogadapter "github.com/bnema/assess-cli/internal/adapters/render/dialog"
	tomlrepo "github.com/bnema/assess-cli/internal/adapters/repo/toml"
	"github.com/bnema/assess-cli/internal/adapters/urlparser"
	"github.com/bnema/assess-cli/internal/application"
	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/events"
	"github.com/bnema/assess-cli/internal/logging"
	"github.com/bnema/assess-cli/internal/ports"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	cdpURLKey       = "cdp.url"
	cdpTabFilterKey = "cdp.tab_filter"
	logLevelKey     = "log.level"
	logFileKey      = "log.file"

	defaultCDPURL = "http://127.0.0.1:9222"
)

type app struct {
	targets      *application.TargetService
	actions      map[domain.AssessmentKind]*events.PathSnippetActions
	selections   map[domain.AssessmentKind]*application.PathSnippetService
	tabSource    ports.TabSource
	watcher      ports.ReloadWatcher
	renderDialog func(dialogadapter.Props, dialogadapter.RenderOptions) (string, error)
	chooseAction func(context.Context, io.Reader, io.Writer, dialogadapter.Props, dialogadapter.RenderOptions) (application.DialogChoice, error)
	logCloser    io.Closer
	cdpURL       string
	now          func() time.Time
}

func wireApp() (*app, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetDefault(cdpURLKey, defaultCDPURL)
	cfg.SetDefault(cdpTabFilterKey, "")
	cfg.SetDefault(logLevelKey, "info")
	cfg.SetDefault(logFileKey, filepath.Join(homeDir, tomlrepo.ConfigDir, "assess.log"))

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire assessment repository: %w", err)
	}

	logCloser, err := logging.Setup(
		envOrDefault("ASSESS_LOG_LEVEL", cfg.GetString(logLevelKey)),
		envOrDefault("ASSESS_LOG_FILE", cfg.GetString(logFileKey)),
	)
	if err != nil {
		return nil, fmt.Errorf("wire logging: %w", err)
	}

	clock := ports.SystemClock{}
	actions := make(map[domain.AssessmentKind]*events.PathSnippetActions, len(domain.AssessmentKinds()))
	selections := make(map[domain.AssessmentKind]*application.PathSnippetService, len(domain.AssessmentKinds()))
	for _, kind := range domain.AssessmentKinds() {
		kindActions := events.NewPathSnippetActions()
		selection := application.NewPathSnippetService(repo, kind, clock)
		selection.Subscribe(kindActions)

		actions[kind] = kindActions
		selections[kind] = selection
	}

	cdpURL := envOrDefault("ASSESS_CDP_URL", cfg.GetString(cdpURLKey))

	return &app{
		targets:      application.NewTargetService(repo, urlparser.AreURLsEqual, clock),
		actions:      actions,
		selections:   selections,
		tabSource:    cdp.NewTabSource(cdpURL, envOrDefault("ASSESS_TAB_FILTER", cfg.GetString(cdpTabFilterKey))),
		watcher:      cdp.NewWatcher(cdpURL),
		renderDialog: dialogadapter.Render,
		chooseAction: dialogadapter.Choose,
		logCloser:    logCloser,
		cdpURL:       cdpURL,
		now:          time.Now,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
