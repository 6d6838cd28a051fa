package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/events"
	"github.com/bnema/assess-cli/internal/ports"
)

// PathSnippetService keeps the path and snippet of the element under review
// on the running assessment of one kind.
type PathSnippetService struct {
	repo  ports.AssessmentRepository
	kind  domain.AssessmentKind
	clock ports.Clock
}

func NewPathSnippetService(repo ports.AssessmentRepository, kind domain.AssessmentKind, clock ports.Clock) *PathSnippetService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &PathSnippetService{repo: repo, kind: kind, clock: clock}
}

func (s *PathSnippetService) Subscribe(actions *events.PathSnippetActions) {
	actions.OnAddPath.AddListener(s.onAddPath)
	actions.OnAddSnippet.AddListener(s.onAddSnippet)
}

func (s *PathSnippetService) Selection(ctx context.Context) (domain.PathSnippet, error) {
	assessment, err := s.repo.GetByKind(ctx, s.kind)
	if err != nil {
		return domain.PathSnippet{}, err
	}

	return assessment.Selection, nil
}

func (s *PathSnippetService) onAddPath(ctx context.Context, path string) error {
	return s.update(ctx, func(selection *domain.PathSnippet) {
		selection.Path = path
	})
}

func (s *PathSnippetService) onAddSnippet(ctx context.Context, snippet string) error {
	return s.update(ctx, func(selection *domain.PathSnippet) {
		selection.Snippet = snippet
	})
}

func (s *PathSnippetService) update(ctx context.Context, apply func(*domain.PathSnippet)) error {
	assessment, err := s.repo.GetByKind(ctx, s.kind)
	if err != nil {
		return fmt.Errorf("load %s: %w", s.kind, err)
	}

	apply(&assessment.Selection)
	assessment.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, assessment); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}

	slog.Debug("path snippet updated", "kind", s.kind, "id", assessment.ID, "path", assessment.Selection.Path)
	return nil
}
