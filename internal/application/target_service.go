package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/ports"
	"github.com/google/uuid"
)

type TargetService struct {
	repo      ports.AssessmentRepository
	urlsEqual domain.URLEquivalence
	clock     ports.Clock
	newID     func() domain.AssessmentID
}

func NewTargetService(repo ports.AssessmentRepository, urlsEqual domain.URLEquivalence, clock ports.Clock) *TargetService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &TargetService{
		repo:      repo,
		urlsEqual: urlsEqual,
		clock:     clock,
		newID: func() domain.AssessmentID {
			return domain.AssessmentID(uuid.NewString())
		},
	}
}

// Start records tab as the target of a new assessment, replacing any running
// assessment of the same kind.
func (s *TargetService) Start(ctx context.Context, kind domain.AssessmentKind, tab domain.Tab) (domain.Assessment, error) {
	if err := tab.Validate(); err != nil {
		return domain.Assessment{}, err
	}

	assessment := s.newAssessment(kind, tab)
	if err := s.repo.Save(ctx, assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("save assessment: %w", err)
	}

	slog.Info("assessment started", "kind", kind, "id", assessment.ID, "tab_id", tab.ID, "url", tab.URL)
	return assessment, nil
}

func (s *TargetService) Get(ctx context.Context, kind domain.AssessmentKind) (domain.Assessment, error) {
	assessment, err := s.repo.GetByKind(ctx, kind)
	if err != nil {
		return domain.Assessment{}, err
	}

	return assessment, nil
}

func (s *TargetService) List(ctx context.Context) ([]domain.Assessment, error) {
	return s.repo.List(ctx)
}

// CheckTarget compares the running assessment's tab with current. Without a
// running assessment the check never warns.
func (s *TargetService) CheckTarget(ctx context.Context, kind domain.AssessmentKind, current domain.Tab) (TargetCheck, error) {
	check := TargetCheck{Kind: kind, Current: current, Reason: domain.TargetChangeNone}

	assessment, err := s.repo.GetByKind(ctx, kind)
	if err != nil {
		if errors.Is(err, domain.ErrAssessmentNotFound) {
			return check, nil
		}
		return TargetCheck{}, fmt.Errorf("load assessment: %w", err)
	}

	check.AssessmentID = assessment.ID
	check.StartedAt = assessment.StartedAt
	check.Previous = assessment.Tab
	check.Reason = domain.ClassifyTargetChange(assessment.Tab, current, s.urlsEqual)
	check.Warn = domain.ShouldWarnOfTargetChange(assessment.Tab, current, s.urlsEqual)

	slog.Debug("target checked", "kind", kind, "warn", check.Warn, "reason", check.Reason, "tab_id", current.ID)
	return check, nil
}

// ContinueOnNewTarget keeps the collected results and moves the assessment
// onto current.
func (s *TargetService) ContinueOnNewTarget(ctx context.Context, kind domain.AssessmentKind, current domain.Tab) (domain.Assessment, error) {
	if err := current.Validate(); err != nil {
		return domain.Assessment{}, err
	}

	assessment, err := s.repo.GetByKind(ctx, kind)
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("load assessment: %w", err)
	}

	assessment.Tab = domain.NewPersistedTab(current)
	assessment.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("save assessment: %w", err)
	}

	slog.Info("assessment continued on new target", "kind", kind, "id", assessment.ID, "tab_id", current.ID, "url", current.URL)
	return assessment, nil
}

// RestartOnNewTarget replaces the running assessment with a fresh one on
// current in a single save. A failed save leaves the old assessment intact.
func (s *TargetService) RestartOnNewTarget(ctx context.Context, kind domain.AssessmentKind, current domain.Tab) (domain.Assessment, error) {
	if err := current.Validate(); err != nil {
		return domain.Assessment{}, err
	}

	assessment := s.newAssessment(kind, current)
	if err := s.repo.Save(ctx, assessment); err != nil {
		return domain.Assessment{}, fmt.Errorf("save assessment: %w", err)
	}

	slog.Info("assessment restarted", "kind", kind, "id", assessment.ID, "tab_id", current.ID, "url", current.URL)
	return assessment, nil
}

func (s *TargetService) newAssessment(kind domain.AssessmentKind, tab domain.Tab) domain.Assessment {
	now := s.clock.Now()
	return domain.Assessment{
		ID:        s.newID(),
		Kind:      kind,
		Tab:       domain.NewPersistedTab(tab),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// MarkRefreshed flags the running assessment's target as reloaded, which
// forces the next target check to warn.
func (s *TargetService) MarkRefreshed(ctx context.Context, kind domain.AssessmentKind) error {
	assessment, err := s.repo.GetByKind(ctx, kind)
	if err != nil {
		return fmt.Errorf("load assessment: %w", err)
	}
	if assessment.Tab.IsEmpty() {
		return fmt.Errorf("assessment %s has no target tab: %w", assessment.ID, domain.ErrTabNotFound)
	}
	if assessment.Tab.AppRefreshed {
		return nil
	}

	tab := *assessment.Tab
	tab.AppRefreshed = true
	assessment.Tab = &tab
	assessment.UpdatedAt = s.clock.Now()

	if err := s.repo.Save(ctx, assessment); err != nil {
		return fmt.Errorf("save assessment: %w", err)
	}

	slog.Info("assessment target refreshed", "kind", kind, "id", assessment.ID, "tab_id", tab.ID)
	return nil
}

// Discard drops the running assessment. Discarding nothing is not an error.
func (s *TargetService) Discard(ctx context.Context, kind domain.AssessmentKind) error {
	if err := s.repo.Delete(ctx, kind); err != nil {
		if errors.Is(err, domain.ErrAssessmentNotFound) {
			return nil
		}
		return fmt.Errorf("delete assessment: %w", err)
	}

	slog.Info("assessment discarded", "kind", kind)
	return nil
}
