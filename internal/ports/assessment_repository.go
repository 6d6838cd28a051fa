package ports

import (
	"context"

	"github.com/bnema/assess-cli/internal/domain"
)

type AssessmentRepository interface {
	GetByKind(ctx context.Context, kind domain.AssessmentKind) (domain.Assessment, error)
	List(ctx context.Context) ([]domain.Assessment, error)
	Save(ctx context.Context, assessment domain.Assessment) error
	Delete(ctx context.Context, kind domain.AssessmentKind) error
}
