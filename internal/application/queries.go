package application

import (
	"time"

	"github.com/bnema/assess-cli/internal/domain"
)

type TargetCheck struct {
	Kind         domain.AssessmentKind
	AssessmentID domain.AssessmentID
	StartedAt    time.Time
	Previous     *domain.PersistedTab
	Current      domain.Tab
	Warn         bool
	Reason       domain.TargetChangeReason
}
