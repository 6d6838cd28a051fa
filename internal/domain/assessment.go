package domain

import (
	"fmt"
	"strings"
	"time"
)

type AssessmentID string
type AssessmentKind string

const (
	AssessmentKindFull        AssessmentKind = "assessment"
	AssessmentKindQuickAssess AssessmentKind = "quick-assess"
)

// AssessmentKinds lists every kind, in display order.
func AssessmentKinds() []AssessmentKind {
	return []AssessmentKind{AssessmentKindFull, AssessmentKindQuickAssess}
}

func ParseAssessmentKind(raw string) (AssessmentKind, error) {
	kind := AssessmentKind(strings.ToLower(strings.TrimSpace(raw)))
	switch kind {
	case AssessmentKindFull, AssessmentKindQuickAssess:
		return kind, nil
	default:
		return "", fmt.Errorf("%w %q", ErrInvalidKind, raw)
	}
}

func (k AssessmentKind) Label() string {
	switch k {
	case AssessmentKindFull:
		return "Assessment"
	case AssessmentKindQuickAssess:
		return "Quick Assess"
	default:
		return string(k)
	}
}

type Assessment struct {
	ID        AssessmentID
	Kind      AssessmentKind
	Tab       *PersistedTab
	Selection PathSnippet
	StartedAt time.Time
	UpdatedAt time.Time
}

// PathSnippet is the element picked for a manually reported failure: the
// path that locates it and the markup resolved for that path.
type PathSnippet struct {
	Path    string
	Snippet string
}

func (p PathSnippet) IsEmpty() bool {
	return p.Path == "" && p.Snippet == ""
}
