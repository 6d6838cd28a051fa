package application

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathSnippetServiceStoresPathAndSnippet(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 17, 10, 0, 0, 0, time.UTC)
	repo := newInMemoryAssessmentRepo()
	repo.assessments[domain.AssessmentKindFull] = domain.Assessment{ID: "a-1", Kind: domain.AssessmentKindFull}

	actions := events.NewPathSnippetActions()
	svc := NewPathSnippetService(repo, domain.AssessmentKindFull, fixedClock{now: now})
	svc.Subscribe(actions)

	require.NoError(t, actions.OnAddPath.Invoke(context.Background(), "main > button:nth-child(2)"))
	require.NoError(t, actions.OnAddSnippet.Invoke(context.Background(), `<button>Buy</button>`))

	selection, err := svc.Selection(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PathSnippet{Path: "main > button:nth-child(2)", Snippet: `<button>Buy</button>`}, selection)
	assert.Equal(t, now, repo.assessments[domain.AssessmentKindFull].UpdatedAt)
}

func TestPathSnippetServiceOverwritesOnlyItsField(t *testing.T) {
	t.Parallel()

	repo := newInMemoryAssessmentRepo()
	repo.assessments[domain.AssessmentKindFull] = domain.Assessment{
		ID:        "a-1",
		Kind:      domain.AssessmentKindFull,
		Selection: domain.PathSnippet{Path: "#old", Snippet: "<div>"},
	}

	actions := events.NewPathSnippetActions()
	NewPathSnippetService(repo, domain.AssessmentKindFull, nil).Subscribe(actions)

	require.NoError(t, actions.OnAddPath.Invoke(context.Background(), "#new"))
	assert.Equal(t, domain.PathSnippet{Path: "#new", Snippet: "<div>"}, repo.assessments[domain.AssessmentKindFull].Selection)
}

func TestPathSnippetServiceIgnoresOtherKinds(t *testing.T) {
	t.Parallel()

	repo := newInMemoryAssessmentRepo()
	repo.assessments[domain.AssessmentKindQuickAssess] = domain.Assessment{ID: "q-1", Kind: domain.AssessmentKindQuickAssess}

	actions := events.NewPathSnippetActions()
	NewPathSnippetService(repo, domain.AssessmentKindFull, nil).Subscribe(actions)

	err := actions.OnAddPath.Invoke(context.Background(), "#main")
	require.ErrorIs(t, err, domain.ErrAssessmentNotFound)
	assert.True(t, repo.assessments[domain.AssessmentKindQuickAssess].Selection.IsEmpty())
}
