package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssessmentKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    AssessmentKind
		wantErr bool
	}{
		{raw: "assessment", want: AssessmentKindFull},
		{raw: " Quick-Assess ", want: AssessmentKindQuickAssess},
		{raw: "fastpass", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseAssessmentKind(tc.raw)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAssessmentKindsAllParse(t *testing.T) {
	t.Parallel()

	for _, kind := range AssessmentKinds() {
		parsed, err := ParseAssessmentKind(string(kind))
		require.NoError(t, err)
		assert.Equal(t, kind, parsed)
		assert.NotEqual(t, string(kind), kind.Label())
	}
}

func TestTabValidateRequiresID(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Tab{ID: "7"}.Validate())
	assert.ErrorIs(t, Tab{URL: "https://example.com"}.Validate(), ErrInvalidTab)
	assert.ErrorIs(t, Tab{ID: "  "}.Validate(), ErrInvalidTab)
}

func TestPersistedTabIsEmpty(t *testing.T) {
	t.Parallel()

	var absent *PersistedTab
	assert.True(t, absent.IsEmpty())
	assert.True(t, (&PersistedTab{}).IsEmpty())
	assert.False(t, (&PersistedTab{AppRefreshed: true}).IsEmpty())
	assert.False(t, NewPersistedTab(Tab{ID: "1", URL: "https://example.com", Title: "Example"}).IsEmpty())
}

func TestPathSnippetIsEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, PathSnippet{}.IsEmpty())
	assert.False(t, PathSnippet{Path: "#main"}.IsEmpty())
	assert.False(t, PathSnippet{Snippet: "<div>"}.IsEmpty())
}
