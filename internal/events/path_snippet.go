package events

const (
	ActionAddPath    = "pathSnippet.addPath"
	ActionAddSnippet = "pathSnippet.addSnippet"
)

// PathSnippetActions signals that a path or a snippet was added for the
// element under review.
type PathSnippetActions struct {
	OnAddPath    *Action[string]
	OnAddSnippet *Action[string]
}

func NewPathSnippetActions() *PathSnippetActions {
	return &PathSnippetActions{
		OnAddPath:    NewAction[string](ActionAddPath),
		OnAddSnippet: NewAction[string](ActionAddSnippet),
	}
}
