package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int                `toml:"version"`
	Assessments []assessmentSchema `toml:"assessments"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported assessments schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type assessmentSchema struct {
	ID        string             `toml:"id"`
	Kind      string             `toml:"kind"`
	Tab       *tabSchema         `toml:"tab,omitempty"`
	Selection *pathSnippetSchema `toml:"selection,omitempty"`
	StartedAt string             `toml:"started_at"`
	UpdatedAt string             `toml:"updated_at"`
}

type tabSchema struct {
	ID           string `toml:"id"`
	URL          string `toml:"url"`
	Title        string `toml:"title"`
	AppRefreshed bool   `toml:"app_refreshed"`
}

type pathSnippetSchema struct {
	Path    string `toml:"path,omitempty"`
	Snippet string `toml:"snippet,omitempty"`
}
