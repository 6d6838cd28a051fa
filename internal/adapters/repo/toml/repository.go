package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bnema/assess-cli/internal/domain"
	"github.com/bnema/assess-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configName          = "config"
	configType          = "toml"
	AssessmentsPathKey  = "assessments.path"
	assessmentsFileMode = 0o600
	assessmentsDirMode  = 0o700
	ConfigDir           = ".assess"
	assessmentsFile     = "assessments.toml"
	tempFilePattern     = ".assessments-*.toml.tmp"
)

type Repository struct {
	path string
	mu   *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.AssessmentRepository = (*Repository)(nil)

// NewRepository resolves the assessments file from cfg, reading
// ~/.assess/config.toml when present.
func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(filepath.Join(homeDir, ConfigDir))
	cfg.SetDefault(AssessmentsPathKey, filepath.Join(homeDir, ConfigDir, assessmentsFile))

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	path := cfg.GetString(AssessmentsPathKey)
	if path == "" {
		return nil, errors.New("assessments path is empty")
	}
	path, err = normalizePath(path)
	if err != nil {
		return nil, err
	}

	return &Repository{path: path, mu: lockForPath(path)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Save(ctx context.Context, assessment domain.Assessment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(assessment)
	updated := false
	for i := range file.Assessments {
		if file.Assessments[i].Kind == encoded.Kind {
			file.Assessments[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Assessments = append(file.Assessments, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *Repository) GetByKind(ctx context.Context, kind domain.AssessmentKind) (domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return domain.Assessment{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Assessment{}, err
	}

	for _, entry := range file.Assessments {
		if entry.Kind == string(kind) {
			return fromSchema(entry), nil
		}
	}

	return domain.Assessment{}, domain.ErrAssessmentNotFound
}

func (r *Repository) List(ctx context.Context) ([]domain.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	assessments := make([]domain.Assessment, 0, len(file.Assessments))
	for _, entry := range file.Assessments {
		assessments = append(assessments, fromSchema(entry))
	}

	return assessments, nil
}

func (r *Repository) Delete(ctx context.Context, kind domain.AssessmentKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Assessments[:0]
	found := false
	for _, entry := range file.Assessments {
		if entry.Kind == string(kind) {
			found = true
			continue
		}
		kept = append(kept, entry)
	}
	if !found {
		return domain.ErrAssessmentNotFound
	}
	file.Assessments = kept

	return r.writeSchema(file)
}

func (r *Repository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			file := fileSchema{}
			file.applyDefaults()
			return file, nil
		}
		return fileSchema{}, fmt.Errorf("read assessments file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode assessments file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.path), assessmentsDirMode); err != nil {
		return fmt.Errorf("create assessments directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode assessments file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp assessments file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp assessments file: %w", err)
	}

	if err := tempFile.Chmod(assessmentsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp assessments file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp assessments file: %w", err)
	}

	if err := os.Rename(tempName, r.path); err != nil {
		return fmt.Errorf("replace assessments file: %w", err)
	}

	cleanup = false
	return nil
}

func normalizePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve assessments path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(assessment domain.Assessment) assessmentSchema {
	encoded := assessmentSchema{
		ID:        string(assessment.ID),
		Kind:      string(assessment.Kind),
		StartedAt: formatTime(assessment.StartedAt),
		UpdatedAt: formatTime(assessment.UpdatedAt),
	}

	if !assessment.Tab.IsEmpty() {
		encoded.Tab = &tabSchema{
			ID:           string(assessment.Tab.ID),
			URL:          assessment.Tab.URL,
			Title:        assessment.Tab.Title,
			AppRefreshed: assessment.Tab.AppRefreshed,
		}
	}

	if !assessment.Selection.IsEmpty() {
		encoded.Selection = &pathSnippetSchema{
			Path:    assessment.Selection.Path,
			Snippet: assessment.Selection.Snippet,
		}
	}

	return encoded
}

func fromSchema(schema assessmentSchema) domain.Assessment {
	assessment := domain.Assessment{
		ID:        domain.AssessmentID(schema.ID),
		Kind:      domain.AssessmentKind(schema.Kind),
		StartedAt: parseTime(schema.StartedAt),
		UpdatedAt: parseTime(schema.UpdatedAt),
	}

	if schema.Tab != nil {
		assessment.Tab = &domain.PersistedTab{
			ID:           domain.TabID(schema.Tab.ID),
			URL:          schema.Tab.URL,
			Title:        schema.Tab.Title,
			AppRefreshed: schema.Tab.AppRefreshed,
		}
	}

	if schema.Selection != nil {
		assessment.Selection = domain.PathSnippet{
			Path:    schema.Selection.Path,
			Snippet: schema.Selection.Snippet,
		}
	}

	return assessment
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339Nano)
}
