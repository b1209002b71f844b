package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// SourceRepositoryAdapter loads subjects from source files in the project
type SourceRepositoryAdapter struct {
	projectRoot string
}

// NewSourceRepositoryAdapter creates a new SourceRepositoryAdapter
func NewSourceRepositoryAdapter(cfg *config.RuntimeConfig) *SourceRepositoryAdapter {
	return &SourceRepositoryAdapter{projectRoot: cfg.ProjectRoot}
}

// GetSubject reads the subject's source file. The ID has the form
// "path/File.sol" or "path/File.sol:ContractName"; relative paths are
// resolved against the project root. The file is read on every call so
// edits are picked up between compile attempts.
func (r *SourceRepositoryAdapter) GetSubject(_ context.Context, subjectID string) (*domain.Subject, error) {
	path, contractName := domain.ParseSubjectID(subjectID)
	if path == "" {
		return nil, fmt.Errorf("empty subject")
	}

	fullPath := path
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(r.projectRoot, path)
	}

	data, err := os.ReadFile(fullPath) //nolint:gosec // user-selected source file
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("source file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	return &domain.Subject{
		ID:           subjectID,
		Path:         path,
		ContractName: contractName,
		Source:       string(data),
	}, nil
}

// Ensure SourceRepositoryAdapter implements SourceRepository
var _ usecase.SourceRepository = (*SourceRepositoryAdapter)(nil)
