package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain"
)

// CompileSubjectResult is a standalone compile of a subject
type CompileSubjectResult struct {
	Subject *domain.Subject
	Result  *domain.CompileResult
	// Params is empty unless the compile succeeded
	Params []domain.Param
}

// CompileSubject compiles a subject outside of any workflow
type CompileSubject struct {
	sources  SourceRepository
	compiler Compiler
	progress ProgressSink
}

// NewCompileSubject creates a new compile use case
func NewCompileSubject(sources SourceRepository, compiler Compiler, progress ProgressSink) *CompileSubject {
	return &CompileSubject{sources: sources, compiler: compiler, progress: progress}
}

// Run compiles the subject. Compiler diagnostics are returned in the result,
// not as an error.
func (uc *CompileSubject) Run(ctx context.Context, subjectID string) (*CompileSubjectResult, error) {
	subject, err := uc.sources.GetSubject(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load source: %w", err)
	}
	if strings.TrimSpace(subject.Source) == "" {
		return nil, domain.ErrEmptySource
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompiling, Message: "Compiling " + subject.ContractName, Spinner: true})
	result, err := uc.compiler.Compile(ctx, CompileRequest{
		SourceText: subject.Source,
		ModuleName: subject.ContractName,
		SourcePath: subject.Path,
	})
	if err != nil {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: err.Error()})
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid compiler output: %w", err)
	}

	out := &CompileSubjectResult{Subject: subject, Result: result}
	if result.Success {
		out.Params = result.ABI.ConstructorParams()
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Compiled " + subject.ContractName})
	} else {
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageFailed, Message: "Compilation failed"})
	}
	return out, nil
}
