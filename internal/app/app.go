package app

import (
	"log/slog"

	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Session  *usecase.Session
	Prompter usecase.InteractivePrompter
	Networks usecase.NetworkResolver
	Progress usecase.ProgressSink

	// Use cases
	DeployWorkflow *usecase.DeployWorkflow
	CompileSubject *usecase.CompileSubject
	ListHistory    *usecase.ListHistory
	ClearHistory   *usecase.ClearHistory
	CheckHistory   *usecase.CheckHistory
	ListNetworks   *usecase.ListNetworks
	ShowConfig     *usecase.ShowConfig
	SetConfig      *usecase.SetConfig
	RemoveConfig   *usecase.RemoveConfig
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	session *usecase.Session,
	prompter usecase.InteractivePrompter,
	networks usecase.NetworkResolver,
	progress usecase.ProgressSink,
	deployWorkflow *usecase.DeployWorkflow,
	compileSubject *usecase.CompileSubject,
	listHistory *usecase.ListHistory,
	clearHistory *usecase.ClearHistory,
	checkHistory *usecase.CheckHistory,
	listNetworks *usecase.ListNetworks,
	showConfig *usecase.ShowConfig,
	setConfig *usecase.SetConfig,
	removeConfig *usecase.RemoveConfig,
) (*App, error) {
	return &App{
		Config:         cfg,
		Log:            log,
		Session:        session,
		Prompter:       prompter,
		Networks:       networks,
		Progress:       progress,
		DeployWorkflow: deployWorkflow,
		CompileSubject: compileSubject,
		ListHistory:    listHistory,
		ClearHistory:   clearHistory,
		CheckHistory:   checkHistory,
		ListNetworks:   listNetworks,
		ShowConfig:     showConfig,
		SetConfig:      setConfig,
		RemoveConfig:   removeConfig,
	}, nil
}
