//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/launchpad/internal/adapters"
	"github.com/trebuchet-org/launchpad/internal/config"
	"github.com/trebuchet-org/launchpad/internal/logging"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewSession,
		usecase.NewNetworkGuard,
		usecase.NewDeploymentHistory,
		usecase.NewDeployWorkflow,
		usecase.NewCompileSubject,
		usecase.NewListHistory,
		usecase.NewClearHistory,
		usecase.NewCheckHistory,
		usecase.NewListNetworks,
		usecase.NewShowConfig,
		usecase.NewSetConfig,
		usecase.NewRemoveConfig,

		// App
		NewApp,
	)
	return nil, nil
}
