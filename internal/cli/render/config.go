package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{
		out: out,
	}
}

// RenderConfig renders the configuration display
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "❌ No .launchpad/config.local.json file found\n")
		fmt.Fprintf(r.out, "⚠️  Without config, deploy requires an explicit --network flag\n")
		return nil
	}

	fmt.Fprintln(r.out, "📋 Current config:")

	if result.Config.Network != "" {
		fmt.Fprintf(r.out, "Network: %s\n", result.Config.Network)
		if !result.NetworkConfigured {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("network %s is not defined in launchpad.toml", result.Config.Network)))
		}
	} else {
		fmt.Fprintf(r.out, "Network: %s\n", "(not set)")
	}
	fmt.Fprintf(r.out, "Analyze: %t (%s)\n", result.Analyze, result.AnalyzeSource)

	fmt.Fprintf(r.out, "📁 config file: %s\n", getRelativePath(result.ConfigPath))

	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintf(r.out, "✅ Set %s to: %s\n", result.Key, result.Value)
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	switch result.Key {
	case config.ConfigKeyNetwork:
		fmt.Fprintf(r.out, "✅ Removed network from config (will be required as flag)\n")
	case config.ConfigKeyAnalyze:
		fmt.Fprintf(r.out, "✅ Removed analyze from config (launchpad.toml [analyzer] decides)\n")
	}

	fmt.Fprintf(r.out, "📁 config saved to: %s\n", getRelativePath(result.ConfigPath))
	return nil
}
