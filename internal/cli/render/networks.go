package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/launchpad/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out     io.Writer
	sources map[string]string
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// WithRPCSources annotates each network with where its RPC URL comes from
func (r *NetworksRenderer) WithRPCSources(sources map[string]string) *NetworksRenderer {
	r.sources = sources
	return r
}

// Render renders the list of networks
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in launchpad.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		current := ""
		if network.Name == result.Current {
			current = " (default)"
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %s%s - Error: %v\n", network.Name, current, network.Error)
		} else {
			fmt.Fprintf(r.out, "  ✅ %s%s - Chain ID: %d\n", network.Name, current, network.ChainID)
		}
		if source, ok := r.sources[network.Name]; ok {
			fmt.Fprintf(r.out, "     rpc: %s\n", faintStyle.Sprint(source))
		}
	}

	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
