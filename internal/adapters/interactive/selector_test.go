package interactive

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
)

func TestFuzzySearch(t *testing.T) {
	items := []string{"mainnet", "sepolia", "base-sepolia", "arbitrum"}
	search := createFuzzySearchFunc(items)

	assert.True(t, search("", 0))
	assert.True(t, search("SEP", 1))
	assert.True(t, search("bsp", 2))
	assert.False(t, search("sep", 0))
	assert.True(t, search("arb", 3))
}

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	s, err := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.PromptArgument(ctx, domain.ConstructorArgument{Name: "supply", Type: "uint256"}, nil)
	assert.True(t, errors.Is(err, errNonInteractive))
	assert.Contains(t, err.Error(), "supply (uint256)")

	_, err = s.Confirm(ctx, "Deploy?")
	assert.True(t, errors.Is(err, errNonInteractive))

	assert.True(t, errors.Is(s.WaitForEnter(ctx, "Fix and press enter"), errNonInteractive))

	_, err = s.SelectNetwork(ctx, []string{"mainnet", "sepolia"}, "sepolia")
	assert.True(t, errors.Is(err, errNonInteractive))
}

func TestSelectorAdapter_SelectNetworkShortcuts(t *testing.T) {
	s, _ := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})

	name, err := s.SelectNetwork(context.Background(), []string{"sepolia"}, "")
	require.NoError(t, err)
	assert.Equal(t, "sepolia", name)

	_, err = s.SelectNetwork(context.Background(), nil, "")
	assert.ErrorContains(t, err, "no networks configured")
}
