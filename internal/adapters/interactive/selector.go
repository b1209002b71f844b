package interactive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/launchpad/internal/domain"
	"github.com/trebuchet-org/launchpad/internal/domain/config"
	"github.com/trebuchet-org/launchpad/internal/usecase"
)

var errNonInteractive = errors.New("interactive input not available in non-interactive mode")

// SelectorAdapter handles interactive prompts
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) (*SelectorAdapter, error) {
	return &SelectorAdapter{config: cfg}, nil
}

// PromptArgument asks for one constructor argument, re-prompting until
// validate accepts the input.
func (s *SelectorAdapter) PromptArgument(ctx context.Context, arg domain.ConstructorArgument, validate func(string) error) (string, error) {
	if s.config.NonInteractive {
		return "", fmt.Errorf("%w: missing value for %s (%s)", errNonInteractive, arg.Name, arg.Type)
	}

	prompt := promptui.Prompt{
		Label:    fmt.Sprintf("%s %s", color.New(color.Bold).Sprint(arg.Name), color.New(color.FgBlue).Sprintf("(%s)", arg.Type)),
		Default:  arg.Value,
		Validate: promptui.ValidateFunc(validate),
	}

	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("input cancelled: %w", err)
	}
	return value, nil
}

// Confirm asks a yes/no question. Declining is not an error.
func (s *SelectorAdapter) Confirm(ctx context.Context, label string) (bool, error) {
	if s.config.NonInteractive {
		return false, errNonInteractive
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if errors.Is(err, promptui.ErrAbort) {
			return false, nil
		}
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}
	return true, nil
}

// WaitForEnter blocks until the user presses enter
func (s *SelectorAdapter) WaitForEnter(ctx context.Context, label string) error {
	if s.config.NonInteractive {
		return errNonInteractive
	}

	prompt := promptui.Prompt{
		Label:       label,
		HideEntered: true,
	}
	if _, err := prompt.Run(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}
	return nil
}

// SelectNetwork picks a network, starting on the current one
func (s *SelectorAdapter) SelectNetwork(ctx context.Context, networks []string, current string) (string, error) {
	if len(networks) == 0 {
		return "", fmt.Errorf("no networks configured in launchpad.toml")
	}
	if len(networks) == 1 {
		return networks[0], nil
	}
	if s.config.NonInteractive {
		return "", fmt.Errorf("%w: pass --network", errNonInteractive)
	}

	cursor := 0
	for i, n := range networks {
		if n == current {
			cursor = i
		}
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, / to search, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:     "Target network",
		Items:     networks,
		Templates: templates,
		Size:      10,
		CursorPos: cursor,
		Searcher:  createFuzzySearchFunc(networks),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return networks[index], nil
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.InteractivePrompter = (*SelectorAdapter)(nil)
