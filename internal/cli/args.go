package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain"
	"gopkg.in/yaml.v3"
)

// providedArgs maps constructor argument names to raw user text
type providedArgs map[string]string

// parseArgFlags reads repeated --arg name=value flags
func parseArgFlags(flags []string) (providedArgs, error) {
	args := providedArgs{}
	for _, f := range flags {
		name, value, ok := strings.Cut(f, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected name=value", f)
		}
		args[name] = value
	}
	return args, nil
}

// loadArgsFile reads a YAML (or JSON) mapping of argument names to values.
// Sequences become JSON array text so array types validate the same way as
// typed input.
func loadArgsFile(path string) (providedArgs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read args file: %w", err)
	}
	return parseArgsDocument(data)
}

func parseArgsDocument(data []byte) (providedArgs, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse args file: %w", err)
	}
	args := providedArgs{}
	if len(doc.Content) == 0 {
		return args, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("args file must be a mapping of argument names to values")
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		text, err := nodeText(value)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", key.Value, err)
		}
		args[key.Value] = text
	}
	return args, nil
}

func nodeText(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil
	case yaml.SequenceNode:
		elems := make([]json.RawMessage, len(n.Content))
		for i, child := range n.Content {
			text, err := nodeText(child)
			if err != nil {
				return "", err
			}
			if child.Kind == yaml.SequenceNode {
				elems[i] = json.RawMessage(text)
				continue
			}
			quoted, err := json.Marshal(text)
			if err != nil {
				return "", err
			}
			elems[i] = quoted
		}
		out, err := json.Marshal(elems)
		if err != nil {
			return "", err
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported value at line %d", n.Line)
	}
}

// merge overlays other on top of p
func (p providedArgs) merge(other providedArgs) providedArgs {
	for k, v := range other {
		p[k] = v
	}
	return p
}

// apply fills schema values from the provided map. Unnamed parameters are
// addressed by their generated argN name. Names that match no parameter are
// returned so the caller can reject typos.
func (p providedArgs) apply(args []domain.ConstructorArgument) (filled []domain.ConstructorArgument, unknown []string) {
	filled = make([]domain.ConstructorArgument, len(args))
	copy(filled, args)
	known := make(map[string]bool, len(args))
	for i := range filled {
		known[filled[i].Name] = true
		if v, ok := p[filled[i].Name]; ok {
			filled[i].Value = v
		}
	}
	for name := range p {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return filled, unknown
}
