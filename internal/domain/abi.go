package domain

import (
	"encoding/json"
	"fmt"
)

// EntryKind tags an ABI entry
type EntryKind string

const (
	EntryConstructor EntryKind = "constructor"
	EntryFunction    EntryKind = "function"
	EntryEvent       EntryKind = "event"
	EntryFallback    EntryKind = "fallback"
	EntryReceive     EntryKind = "receive"
	EntryError       EntryKind = "error"
	EntryOther       EntryKind = "other"
)

// Param is a typed ABI parameter
type Param struct {
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	InternalType string  `json:"internalType,omitempty"`
	Components   []Param `json:"components,omitempty"`
	Indexed      bool    `json:"indexed,omitempty"`
}

// Entry is one element of a contract interface description
type Entry struct {
	Kind            EntryKind `json:"type"`
	Name            string    `json:"name,omitempty"`
	Inputs          []Param   `json:"inputs,omitempty"`
	Outputs         []Param   `json:"outputs,omitempty"`
	StateMutability string    `json:"stateMutability,omitempty"`
	Anonymous       bool      `json:"anonymous,omitempty"`
}

// ABI is a parsed interface description. Raw keeps the compiler's original
// JSON so encoders can hand it to go-ethereum unchanged.
type ABI struct {
	Entries []Entry         `json:"entries"`
	Raw     json.RawMessage `json:"raw"`
}

// ParseABI parses compiler output into the typed entry union. Entries with a
// kind this package does not know are kept as EntryOther.
func ParseABI(raw []byte) (*ABI, error) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	constructors := 0
	for i := range entries {
		switch entries[i].Kind {
		case EntryConstructor, EntryFunction, EntryEvent, EntryFallback, EntryReceive, EntryError:
		case "":
			// solc omits "type" for functions in some legacy outputs
			entries[i].Kind = EntryFunction
		default:
			entries[i].Kind = EntryOther
		}
		if entries[i].Kind == EntryConstructor {
			constructors++
		}
	}
	if constructors > 1 {
		return nil, fmt.Errorf("failed to parse ABI: %d constructor entries", constructors)
	}

	return &ABI{
		Entries: entries,
		Raw:     append(json.RawMessage(nil), raw...),
	}, nil
}

// Constructor returns the constructor entry, or nil when the contract has none
func (a *ABI) Constructor() *Entry {
	if a == nil {
		return nil
	}
	for i := range a.Entries {
		if a.Entries[i].Kind == EntryConstructor {
			return &a.Entries[i]
		}
	}
	return nil
}

// ConstructorParams returns the declared constructor inputs in order
func (a *ABI) ConstructorParams() []Param {
	ctor := a.Constructor()
	if ctor == nil {
		return nil
	}
	return ctor.Inputs
}

// ConstructorArguments produces an editable argument list with empty values,
// one per constructor input. Unnamed inputs are called arg{index}.
func (a *ABI) ConstructorArguments() []ConstructorArgument {
	params := a.ConstructorParams()
	args := make([]ConstructorArgument, len(params))
	for i, p := range params {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		args[i] = ConstructorArgument{Name: name, Type: p.Type}
	}
	return args
}
