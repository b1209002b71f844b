package abitype

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/trebuchet-org/launchpad/internal/domain"
)

var (
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	hexPattern     = regexp.MustCompile(`^0x[0-9a-fA-F]*$`)
)

var errRequired = errors.New("value is required")

// Validate checks a free-text value against a type tag. A nil error means
// the value is valid.
func Validate(typ, value string) error {
	return validateTag(ParseTag(typ), value)
}

// IsValid is Validate as a boolean
func IsValid(typ, value string) bool {
	return Validate(typ, value) == nil
}

func validateTag(tag Tag, value string) error {
	if strings.TrimSpace(value) == "" {
		return errRequired
	}

	switch tag.Kind {
	case KindUint, KindInt:
		return validateInteger(tag, value)
	case KindAddress:
		if !addressPattern.MatchString(value) {
			return errors.New("must be a 0x-prefixed address of 40 hex digits")
		}
	case KindBool:
		if !strings.EqualFold(value, "true") && !strings.EqualFold(value, "false") {
			return errors.New("must be true or false")
		}
	case KindString:
		// any non-empty text
	case KindFixedBytes:
		if !hexPattern.MatchString(value) {
			return errors.New("must be 0x-prefixed hex")
		}
		if digits := len(value) - 2; digits != tag.Size*2 {
			return fmt.Errorf("must be exactly %d bytes (%d hex digits), got %d hex digits", tag.Size, tag.Size*2, digits)
		}
	case KindBytes:
		if !hexPattern.MatchString(value) {
			return errors.New("must be 0x-prefixed hex")
		}
	case KindArray:
		_, err := arrayElements(tag, value)
		return err
	}
	return nil
}

func validateInteger(tag Tag, value string) error {
	if !integerPattern.MatchString(value) {
		return errors.New("must be an integer")
	}
	if tag.Kind == KindUint && strings.HasPrefix(value, "-") {
		return errors.New("must be a non-negative integer")
	}
	if tag.Size == 0 {
		return nil
	}

	n, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return errors.New("must be an integer")
	}
	lo, hi := Bounds(tag)
	if n.Cmp(lo) < 0 || n.Cmp(hi) > 0 {
		return fmt.Errorf("must be between %s and %s for %s", lo, hi, tag.Raw)
	}
	return nil
}

// Bounds returns the inclusive range of a sized integer tag.
// uintN spans [0, 2^N-1], intN spans [-2^(N-1), 2^(N-1)-1].
func Bounds(tag Tag) (*big.Int, *big.Int) {
	one := big.NewInt(1)
	if tag.Kind == KindUint {
		hi := new(big.Int).Lsh(one, uint(tag.Size))
		return big.NewInt(0), hi.Sub(hi, one)
	}
	half := new(big.Int).Lsh(one, uint(tag.Size-1))
	lo := new(big.Int).Neg(half)
	hi := new(big.Int).Sub(half, one)
	return lo, hi
}

// arrayElements parses a JSON array value and validates every element
// against the element tag, returning the elements in textual form.
func arrayElements(tag Tag, value string) ([]string, error) {
	dec := json.NewDecoder(strings.NewReader(value))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil || raw == nil {
		return nil, errors.New("must be a JSON array, e.g. [\"a\", \"b\"]")
	}
	if dec.More() {
		return nil, errors.New("must be a single JSON array")
	}
	if tag.Length >= 0 && len(raw) != tag.Length {
		return nil, fmt.Errorf("must have exactly %d elements, got %d", tag.Length, len(raw))
	}

	elems := make([]string, len(raw))
	for i, el := range raw {
		text, err := elementText(el)
		if err != nil {
			return nil, fmt.Errorf("element at index %d: %w", i, err)
		}
		if err := validateTag(*tag.Elem, text); err != nil {
			return nil, fmt.Errorf("element at index %d: %w", i, err)
		}
		elems[i] = text
	}
	return elems, nil
}

// elementText renders a decoded JSON element the way a user would have typed it
func elementText(el any) (string, error) {
	switch v := el.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return "", fmt.Errorf("unreadable element: %w", err)
		}
		return strings.TrimSpace(buf.String()), nil
	}
}

// ValidateAll validates a full argument list against the constructor schema.
// A count mismatch is reported as a single error without positional checks;
// otherwise every invalid field is reported.
func ValidateAll(params []domain.Param, args []domain.ConstructorArgument) error {
	if len(params) != len(args) {
		return &domain.ValidationError{Fields: []domain.FieldError{{
			Index:   -1,
			Message: fmt.Sprintf("expected %d constructor arguments, got %d", len(params), len(args)),
		}}}
	}

	var fields []domain.FieldError
	for i, p := range params {
		arg := args[i]
		name := arg.Name
		if name == "" {
			name = paramName(p, i)
		}
		if arg.Type != "" && arg.Type != p.Type {
			fields = append(fields, domain.FieldError{
				Index:   i,
				Name:    name,
				Type:    p.Type,
				Message: fmt.Sprintf("type %s does not match constructor parameter type %s", arg.Type, p.Type),
			})
			continue
		}
		if err := Validate(p.Type, arg.Value); err != nil {
			fields = append(fields, domain.FieldError{
				Index:   i,
				Name:    name,
				Type:    p.Type,
				Message: err.Error(),
			})
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func paramName(p domain.Param, i int) string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("arg%d", i)
}
