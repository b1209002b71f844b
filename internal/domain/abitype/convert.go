package abitype

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/launchpad/internal/domain"
)

// Convert validates a value and turns it into its deploy-ready form:
// bool becomes a native bool, arrays become []any with converted elements,
// integers become their canonical decimal string and everything else passes
// through as text. Final ABI encoding is left to the wallet.
func Convert(typ, value string) (any, error) {
	return convertTag(ParseTag(typ), value)
}

func convertTag(tag Tag, value string) (any, error) {
	if err := validateTag(tag, value); err != nil {
		return nil, err
	}

	switch tag.Kind {
	case KindBool:
		return strings.EqualFold(value, "true"), nil
	case KindUint, KindInt:
		n, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("must be an integer")
		}
		return n.String(), nil
	case KindArray:
		elems, err := arrayElements(tag, value)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(elems))
		for i, el := range elems {
			v, err := convertTag(*tag.Elem, el)
			if err != nil {
				return nil, fmt.Errorf("element at index %d: %w", i, err)
			}
			out[i] = v
		}
		return out, nil
	default:
		return value, nil
	}
}

// ConvertAll validates the argument list against the schema and converts
// every value in order.
func ConvertAll(params []domain.Param, args []domain.ConstructorArgument) ([]any, error) {
	if err := ValidateAll(params, args); err != nil {
		return nil, err
	}

	var convErr error
	values := lo.Map(args, func(arg domain.ConstructorArgument, i int) any {
		v, err := Convert(params[i].Type, arg.Value)
		if err != nil && convErr == nil {
			convErr = &domain.ValidationError{Fields: []domain.FieldError{{
				Index: i, Name: arg.Name, Type: params[i].Type, Message: err.Error(),
			}}}
		}
		return v
	})
	if convErr != nil {
		return nil, convErr
	}
	return values, nil
}
