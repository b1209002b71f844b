package wallet

import (
	"bytes"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/launchpad/internal/domain"
)

// EncodeDeployment returns the creation bytecode with the ABI-encoded
// constructor arguments appended. Values are the converted forms produced
// by abitype.ConvertAll.
func EncodeDeployment(contractABI *domain.ABI, bytecode string, values []any) ([]byte, error) {
	code := common.FromHex(bytecode)
	if len(code) == 0 {
		return nil, fmt.Errorf("empty bytecode")
	}
	if contractABI == nil || len(contractABI.Raw) == 0 {
		if len(values) > 0 {
			return nil, fmt.Errorf("constructor arguments given but no ABI available")
		}
		return code, nil
	}

	parsed, err := abi.JSON(bytes.NewReader(contractABI.Raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	inputs := parsed.Constructor.Inputs
	if len(inputs) != len(values) {
		return nil, fmt.Errorf("constructor takes %d arguments, got %d", len(inputs), len(values))
	}

	packable := make([]any, len(values))
	for i, v := range values {
		pv, err := toABIValue(inputs[i].Type, v)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, inputs[i].Name, err)
		}
		packable[i] = pv.Interface()
	}

	packed, err := inputs.Pack(packable...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments: %w", err)
	}
	return append(code, packed...), nil
}

// toABIValue maps a converted argument onto the Go type the ABI packer
// expects for t.
func toABIValue(t abi.Type, v any) (reflect.Value, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected integer text, got %T", v)
		}
		n, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return reflect.Value{}, fmt.Errorf("invalid integer %q", s)
		}
		goType := t.GetType()
		if goType == reflect.TypeOf(&big.Int{}) {
			return reflect.ValueOf(n), nil
		}
		out := reflect.New(goType).Elem()
		if t.T == abi.UintTy {
			out.SetUint(n.Uint64())
		} else {
			out.SetInt(n.Int64())
		}
		return out, nil

	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected bool, got %T", v)
		}
		return reflect.ValueOf(b), nil

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected string, got %T", v)
		}
		return reflect.ValueOf(s), nil

	case abi.AddressTy:
		s, ok := v.(string)
		if !ok || !common.IsHexAddress(s) {
			return reflect.Value{}, fmt.Errorf("%w: %v", domain.ErrInvalidAddress, v)
		}
		return reflect.ValueOf(common.HexToAddress(s)), nil

	case abi.BytesTy:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected hex text, got %T", v)
		}
		return reflect.ValueOf(common.FromHex(s)), nil

	case abi.FixedBytesTy:
		s, ok := v.(string)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected hex text, got %T", v)
		}
		raw := common.FromHex(s)
		if len(raw) != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", t.Size, len(raw))
		}
		out := reflect.New(t.GetType()).Elem()
		reflect.Copy(out, reflect.ValueOf(raw))
		return out, nil

	case abi.SliceTy, abi.ArrayTy:
		items, ok := v.([]any)
		if !ok {
			return reflect.Value{}, fmt.Errorf("expected array, got %T", v)
		}
		if t.T == abi.ArrayTy && len(items) != t.Size {
			return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Size, len(items))
		}

		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), len(items), len(items))
		} else {
			out = reflect.New(t.GetType()).Elem()
		}
		for i, item := range items {
			ev, err := toABIValue(*t.Elem, item)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			out.Index(i).Set(ev)
		}
		return out, nil

	default:
		return reflect.Value{}, fmt.Errorf("unsupported ABI type %s", t.String())
	}
}
