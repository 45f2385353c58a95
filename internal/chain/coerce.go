package chain

import (
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

var bigIntType = reflect.TypeOf(&big.Int{})

// coerceArgs converts loosely typed values (chain ids as uint64, hex strings)
// into the Go types the ABI packer expects for inputs.
func coerceArgs(inputs abi.Arguments, values []any) ([]any, error) {
	if len(inputs) != len(values) {
		return nil, fmt.Errorf("expected %d arguments, got %d", len(inputs), len(values))
	}

	out := make([]any, len(values))
	for i, value := range values {
		coerced, err := coerce(inputs[i].Type, value)
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, inputs[i].Name, err)
		}
		out[i] = coerced
	}

	return out, nil
}

func coerce(t abi.Type, value any) (any, error) {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		n, err := toBigInt(value)
		if err != nil {
			return nil, err
		}
		return fitInteger(t, n)
	case abi.AddressTy:
		switch v := value.(type) {
		case common.Address:
			return v, nil
		case string:
			if !common.IsHexAddress(v) {
				return nil, fmt.Errorf("%q is not a valid address", v)
			}
			return common.HexToAddress(v), nil
		}
	case abi.FixedBytesTy:
		if t.Size == common.HashLength {
			switch v := value.(type) {
			case common.Hash:
				return [32]byte(v), nil
			case [32]byte:
				return v, nil
			}
		}
	}

	return value, nil
}

func toBigInt(value any) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return v, nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case int:
		return big.NewInt(int64(v)), nil
	default:
		return nil, fmt.Errorf("cannot use %T as an integer", value)
	}
}

// fitInteger returns n as the native Go type abi uses for t (uint8..uint64,
// int8..int64 or *big.Int), rejecting values that do not fit.
func fitInteger(t abi.Type, n *big.Int) (any, error) {
	if t.T == abi.UintTy && n.Sign() < 0 {
		return nil, fmt.Errorf("negative value %s for %s", n, t)
	}
	if t.T == abi.UintTy && n.BitLen() > t.Size {
		return nil, fmt.Errorf("value %s overflows %s", n, t)
	}
	if t.T == abi.IntTy && n.BitLen() > t.Size-1 {
		return nil, fmt.Errorf("value %s overflows %s", n, t)
	}

	target := t.GetType()
	if target == bigIntType {
		return new(big.Int).Set(n), nil
	}

	rv := reflect.New(target).Elem()
	if t.T == abi.UintTy {
		rv.SetUint(n.Uint64())
	} else {
		rv.SetInt(n.Int64())
	}

	return rv.Interface(), nil
}
