package chain

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

var (
	bigIntType = reflect.TypeOf((*big.Int)(nil))

	ErrArgumentCount = errors.New("wrong number of arguments")
	ErrOutOfRange    = errors.New("value out of range")
)

type (
	// ArgumentError is a problem with one positional argument of the call.
	ArgumentError struct {
		Index int
		Name  string
		Type  string
		Err   error
	}

	// ElementError is a problem with a list element, Index is 0-based.
	ElementError struct {
		Index int
		Err   error
	}
)

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %d %s (%s): %v", e.Index, e.Name, e.Type, e.Err)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// CoerceArgs converts args into the Go types the ABI packer expects for the
// inputs of method. Integers may be given as any Go integer type or *big.Int,
// fixed size byte arrays as arrays (ie common.Hash) or byte slices of the
// right length. The values are range checked against the declared ABI types,
// the error joins one *ArgumentError per invalid argument.
func CoerceArgs(method abi.Method, args []any) ([]any, error) {
	if len(args) != len(method.Inputs) {
		return nil, fmt.Errorf("%w: %s expects %d, got %d", ErrArgumentCount, method.Sig, len(method.Inputs), len(args))
	}
	out := make([]any, len(args))
	var errs []error
	for i, in := range method.Inputs {
		v, err := coerce(in.Type, reflect.ValueOf(args[i]))
		if err != nil {
			errs = append(errs, &ArgumentError{Index: i, Name: in.Name, Type: in.Type.String(), Err: err})
			continue
		}
		out[i] = v.Interface()
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// Calldata returns ABI encoded input of the method call (selector included).
func Calldata(method abi.Method, args []any) ([]byte, error) {
	coerced, err := CoerceArgs(method, args)
	if err != nil {
		return nil, err
	}
	packed, err := method.Inputs.Pack(coerced...)
	if err != nil {
		return nil, fmt.Errorf("packing arguments: %w", err)
	}
	return append(append([]byte{}, method.ID...), packed...), nil
}

func coerce(t abi.Type, v reflect.Value) (reflect.Value, error) {
	for v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, errors.New("missing value")
	}

	switch t.T {
	case abi.IntTy, abi.UintTy:
		n, err := toBigInt(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return integerValue(t, n)
	case abi.SliceTy, abi.ArrayTy:
		if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
			return reflect.Value{}, fmt.Errorf("expected list, got %s", v.Type())
		}
		var out reflect.Value
		if t.T == abi.SliceTy {
			out = reflect.MakeSlice(t.GetType(), v.Len(), v.Len())
		} else {
			if v.Len() != t.Size {
				return reflect.Value{}, fmt.Errorf("expected %d elements, got %d", t.Size, v.Len())
			}
			out = reflect.New(t.GetType()).Elem()
		}
		var errs []error
		for i := 0; i < v.Len(); i++ {
			e, err := coerce(*t.Elem, v.Index(i))
			if err != nil {
				errs = append(errs, &ElementError{Index: i, Err: err})
				continue
			}
			out.Index(i).Set(e)
		}
		if len(errs) > 0 {
			return reflect.Value{}, errors.Join(errs...)
		}
		return out, nil
	case abi.FixedBytesTy:
		target := t.GetType()
		if v.Kind() == reflect.Array && v.Type().ConvertibleTo(target) {
			return v.Convert(target), nil
		}
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			if v.Len() != t.Size {
				return reflect.Value{}, fmt.Errorf("expected %d bytes, got %d", t.Size, v.Len())
			}
			out := reflect.New(target).Elem()
			reflect.Copy(out, v)
			return out, nil
		}
		return reflect.Value{}, fmt.Errorf("can't use %s as bytes%d", v.Type(), t.Size)
	default:
		target := t.GetType()
		if v.Type().ConvertibleTo(target) {
			return v.Convert(target), nil
		}
		return reflect.Value{}, fmt.Errorf("can't use %s as %s", v.Type(), t.String())
	}
}

func toBigInt(v reflect.Value) (*big.Int, error) {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return big.NewInt(v.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return new(big.Int).SetUint64(v.Uint()), nil
	}
	if v.Type() == bigIntType {
		if v.IsNil() {
			return nil, errors.New("missing value")
		}
		return v.Interface().(*big.Int), nil
	}
	return nil, fmt.Errorf("expected integer, got %s", v.Type())
}

func integerValue(t abi.Type, n *big.Int) (reflect.Value, error) {
	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return reflect.Value{}, fmt.Errorf("%w: %s doesn't fit into uint%d", ErrOutOfRange, n, t.Size)
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if n.Cmp(limit) >= 0 || n.Cmp(new(big.Int).Neg(limit)) < 0 {
			return reflect.Value{}, fmt.Errorf("%w: %s doesn't fit into int%d", ErrOutOfRange, n, t.Size)
		}
	}

	target := t.GetType()
	switch {
	case target == bigIntType:
		return reflect.ValueOf(new(big.Int).Set(n)), nil
	case t.T == abi.UintTy:
		return reflect.ValueOf(n.Uint64()).Convert(target), nil
	default:
		return reflect.ValueOf(n.Int64()).Convert(target), nil
	}
}
