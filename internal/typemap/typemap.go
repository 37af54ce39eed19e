package typemap

import (
	"errors"
	"fmt"
	"regexp"

	"mpirt/internal/defs"
)

var (
	ErrUnknownType          = errors.New("unknown type")
	ErrUnregisteredCallback = errors.New("callback type is not registered")
)

// UnknownTypeError reports a type reference no table covers.
type UnknownTypeError struct {
	Type defs.TypeRef
	// Reason is ErrUnknownType or ErrUnregisteredCallback.
	Reason error
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%v: %q", e.Reason, string(e.Type))
}

func (e *UnknownTypeError) Unwrap() error { return e.Reason }

// Is makes every UnknownTypeError match ErrUnknownType, whatever the reason.
func (e *UnknownTypeError) Is(target error) bool { return target == ErrUnknownType }

var callbackShape = regexp.MustCompile(`^MPI_\w+_function \*$`)

// Map returns the Go type for ref, looking in the primary table and then in
// the callback table.
func Map(ref defs.TypeRef) (GoType, error) {
	if t, ok := primary[ref]; ok {
		return t, nil
	}
	if t, ok := callbackTypes[ref]; ok {
		return t, nil
	}
	reason := ErrUnknownType
	if callbackShape.MatchString(string(ref)) {
		reason = ErrUnregisteredCallback
	}
	return GoType{}, &UnknownTypeError{Type: ref, Reason: reason}
}

// MapConstant returns the Go type an exported constant of type ref is read
// as. Constants use a narrower table than functions.
func MapConstant(ref defs.TypeRef) (GoType, bool) {
	t, ok := constants[ref]
	return t, ok
}

// Unmapped lists the type references of d that Map rejects, in order of first
// use. Constant types are not included; see MapConstant.
func Unmapped(d *defs.Definitions) []*UnknownTypeError {
	var out []*UnknownTypeError
	seen := make(map[defs.TypeRef]struct{})
	check := func(ref defs.TypeRef) {
		if _, ok := seen[ref]; ok {
			return
		}
		seen[ref] = struct{}{}
		if _, err := Map(ref); err != nil {
			var unknown *UnknownTypeError
			if errors.As(err, &unknown) {
				out = append(out, unknown)
			}
		}
	}
	for _, fn := range d.Functions() {
		check(fn.Return)
		for _, prm := range fn.Params {
			check(prm.Type)
		}
	}
	return out
}
