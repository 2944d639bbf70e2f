package nativemem

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned by Allocate when the request cannot be satisfied.
	ErrOutOfMemory = errors.New("nativemem: out of memory")

	// ErrContractViolation matches every *ContractViolation panic value.
	ErrContractViolation = errors.New("nativemem: contract violation")
)

// ContractViolation is the panic value raised when a caller breaks the
// allocate/view/release contract.
type ContractViolation struct {
	Op     string
	Handle Handle
	Reason string
}

func (v *ContractViolation) Error() string {
	return fmt.Sprintf("nativemem: contract violation in %s(%s): %s", v.Op, v.Handle, v.Reason)
}

// Is reports whether target is ErrContractViolation.
func (v *ContractViolation) Is(target error) bool {
	return target == ErrContractViolation
}

func violate(op string, h Handle, format string, args ...any) {
	panic(&ContractViolation{
		Op:     op,
		Handle: h,
		Reason: fmt.Sprintf(format, args...),
	})
}
