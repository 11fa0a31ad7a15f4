package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrNotSolved indicates a result accessor called before a successful Solve.
	ErrNotSolved = errors.New("solver: truss has not been solved")

	// ErrUnstable indicates a kinematically unstable or under-constrained truss.
	ErrUnstable = errors.New("solver: structure is unstable (singular stiffness)")
)

// UnstableError names the free degree of freedom where elimination failed.
type UnstableError struct {
	DOF     int
	Node    int
	Axis    string
	Wrapped error
}

func (e *UnstableError) Error() string {
	return fmt.Sprintf("%s: no stiffness left for node %d %s (dof %d): %v", ErrUnstable, e.Node, e.Axis, e.DOF, e.Wrapped)
}

// Unwrap exposes both ErrUnstable and the underlying matrix error.
func (e *UnstableError) Unwrap() []error {
	return []error{ErrUnstable, e.Wrapped}
}
