package truss

import "errors"

// Domain errors for model construction.
var (
	// ErrInvalidReference indicates a member or load naming a node that does not exist.
	ErrInvalidReference = errors.New("truss: invalid node reference")

	// ErrInvalidGeometry indicates a non-finite coordinate or a non-positive section property.
	ErrInvalidGeometry = errors.New("truss: invalid geometry")

	// ErrZeroLength indicates a member whose end nodes coincide.
	ErrZeroLength = errors.New("truss: member has zero length")
)
