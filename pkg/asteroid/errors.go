package asteroid

import "errors"

var (
	// ErrSubdivisionTooDeep is returned when the subdivision level would
	// produce an unreasonably large mesh.
	ErrSubdivisionTooDeep = errors.New("subdivision level too deep")

	// ErrInvalidParams wraps every problem reported by GenerationParams.Validate.
	ErrInvalidParams = errors.New("invalid generation params")

	// ErrMalformedMesh is returned by Mesh.Validate.
	ErrMalformedMesh = errors.New("malformed mesh")
)
