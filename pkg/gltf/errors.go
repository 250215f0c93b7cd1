package gltf

import "errors"

// Registration errors. Every failing Add* call leaves the Document and its
// binary buffer exactly as they were before the call.
var (
	ErrDanglingReference        = errors.New("reference to unregistered index")
	ErrCyclicHierarchy          = errors.New("node hierarchy would contain a cycle")
	ErrNodeHasParent            = errors.New("node already has a parent")
	ErrSceneRoot                = errors.New("node is a scene root")
	ErrConflictingTransform     = errors.New("node has both a matrix and translation/rotation/scale")
	ErrInvalidSequence          = errors.New("invalid data sequence")
	ErrUnsupportedComponentType = errors.New("unsupported component type")
	ErrInvalidImage             = errors.New("invalid image")
	ErrKeyframeMismatch         = errors.New("keyframe count mismatch")
	ErrInvalidTarget            = errors.New("invalid target")
)

// ErrInvalidDocument is returned by Validate for structurally broken files.
var ErrInvalidDocument = errors.New("invalid glTF document")
