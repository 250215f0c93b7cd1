package gltf

import (
	"fmt"
	"strconv"
	"strings"
)

// ComponentType is the numeric type of a single accessor component.
type ComponentType uint32

const (
	Byte          ComponentType = 5120
	UnsignedByte  ComponentType = 5121
	Short         ComponentType = 5122
	UnsignedShort ComponentType = 5123
	UnsignedInt   ComponentType = 5125
	Float         ComponentType = 5126
)

// Size returns the component size in bytes, or 0 for an unknown type.
func (c ComponentType) Size() int {
	switch c {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case UnsignedInt, Float:
		return 4
	default:
		return 0
	}
}

// Supported reports whether c can be encoded.
// Signed 8/16-bit types are recognised when reading but never written.
func (c ComponentType) Supported() bool {
	switch c {
	case UnsignedByte, UnsignedShort, UnsignedInt, Float:
		return true
	default:
		return false
	}
}

// String returns the glTF name of the component type.
func (c ComponentType) String() string {
	switch c {
	case Byte:
		return "BYTE"
	case UnsignedByte:
		return "UNSIGNED_BYTE"
	case Short:
		return "SHORT"
	case UnsignedShort:
		return "UNSIGNED_SHORT"
	case UnsignedInt:
		return "UNSIGNED_INT"
	case Float:
		return "FLOAT"
	default:
		return fmt.Sprintf("Unknown(%d)", uint32(c))
	}
}

// AccessorType is the structural shape of one accessor element.
type AccessorType string

const (
	Scalar AccessorType = "SCALAR"
	Vec2   AccessorType = "VEC2"
	Vec3   AccessorType = "VEC3"
	Vec4   AccessorType = "VEC4"
	Mat2   AccessorType = "MAT2"
	Mat3   AccessorType = "MAT3"
	Mat4   AccessorType = "MAT4"
)

// Components returns the number of components per element, or 0 if unknown.
func (t AccessorType) Components() int {
	switch t {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	default:
		return 0
	}
}

// Writable reports whether elements of this shape can be registered.
// MAT2 and MAT3 carry column padding rules for small component types and are
// not produced.
func (t AccessorType) Writable() bool {
	switch t {
	case Scalar, Vec2, Vec3, Vec4, Mat4:
		return true
	default:
		return false
	}
}

// Target is the GPU binding hint of a buffer view.
type Target uint32

const (
	TargetNone         Target = 0
	ArrayBuffer        Target = 34962
	ElementArrayBuffer Target = 34963
)

// Mode is the primitive topology.
type Mode uint32

const (
	Points Mode = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

// Sampler filter values.
type Filter uint32

const (
	Nearest              Filter = 9728
	Linear               Filter = 9729
	NearestMipmapNearest Filter = 9984
	LinearMipmapNearest  Filter = 9985
	NearestMipmapLinear  Filter = 9986
	LinearMipmapLinear   Filter = 9987
)

// Sampler wrap values.
type Wrap uint32

const (
	ClampToEdge    Wrap = 33071
	MirroredRepeat Wrap = 33648
	Repeat         Wrap = 10497
)

// AlphaMode controls how the alpha channel of the base color is interpreted.
type AlphaMode string

const (
	AlphaOpaque AlphaMode = "OPAQUE"
	AlphaMask   AlphaMode = "MASK"
	AlphaBlend  AlphaMode = "BLEND"
)

// Path is the node property targeted by an animation channel.
type Path string

const (
	PathTranslation Path = "translation"
	PathRotation    Path = "rotation"
	PathScale       Path = "scale"
	PathWeights     Path = "weights"
)

// Interpolation is the keyframe interpolation of an animation sampler.
type Interpolation string

const (
	InterpolationLinear      Interpolation = "LINEAR"
	InterpolationStep        Interpolation = "STEP"
	InterpolationCubicSpline Interpolation = "CUBICSPLINE"
)

// Image MIME types accepted for embedded images.
const (
	MimePNG  = "image/png"
	MimeJPEG = "image/jpeg"
)

// Vertex attribute semantics.
const (
	AttrPosition  = "POSITION"
	AttrNormal    = "NORMAL"
	AttrTangent   = "TANGENT"
	AttrTexCoord0 = "TEXCOORD_0"
	AttrColor0    = "COLOR_0"
)

// ExtSpecularGlossiness is the extension name of the specular-glossiness workflow.
const ExtSpecularGlossiness = "KHR_materials_pbrSpecularGlossiness"

// TexCoord returns the TEXCOORD_n attribute name.
func TexCoord(set int) string {
	return "TEXCOORD_" + strconv.Itoa(set)
}

// validAttribute reports whether name is a glTF attribute semantic.
// Application-specific attributes must start with an underscore.
func validAttribute(name string) bool {
	switch name {
	case AttrPosition, AttrNormal, AttrTangent:
		return true
	}
	if strings.HasPrefix(name, "_") && len(name) > 1 {
		return true
	}
	for _, prefix := range []string{"TEXCOORD_", "COLOR_", "JOINTS_", "WEIGHTS_"} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			n, err := strconv.Atoi(rest)
			return err == nil && n >= 0 && strconv.Itoa(n) == rest
		}
	}
	return false
}

// IndexType selects the component type used for index accessors.
type IndexType int

const (
	// IndexAuto picks UNSIGNED_SHORT when every index fits, UNSIGNED_INT otherwise.
	IndexAuto IndexType = iota
	IndexUint16
	IndexUint32
)

// ParseIndexType converts a configuration string to an IndexType.
func ParseIndexType(s string) (IndexType, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return IndexAuto, nil
	case "uint16", "unsigned_short":
		return IndexUint16, nil
	case "uint32", "unsigned_int":
		return IndexUint32, nil
	default:
		return IndexAuto, fmt.Errorf("unknown index type %q", s)
	}
}

// String returns the configuration name of the index type.
func (t IndexType) String() string {
	switch t {
	case IndexUint16:
		return "uint16"
	case IndexUint32:
		return "uint32"
	default:
		return "auto"
	}
}
