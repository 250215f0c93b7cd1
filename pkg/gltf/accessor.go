package gltf

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/chewxy/math32"
)

// Component is the set of element types that can back an accessor.
type Component interface {
	~uint8 | ~uint16 | ~uint32 | ~float32
}

// Descriptor is the accessor metadata derived from a flat component sequence.
type Descriptor struct {
	ComponentType ComponentType
	Type          AccessorType
	Count         int
	Min           []float64
	Max           []float64

	// NonFinite is set when Min or Max contain NaN or an infinity.
	NonFinite bool
}

// ComponentTypeOf returns the component type that stores values of type T.
// Named types are classified by the conversions their underlying type admits.
func ComponentTypeOf[T Component]() ComponentType {
	half, b256, b65536 := 0.5, uint32(1<<8), uint32(1<<16)
	switch {
	case T(half) != 0:
		return Float
	case T(b256) == 0:
		return UnsignedByte
	case T(b65536) == 0:
		return UnsignedShort
	default:
		return UnsignedInt
	}
}

// Derive computes count, component type and optional per-component bounds of
// data interpreted as elements of typ.
//
// Bounds start from the first element and use plain < and > comparisons, so a
// NaN in the first element sticks and later NaNs are ignored.
func Derive[T Component](data []T, typ AccessorType, needsBounds bool) (Descriptor, error) {
	n := typ.Components()
	if n == 0 || !typ.Writable() {
		return Descriptor{}, fmt.Errorf("%w: accessor type %q", ErrInvalidSequence, typ)
	}
	if len(data) == 0 {
		return Descriptor{}, fmt.Errorf("%w: empty %s sequence", ErrInvalidSequence, typ)
	}
	if len(data)%n != 0 {
		return Descriptor{}, fmt.Errorf("%w: %d components is not a multiple of %d (%s)",
			ErrInvalidSequence, len(data), n, typ)
	}

	d := Descriptor{
		ComponentType: ComponentTypeOf[T](),
		Type:          typ,
		Count:         len(data) / n,
	}
	if !needsBounds {
		return d, nil
	}

	d.Min = make([]float64, n)
	d.Max = make([]float64, n)
	for c := 0; c < n; c++ {
		d.Min[c] = float64(data[c])
		d.Max[c] = d.Min[c]
	}
	for i := n; i < len(data); i += n {
		for c := 0; c < n; c++ {
			v := float64(data[i+c])
			if v < d.Min[c] {
				d.Min[c] = v
			}
			if v > d.Max[c] {
				d.Max[c] = v
			}
		}
	}

	if d.ComponentType == Float {
		for c := 0; c < n; c++ {
			if !finite32(d.Min[c]) || !finite32(d.Max[c]) {
				d.NonFinite = true
				break
			}
		}
	}
	return d, nil
}

func finite32(v float64) bool {
	f := float32(v)
	return !math32.IsNaN(f) && !math32.IsInf(f, 0)
}

// Encode serializes data as little-endian components, without padding.
func Encode[T Component](data []T) []byte {
	ct := ComponentTypeOf[T]()
	out := make([]byte, len(data)*ct.Size())
	le := binary.LittleEndian
	for i, v := range data {
		switch ct {
		case UnsignedByte:
			out[i] = uint8(v)
		case UnsignedShort:
			le.PutUint16(out[i*2:], uint16(v))
		case UnsignedInt:
			le.PutUint32(out[i*4:], uint32(v))
		case Float:
			le.PutUint32(out[i*4:], math.Float32bits(float32(v)))
		}
	}
	return out
}

// EncodeValues serializes dynamically typed values as components of type ct.
// Values that the unsigned integer types cannot represent exactly are rejected.
func EncodeValues(ct ComponentType, values []float64) ([]byte, error) {
	if !ct.Supported() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedComponentType, ct)
	}

	var limit float64
	switch ct {
	case UnsignedByte:
		limit = math.MaxUint8
	case UnsignedShort:
		limit = math.MaxUint16
	case UnsignedInt:
		limit = math.MaxUint32
	}

	size := ct.Size()
	out := make([]byte, len(values)*size)
	le := binary.LittleEndian
	for i, v := range values {
		if ct == Float {
			if math.Abs(v) > math.MaxFloat32 && !math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: %g overflows FLOAT", ErrUnsupportedComponentType, v)
			}
			le.PutUint32(out[i*4:], math.Float32bits(float32(v)))
			continue
		}
		if v < 0 || v > limit || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: %g is not representable as %s", ErrUnsupportedComponentType, v, ct)
		}
		switch ct {
		case UnsignedByte:
			out[i] = uint8(v)
		case UnsignedShort:
			le.PutUint16(out[i*2:], uint16(v))
		case UnsignedInt:
			le.PutUint32(out[i*4:], uint32(v))
		}
	}
	return out, nil
}

// DecodeValues reads count elements of typ from data as float64 components.
// It is the inverse of Encode and also accepts the signed 8/16-bit types.
func DecodeValues(data []byte, ct ComponentType, typ AccessorType, count int) ([]float64, error) {
	size := ct.Size()
	if size == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedComponentType, ct)
	}
	n := typ.Components() * count
	if n == 0 && count != 0 {
		return nil, fmt.Errorf("%w: accessor type %q", ErrInvalidSequence, typ)
	}
	if len(data) < n*size {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrInvalidSequence, n*size, len(data))
	}

	out := make([]float64, n)
	le := binary.LittleEndian
	for i := range out {
		p := data[i*size:]
		switch ct {
		case Byte:
			out[i] = float64(int8(p[0]))
		case UnsignedByte:
			out[i] = float64(p[0])
		case Short:
			out[i] = float64(int16(le.Uint16(p)))
		case UnsignedShort:
			out[i] = float64(le.Uint16(p))
		case UnsignedInt:
			out[i] = float64(le.Uint32(p))
		case Float:
			out[i] = float64(math.Float32frombits(le.Uint32(p)))
		}
	}
	return out, nil
}

