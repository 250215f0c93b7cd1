package gltf

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// AccessorOptions control how AddAccessor packs and describes data.
type AccessorOptions struct {
	Target     Target // buffer view target, TargetNone for animation and image data
	Stride     int    // byte stride of the buffer view, 0 for tightly packed
	Normalized bool   // integer components are normalized to [0, 1]
	Bounds     bool   // derive and record min/max
	Name       string
}

// AddBufferView packs data into the buffer and registers a view over it.
// Stride must be 0 or a multiple of 4 in [4, 252].
func (d *Document) AddBufferView(data []byte, stride int, target Target) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty buffer view", ErrInvalidSequence)
	}
	if err := checkView(stride, target); err != nil {
		return 0, err
	}
	return d.appendView(data, stride, target, ""), nil
}

func checkView(stride int, target Target) error {
	switch target {
	case TargetNone, ArrayBuffer, ElementArrayBuffer:
	default:
		return fmt.Errorf("%w: buffer view target %d", ErrInvalidTarget, target)
	}
	if stride != 0 && (stride < 4 || stride > 252 || stride%4 != 0) {
		return fmt.Errorf("%w: byte stride %d", ErrInvalidSequence, stride)
	}
	return nil
}

// appendView packs raw bytes and registers the view. It cannot fail.
func (d *Document) appendView(raw []byte, stride int, target Target, name string) int {
	offset, length := d.buf.Append(raw)
	d.bufferViews = append(d.bufferViews, BufferView{
		Buffer:     0,
		ByteOffset: offset,
		ByteLength: length,
		ByteStride: stride,
		Target:     target,
		Name:       name,
	})
	return len(d.bufferViews) - 1
}

// AddAccessor derives the accessor for data, packs it into a new buffer view
// and registers both. Data is flat: len(data) must be a multiple of
// typ.Components().
func AddAccessor[T Component](d *Document, data []T, typ AccessorType, opts AccessorOptions) (int, error) {
	desc, err := Derive(data, typ, opts.Bounds)
	if err != nil {
		return 0, err
	}
	if err := checkAccessor(desc, opts); err != nil {
		return 0, err
	}
	return d.registerAccessor(desc, Encode(data), opts), nil
}

func checkAccessor(desc Descriptor, opts AccessorOptions) error {
	if err := checkView(opts.Stride, opts.Target); err != nil {
		return err
	}
	if elem := desc.Type.Components() * desc.ComponentType.Size(); opts.Stride != 0 && opts.Stride != elem {
		return fmt.Errorf("%w: byte stride %d on tightly packed %d-byte elements", ErrInvalidSequence, opts.Stride, elem)
	}
	if opts.Normalized && desc.ComponentType == Float {
		return fmt.Errorf("%w: FLOAT components cannot be normalized", ErrUnsupportedComponentType)
	}
	if opts.Target == ElementArrayBuffer && (desc.Type != Scalar || desc.ComponentType == Float) {
		return fmt.Errorf("%w: index data must be unsigned integer SCALAR, got %s %s",
			ErrInvalidTarget, desc.ComponentType, desc.Type)
	}
	return nil
}

func (d *Document) registerAccessor(desc Descriptor, raw []byte, opts AccessorOptions) int {
	view := d.appendView(raw, opts.Stride, opts.Target, "")
	d.accessors = append(d.accessors, Accessor{
		BufferView:    view,
		ComponentType: desc.ComponentType,
		Normalized:    opts.Normalized,
		Count:         desc.Count,
		Type:          desc.Type,
		Min:           desc.Min,
		Max:           desc.Max,
		Name:          opts.Name,
	})
	idx := len(d.accessors) - 1

	d.log.Debug("registered accessor",
		zap.Int("index", idx),
		zap.Stringer("componentType", desc.ComponentType),
		zap.String("type", string(desc.Type)),
		zap.Int("count", desc.Count),
		zap.Int("byteOffset", d.bufferViews[view].ByteOffset),
	)
	if desc.NonFinite {
		d.nonFinite[idx] = true
		d.log.Warn("accessor bounds are not finite",
			zap.Int("index", idx),
			zap.Float64s("min", desc.Min),
			zap.Float64s("max", desc.Max),
		)
	}
	return idx
}

// AddValues registers dynamically typed values. It is the entry point for
// callers that only know the component type at run time.
func (d *Document) AddValues(ct ComponentType, typ AccessorType, values []float64, opts AccessorOptions) (int, error) {
	n := typ.Components()
	if n == 0 || !typ.Writable() {
		return 0, fmt.Errorf("%w: accessor type %q", ErrInvalidSequence, typ)
	}
	if len(values) == 0 || len(values)%n != 0 {
		return 0, fmt.Errorf("%w: %d components for %s", ErrInvalidSequence, len(values), typ)
	}
	raw, err := EncodeValues(ct, values)
	if err != nil {
		return 0, err
	}

	desc := Descriptor{ComponentType: ct, Type: typ, Count: len(values) / n}
	if opts.Bounds {
		desc.Min, desc.Max = boundsOf(values, n)
		if ct == Float {
			for c := 0; c < n; c++ {
				if !finite32(desc.Min[c]) || !finite32(desc.Max[c]) {
					desc.NonFinite = true
				}
			}
		}
	}
	if err := checkAccessor(desc, opts); err != nil {
		return 0, err
	}
	return d.registerAccessor(desc, raw, opts), nil
}

func boundsOf(values []float64, n int) (lo, hi []float64) {
	lo = slices.Clone(values[:n])
	hi = slices.Clone(values[:n])
	for i := n; i < len(values); i += n {
		for c := 0; c < n; c++ {
			v := values[i+c]
			if v < lo[c] {
				lo[c] = v
			}
			if v > hi[c] {
				hi[c] = v
			}
		}
	}
	return lo, hi
}

// AddPositions registers VEC3 vertex positions. Bounds are always recorded.
func (d *Document) AddPositions(p [][3]float32) (int, error) {
	return AddAccessor(d, flatten3(p), Vec3, AccessorOptions{Target: ArrayBuffer, Bounds: true})
}

// AddNormals registers VEC3 vertex normals.
func (d *Document) AddNormals(n [][3]float32) (int, error) {
	return AddAccessor(d, flatten3(n), Vec3, AccessorOptions{Target: ArrayBuffer})
}

// AddTexCoords registers one VEC2 texture coordinate set.
func (d *Document) AddTexCoords(uv [][2]float32) (int, error) {
	flat := make([]float32, 0, len(uv)*2)
	for _, v := range uv {
		flat = append(flat, v[:]...)
	}
	return AddAccessor(d, flat, Vec2, AccessorOptions{Target: ArrayBuffer})
}

// AddTangents registers VEC4 tangents, w holding the handedness.
func (d *Document) AddTangents(t [][4]float32) (int, error) {
	return AddAccessor(d, flatten4(t), Vec4, AccessorOptions{Target: ArrayBuffer})
}

// AddColors registers VEC4 linear RGBA vertex colors.
func (d *Document) AddColors(c [][4]float32) (int, error) {
	return AddAccessor(d, flatten4(c), Vec4, AccessorOptions{Target: ArrayBuffer})
}

// AddScalars registers FLOAT scalars with bounds, as used for keyframe times.
func (d *Document) AddScalars(s []float32) (int, error) {
	return AddAccessor(d, s, Scalar, AccessorOptions{Bounds: true})
}

// AddVec3s registers VEC3 values without a buffer view target.
func (d *Document) AddVec3s(v [][3]float32) (int, error) {
	return AddAccessor(d, flatten3(v), Vec3, AccessorOptions{})
}

// AddVec4s registers VEC4 values without a buffer view target.
func (d *Document) AddVec4s(v [][4]float32) (int, error) {
	return AddAccessor(d, flatten4(v), Vec4, AccessorOptions{})
}

// AddMatrices registers column-major MAT4 values.
func (d *Document) AddMatrices(m []mgl32.Mat4) (int, error) {
	flat := make([]float32, 0, len(m)*16)
	for _, v := range m {
		flat = append(flat, v[:]...)
	}
	return AddAccessor(d, flat, Mat4, AccessorOptions{})
}

// AddIndices registers triangle or line indices. The component type follows
// the document's IndexType. The largest value of the chosen type is reserved
// as the primitive restart value and rejected.
func (d *Document) AddIndices(indices []uint32) (int, error) {
	if len(indices) == 0 {
		return 0, fmt.Errorf("%w: empty index sequence", ErrInvalidSequence)
	}
	ct, err := d.indexComponentType(slices.Max(indices))
	if err != nil {
		return 0, err
	}
	opts := AccessorOptions{Target: ElementArrayBuffer}
	if ct == UnsignedShort {
		narrow := make([]uint16, len(indices))
		for i, v := range indices {
			narrow[i] = uint16(v)
		}
		return AddAccessor(d, narrow, Scalar, opts)
	}
	return AddAccessor(d, indices, Scalar, opts)
}

func (d *Document) indexComponentType(maxIndex uint32) (ComponentType, error) {
	switch d.indexType {
	case IndexUint16:
		if maxIndex >= math.MaxUint16 {
			return 0, fmt.Errorf("%w: index %d does not fit UNSIGNED_SHORT", ErrUnsupportedComponentType, maxIndex)
		}
		return UnsignedShort, nil
	case IndexUint32:
	default:
		if maxIndex < math.MaxUint16 {
			return UnsignedShort, nil
		}
	}
	if maxIndex == math.MaxUint32 {
		return 0, fmt.Errorf("%w: index %d is the restart value", ErrUnsupportedComponentType, maxIndex)
	}
	return UnsignedInt, nil
}

func flatten3(v [][3]float32) []float32 {
	flat := make([]float32, 0, len(v)*3)
	for _, e := range v {
		flat = append(flat, e[:]...)
	}
	return flat
}

func flatten4(v [][4]float32) []float32 {
	flat := make([]float32, 0, len(v)*4)
	for _, e := range v {
		flat = append(flat, e[:]...)
	}
	return flat
}

// accessorValues decodes accessor i from the packed blob. Accessor data is
// always tightly packed.
func (d *Document) accessorValues(i int) ([]float64, error) {
	a := d.accessors[i]
	v := d.bufferViews[a.BufferView]
	return DecodeValues(d.buf.Bytes()[v.ByteOffset+a.ByteOffset:], a.ComponentType, a.Type, a.Count)
}
