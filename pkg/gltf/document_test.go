package gltf

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var triangle = [][3]float32{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
}

// counts snapshots every registry size and the blob length.
func counts(d *Document) map[Kind]int {
	m := make(map[Kind]int)
	for k := KindBuffer; k <= KindAnimation; k++ {
		m[k] = d.Count(k)
	}
	m[-1] = d.BinaryLen()
	return m
}

func TestTriangleExportLayout(t *testing.T) {
	d := New()

	pos, err := d.AddPositions(triangle)
	require.NoError(t, err)
	idx, err := d.AddIndices([]uint32{0, 1, 2})
	require.NoError(t, err)

	mesh, err := d.AddMesh(Mesh{Primitives: []Primitive{{
		Attributes: map[string]int{AttrPosition: pos},
		Indices:    Index(idx),
	}}})
	require.NoError(t, err)
	node, err := d.AddNode(Node{Mesh: Index(mesh)})
	require.NoError(t, err)
	_, err = d.AddScene(Scene{Nodes: []int{node}})
	require.NoError(t, err)

	data, err := d.Bytes()
	require.NoError(t, err)

	root, bin, err := Decode(data)
	require.NoError(t, err)
	assert.Zero(t, len(bin)%4)
	require.Len(t, root.Buffers, 1)
	assert.Equal(t, len(bin), root.Buffers[0].ByteLength)

	// 36 bytes of positions, then 6 bytes of UNSIGNED_SHORT indices padded to 8.
	assert.Equal(t, 44, len(bin))

	pa, ia := root.Accessors[pos], root.Accessors[idx]
	pv, iv := root.BufferViews[pa.BufferView], root.BufferViews[ia.BufferView]
	assert.Equal(t, 0, pv.ByteOffset)
	assert.Equal(t, 3*3*4, pv.ByteLength)
	assert.Equal(t, ArrayBuffer, pv.Target)
	assert.Equal(t, 36, iv.ByteOffset)
	assert.Equal(t, 3*2, iv.ByteLength)
	assert.Equal(t, ElementArrayBuffer, iv.Target)
	assert.Equal(t, UnsignedShort, ia.ComponentType)

	le := binary.LittleEndian
	assert.Equal(t, float32(1), math.Float32frombits(le.Uint32(bin[12:])))
	assert.Equal(t, []uint16{0, 1, 2}, []uint16{le.Uint16(bin[36:]), le.Uint16(bin[38:]), le.Uint16(bin[40:])})
	assert.Equal(t, []byte{0, 0}, bin[42:44])

	scene := 0
	assert.Equal(t, &scene, root.Scene)
	assert.Equal(t, "2.0", root.Asset.Version)
	assert.Equal(t, DefaultGenerator, root.Asset.Generator)

	_, err = Validate(data)
	assert.NoError(t, err)
}

func TestConflictingTransform(t *testing.T) {
	d := New()
	before := counts(d)

	var m [16]float32
	_, err := d.AddNode(Node{
		Translation: &[3]float32{1, 2, 3},
		Rotation:    &[4]float32{0, 0, 0, 1},
		Scale:       &[3]float32{1, 1, 1},
		Matrix:      &m,
	})
	assert.ErrorIs(t, err, ErrConflictingTransform)
	assert.Equal(t, before, counts(d))

	_, err = d.AddNode(Node{Matrix: &m})
	assert.NoError(t, err)
}

func TestDanglingAccessorLeavesDocumentUnchanged(t *testing.T) {
	d := New()
	pos, err := d.AddPositions(triangle)
	require.NoError(t, err)
	before := counts(d)

	_, err = d.AddMesh(Mesh{Primitives: []Primitive{{
		Attributes: map[string]int{AttrPosition: pos, AttrNormal: 7},
	}}})
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.Equal(t, before, counts(d))

	_, err = d.AddMesh(Mesh{Primitives: []Primitive{{
		Attributes: map[string]int{AttrPosition: pos},
		Indices:    Index(3),
	}}})
	assert.ErrorIs(t, err, ErrDanglingReference)

	_, err = d.AddMesh(Mesh{Primitives: []Primitive{{
		Attributes: map[string]int{AttrPosition: pos},
		Material:   Index(0),
	}}})
	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.Equal(t, before, counts(d))
}

func TestPositionBounds(t *testing.T) {
	d := New()
	i, err := d.AddPositions([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}})
	require.NoError(t, err)

	a, err := d.Accessor(i)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0, 0}, a.Min)
	assert.Equal(t, []float64{1, 1, 1}, a.Max)
	assert.Equal(t, 4, a.Count)
	assert.Equal(t, Vec3, a.Type)
	assert.Equal(t, Float, a.ComponentType)
}

func TestIndexDensity(t *testing.T) {
	d := New()
	for i := 0; i < 5; i++ {
		got, err := d.AddScalars([]float32{float32(i)})
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}
	// A failed call does not consume an index.
	_, err := d.AddScalars(nil)
	require.Error(t, err)
	got, err := d.AddScalars([]float32{9})
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Equal(t, 6, d.Count(KindAccessor))
	assert.Equal(t, 6, d.Count(KindBufferView))
}

func TestBufferViewsAligned(t *testing.T) {
	d := New()
	_, err := AddAccessor(d, []uint8{1, 2, 3}, Scalar, AccessorOptions{})
	require.NoError(t, err)
	_, err = AddAccessor(d, []uint16{1, 2, 3}, Scalar, AccessorOptions{})
	require.NoError(t, err)
	_, err = d.AddBufferView([]byte{1}, 0, TargetNone)
	require.NoError(t, err)
	_, err = d.AddScalars([]float32{1})
	require.NoError(t, err)

	prevEnd := 0
	for i := 0; i < d.Count(KindBufferView); i++ {
		v, err := d.BufferView(i)
		require.NoError(t, err)
		assert.Zero(t, v.ByteOffset%4, "view %d", i)
		assert.GreaterOrEqual(t, v.ByteOffset, prevEnd, "view %d overlaps", i)
		prevEnd = v.ByteOffset + v.ByteLength
	}
}

func TestAddBufferViewErrors(t *testing.T) {
	d := New()
	_, err := d.AddBufferView(nil, 0, TargetNone)
	assert.ErrorIs(t, err, ErrInvalidSequence)
	_, err = d.AddBufferView([]byte{1}, 0, Target(1))
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = d.AddBufferView([]byte{1}, 6, TargetNone)
	assert.ErrorIs(t, err, ErrInvalidSequence)
	assert.Zero(t, d.BinaryLen())
}

func TestAddAccessorOptions(t *testing.T) {
	d := New()

	_, err := AddAccessor(d, []float32{1}, Scalar, AccessorOptions{Normalized: true})
	assert.ErrorIs(t, err, ErrUnsupportedComponentType)

	_, err = AddAccessor(d, []uint16{1, 2}, Vec2, AccessorOptions{Target: ElementArrayBuffer})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	// Data is packed tightly, so any other stride would misread it.
	_, err = AddAccessor(d, []float32{1, 2, 3, 4, 5, 6}, Vec3, AccessorOptions{Stride: 16})
	assert.ErrorIs(t, err, ErrInvalidSequence)
	assert.Zero(t, d.Count(KindAccessor))
	assert.Zero(t, d.BinaryLen())

	_, err = AddAccessor(d, []float32{1, 2, 3, 4, 5, 6}, Vec3, AccessorOptions{Stride: 12})
	require.NoError(t, err)

	i, err := AddAccessor(d, []uint8{0, 128, 255, 255}, Vec4, AccessorOptions{Normalized: true, Name: "color"})
	require.NoError(t, err)
	a, err := d.Accessor(i)
	require.NoError(t, err)
	assert.True(t, a.Normalized)
	assert.Equal(t, "color", a.Name)
	assert.Equal(t, UnsignedByte, a.ComponentType)
}

func TestAddValues(t *testing.T) {
	d := New()
	i, err := d.AddValues(UnsignedInt, Vec2, []float64{4, 1, 2, 8}, AccessorOptions{Bounds: true})
	require.NoError(t, err)
	a, err := d.Accessor(i)
	require.NoError(t, err)
	assert.Equal(t, UnsignedInt, a.ComponentType)
	assert.Equal(t, 2, a.Count)
	assert.Equal(t, []float64{2, 1}, a.Min)
	assert.Equal(t, []float64{4, 8}, a.Max)

	before := counts(d)
	_, err = d.AddValues(Short, Scalar, []float64{1}, AccessorOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedComponentType)
	_, err = d.AddValues(UnsignedByte, Scalar, []float64{300}, AccessorOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedComponentType)
	_, err = d.AddValues(Float, Vec3, []float64{1, 2}, AccessorOptions{})
	assert.ErrorIs(t, err, ErrInvalidSequence)
	assert.Equal(t, before, counts(d))
}

func TestAddIndicesComponentType(t *testing.T) {
	tests := []struct {
		name     string
		typ      IndexType
		indices  []uint32
		want     ComponentType
		wantSize int
		wantErr  error
	}{
		{"auto small", IndexAuto, []uint32{0, 1, 65534}, UnsignedShort, 6, nil},
		{"auto large", IndexAuto, []uint32{0, 65535}, UnsignedInt, 8, nil},
		{"forced uint32", IndexUint32, []uint32{0, 1, 2}, UnsignedInt, 12, nil},
		{"forced uint16", IndexUint16, []uint32{1, 2}, UnsignedShort, 4, nil},
		{"uint16 overflow", IndexUint16, []uint32{70000}, 0, 0, ErrUnsupportedComponentType},
		{"restart value", IndexAuto, []uint32{math.MaxUint32}, 0, 0, ErrUnsupportedComponentType},
		{"empty", IndexAuto, nil, 0, 0, ErrInvalidSequence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(WithIndexType(tt.typ))
			i, err := d.AddIndices(tt.indices)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, d.BinaryLen())
				return
			}
			require.NoError(t, err)
			a, err := d.Accessor(i)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.ComponentType)
			assert.Equal(t, tt.wantSize, d.BinaryLen())
			v, err := d.BufferView(a.BufferView)
			require.NoError(t, err)
			assert.Equal(t, ElementArrayBuffer, v.Target)
		})
	}
}

func TestAddMeshValidation(t *testing.T) {
	d := New()
	pos, err := d.AddPositions(triangle)
	require.NoError(t, err)
	uv, err := d.AddTexCoords([][2]float32{{0, 0}, {1, 0}})
	require.NoError(t, err)
	times, err := d.AddScalars([]float32{0, 1, 2})
	require.NoError(t, err)
	unbounded, err := d.AddVec3s(triangle)
	require.NoError(t, err)
	bytePos, err := AddAccessor(d, []uint8{0, 0, 0, 1, 0, 0, 0, 1, 0}, Vec3, AccessorOptions{Bounds: true})
	require.NoError(t, err)
	before := counts(d)
	badMode := Mode(7)
	nan := float32(math.NaN())

	tests := []struct {
		name    string
		mesh    Mesh
		wantErr error
	}{
		{"no primitives", Mesh{}, ErrInvalidSequence},
		{"no attributes", Mesh{Primitives: []Primitive{{}}}, ErrInvalidSequence},
		{"bad attribute name", Mesh{Primitives: []Primitive{{Attributes: map[string]int{"position": pos}}}}, ErrInvalidTarget},
		{"count mismatch", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: pos, AttrTexCoord0: uv}}}}, ErrInvalidSequence},
		{"float indices", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: pos}, Indices: Index(times)}}}, ErrInvalidSequence},
		{"position not vec3", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: times}}}}, ErrInvalidSequence},
		{"position without bounds", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: unbounded}}}}, ErrInvalidSequence},
		{"position not float", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: bytePos}}}}, ErrInvalidSequence},
		{"nan weights", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: pos}}}, Weights: []float32{0.5, nan}}, ErrInvalidSequence},
		{"bad mode", Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: pos}, Mode: &badMode}}}, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.AddMesh(tt.mesh)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, counts(d))
		})
	}

	mode := Lines
	i, err := d.AddMesh(Mesh{Name: "ok", Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: pos, "_ID": times}, Mode: &mode}}})
	require.NoError(t, err)
	m, err := d.Mesh(i)
	require.NoError(t, err)
	assert.Equal(t, "ok", m.Name)
	assert.Equal(t, Lines, *m.Primitives[0].Mode)
}

func TestAddMeshCopiesAttributes(t *testing.T) {
	d := New()
	pos, err := d.AddPositions(triangle)
	require.NoError(t, err)

	attrs := map[string]int{AttrPosition: pos}
	i, err := d.AddMesh(Mesh{Primitives: []Primitive{{Attributes: attrs}}})
	require.NoError(t, err)
	attrs[AttrNormal] = 99

	m, err := d.Mesh(i)
	require.NoError(t, err)
	assert.Len(t, m.Primitives[0].Attributes, 1)
}

func TestAddMeshData(t *testing.T) {
	d := New()
	mat, err := d.AddMaterial(BasicMaterial("red", [4]float32{1, 0, 0, 1}))
	require.NoError(t, err)

	i, err := d.AddMeshData(MeshData{
		Name:      "quad",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoords: [][][2]float32{
			{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
			{{0, 0}, {2, 0}, {2, 2}, {0, 2}},
		},
		Indices:  []uint32{0, 1, 2, 0, 2, 3},
		Material: Index(mat),
	})
	require.NoError(t, err)

	m, err := d.Mesh(i)
	require.NoError(t, err)
	require.Len(t, m.Primitives, 1)
	p := m.Primitives[0]
	assert.Len(t, p.Attributes, 4)
	assert.Contains(t, p.Attributes, "TEXCOORD_1")
	require.NotNil(t, p.Indices)
	assert.Equal(t, mat, *p.Material)
	assert.Equal(t, 5, d.Count(KindAccessor))

	before := counts(d)
	invalid := []MeshData{
		{},
		{Positions: triangle, Normals: [][3]float32{{0, 0, 1}}},
		{Positions: triangle, Indices: []uint32{0, 1, 3}},
		{Positions: triangle, TexCoords: [][][2]float32{nil}},
		{Positions: triangle, Material: Index(5)},
	}
	for _, md := range invalid {
		_, err := d.AddMeshData(md)
		assert.Error(t, err)
	}
	assert.Equal(t, before, counts(d))
}

func TestGettersReturnCopies(t *testing.T) {
	d := New()
	i, err := d.AddPositions(triangle)
	require.NoError(t, err)

	a, err := d.Accessor(i)
	require.NoError(t, err)
	a.Min[0] = 42

	again, err := d.Accessor(i)
	require.NoError(t, err)
	assert.Equal(t, 0.0, again.Min[0])

	idx, err := d.AddIndices([]uint32{0, 1, 2})
	require.NoError(t, err)
	mi, err := d.AddMesh(Mesh{Primitives: []Primitive{{Attributes: map[string]int{AttrPosition: i}, Indices: Index(idx)}}})
	require.NoError(t, err)
	m, err := d.Mesh(mi)
	require.NoError(t, err)
	*m.Primitives[0].Indices = 99
	m, err = d.Mesh(mi)
	require.NoError(t, err)
	assert.Equal(t, idx, *m.Primitives[0].Indices)

	metal := MetallicMaterial("steel", [4]float32{1, 1, 1, 1}, 1, 0.2)
	mat, err := d.AddMaterial(metal)
	require.NoError(t, err)
	*metal.PBRMetallicRoughness.MetallicFactor = 0
	got, err := d.Material(mat)
	require.NoError(t, err)
	*got.PBRMetallicRoughness.MetallicFactor = 0.5
	got.PBRMetallicRoughness.BaseColorFactor[0] = 0
	got, err = d.Material(mat)
	require.NoError(t, err)
	assert.Equal(t, float32(1), *got.PBRMetallicRoughness.MetallicFactor)
	assert.Equal(t, [4]float32{1, 1, 1, 1}, *got.PBRMetallicRoughness.BaseColorFactor)

	tr := [3]float32{1, 2, 3}
	n, err := d.AddNode(Node{Translation: &tr, Mesh: Index(mi)})
	require.NoError(t, err)
	tr[0] = 100
	node, err := d.Node(n)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 2, 3}, *node.Translation)
	node.Translation[1] = 100
	*node.Mesh = 7
	node, err = d.Node(n)
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 2, 3}, *node.Translation)
	assert.Equal(t, mi, *node.Mesh)

	_, err = d.Accessor(3)
	assert.ErrorIs(t, err, ErrDanglingReference)
	_, err = d.Node(-1)
	assert.ErrorIs(t, err, ErrDanglingReference)
}

func TestNonFiniteBoundsOmittedOnExport(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := New(WithLogger(zap.New(core)))

	i, err := d.AddScalars([]float32{float32(math.Inf(-1)), 1})
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("accessor bounds are not finite").Len())

	// Registered bounds keep the derived values.
	a, err := d.Accessor(i)
	require.NoError(t, err)
	assert.True(t, math.IsInf(a.Min[0], -1))

	data, err := d.Bytes()
	require.NoError(t, err)
	root, _, err := Decode(data)
	require.NoError(t, err)
	assert.Nil(t, root.Accessors[i].Min)
	assert.Nil(t, root.Accessors[i].Max)
	assert.Equal(t, 1, logs.FilterMessage("omitting non-finite accessor bounds").Len())
}

func TestCountBuffer(t *testing.T) {
	d := New()
	assert.Zero(t, d.Count(KindBuffer))
	_, err := d.AddScalars([]float32{1})
	require.NoError(t, err)
	assert.Equal(t, 1, d.Count(KindBuffer))
	assert.Zero(t, d.Count(Kind(99)))
	assert.Equal(t, "accessors", KindAccessor.String())
}
