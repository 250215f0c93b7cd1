package gltf

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

// AddMesh registers a mesh after checking every primitive's references.
func (d *Document) AddMesh(m Mesh) (int, error) {
	if len(m.Primitives) == 0 {
		return 0, fmt.Errorf("%w: mesh %q has no primitives", ErrInvalidSequence, m.Name)
	}
	for i, p := range m.Primitives {
		if err := d.checkPrimitive(p); err != nil {
			return 0, fmt.Errorf("primitive %d: %w", i, err)
		}
	}
	if err := checkFinite(floatField{"weights", m.Weights}); err != nil {
		return 0, fmt.Errorf("mesh %q: %w", m.Name, err)
	}

	d.meshes = append(d.meshes, m.clone())
	return len(d.meshes) - 1, nil
}

func (d *Document) checkPrimitive(p Primitive) error {
	if len(p.Attributes) == 0 {
		return fmt.Errorf("%w: no attributes", ErrInvalidSequence)
	}

	// Sorted for deterministic error messages.
	count := -1
	for _, name := range slices.Sorted(maps.Keys(p.Attributes)) {
		if !validAttribute(name) {
			return fmt.Errorf("%w: attribute %q", ErrInvalidTarget, name)
		}
		idx := p.Attributes[name]
		if err := d.check(KindAccessor, idx); err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
		n := d.accessors[idx].Count
		if count >= 0 && n != count {
			return fmt.Errorf("%w: attribute %s has %d elements, expected %d", ErrInvalidSequence, name, n, count)
		}
		count = n
	}
	if pos, ok := p.Attributes[AttrPosition]; ok {
		a := d.accessors[pos]
		if a.Type != Vec3 || a.ComponentType != Float {
			return fmt.Errorf("%w: POSITION must be FLOAT VEC3, got %s %s", ErrInvalidSequence, a.ComponentType, a.Type)
		}
		if len(a.Min) != 3 || len(a.Max) != 3 {
			return fmt.Errorf("%w: POSITION accessor %d has no bounds", ErrInvalidSequence, pos)
		}
	}

	if p.Indices != nil {
		if err := d.check(KindAccessor, *p.Indices); err != nil {
			return fmt.Errorf("indices: %w", err)
		}
		a := d.accessors[*p.Indices]
		if a.Type != Scalar || a.ComponentType == Float {
			return fmt.Errorf("%w: indices must be unsigned integer SCALAR, got %s %s",
				ErrInvalidSequence, a.ComponentType, a.Type)
		}
	}
	if err := d.checkOpt(KindMaterial, p.Material); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	if p.Mode != nil && *p.Mode > TriangleFan {
		return fmt.Errorf("%w: primitive mode %d", ErrInvalidTarget, *p.Mode)
	}
	return nil
}

// MeshData is the vertex and index data of a single-primitive mesh.
// Every non-empty attribute slice must have one entry per position.
type MeshData struct {
	Name      string
	Positions [][3]float32
	Normals   [][3]float32
	TexCoords [][][2]float32 // TEXCOORD_0, TEXCOORD_1, ...
	Tangents  [][4]float32
	Colors    [][4]float32
	Indices   []uint32
	Material  *int
	Mode      *Mode
}

// AddMeshData registers the accessors for md and a mesh with one primitive
// that uses them. Nothing is registered if md is invalid.
func (d *Document) AddMeshData(md MeshData) (int, error) {
	if err := d.checkMeshData(md); err != nil {
		return 0, fmt.Errorf("mesh %q: %w", md.Name, err)
	}

	// All inputs are validated; the registrations below cannot fail.
	p := Primitive{Attributes: make(map[string]int), Material: md.Material, Mode: md.Mode}
	must := func(i int, err error) int {
		if err != nil {
			panic(fmt.Sprintf("gltf: registering validated mesh data: %v", err))
		}
		return i
	}
	p.Attributes[AttrPosition] = must(d.AddPositions(md.Positions))
	if len(md.Normals) > 0 {
		p.Attributes[AttrNormal] = must(d.AddNormals(md.Normals))
	}
	for set, uv := range md.TexCoords {
		p.Attributes[TexCoord(set)] = must(d.AddTexCoords(uv))
	}
	if len(md.Tangents) > 0 {
		p.Attributes[AttrTangent] = must(d.AddTangents(md.Tangents))
	}
	if len(md.Colors) > 0 {
		p.Attributes[AttrColor0] = must(d.AddColors(md.Colors))
	}
	if len(md.Indices) > 0 {
		p.Indices = Index(must(d.AddIndices(md.Indices)))
	}

	idx := must(d.AddMesh(Mesh{Name: md.Name, Primitives: []Primitive{p}}))
	d.log.Debug("registered mesh",
		zap.Int("index", idx),
		zap.String("name", md.Name),
		zap.Int("vertices", len(md.Positions)),
		zap.Int("indices", len(md.Indices)),
	)
	return idx, nil
}

func (d *Document) checkMeshData(md MeshData) error {
	n := len(md.Positions)
	if n == 0 {
		return fmt.Errorf("%w: no positions", ErrInvalidSequence)
	}
	sizes := map[string]int{AttrNormal: len(md.Normals), AttrTangent: len(md.Tangents), AttrColor0: len(md.Colors)}
	for set, uv := range md.TexCoords {
		if len(uv) == 0 {
			return fmt.Errorf("%w: empty %s", ErrInvalidSequence, TexCoord(set))
		}
		sizes[TexCoord(set)] = len(uv)
	}
	for name, size := range sizes {
		if size != 0 && size != n {
			return fmt.Errorf("%w: %s has %d elements, expected %d", ErrInvalidSequence, name, size, n)
		}
	}
	for i, v := range md.Indices {
		if int(v) >= n {
			return fmt.Errorf("%w: index %d at %d is out of range for %d vertices", ErrInvalidSequence, v, i, n)
		}
	}
	if len(md.Indices) > 0 {
		if _, err := d.indexComponentType(slices.Max(md.Indices)); err != nil {
			return err
		}
	}
	if err := d.checkOpt(KindMaterial, md.Material); err != nil {
		return fmt.Errorf("material: %w", err)
	}
	if md.Mode != nil && *md.Mode > TriangleFan {
		return fmt.Errorf("%w: primitive mode %d", ErrInvalidTarget, *md.Mode)
	}
	return nil
}
