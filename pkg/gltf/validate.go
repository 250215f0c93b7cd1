package gltf

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Faultbox/glbforge/pkg/glb"
)

// Decode parses a GLB container into its JSON root and binary payload.
func Decode(data []byte) (*Root, []byte, error) {
	c, err := glb.Read(data)
	if err != nil {
		return nil, nil, err
	}
	var root Root
	dec := json.NewDecoder(bytes.NewReader(glb.TrimJSON(c.JSON)))
	if err := dec.Decode(&root); err != nil {
		return nil, nil, fmt.Errorf("%w: decoding JSON chunk: %v", ErrInvalidDocument, err)
	}
	return &root, c.BIN, nil
}

// Validate decodes a GLB container and checks the structural rules this
// package guarantees on export: buffer and view ranges, 4-byte alignment,
// accessor ranges and bounds, and index references. All problems found are
// returned joined.
func Validate(data []byte) (*Root, error) {
	root, bin, err := Decode(data)
	if err != nil {
		return nil, err
	}
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidDocument}, args...)...))
	}

	if root.Asset.Version != "2.0" {
		fail("asset.version %q", root.Asset.Version)
	}

	switch {
	case len(root.Buffers) > 1:
		fail("%d buffers, expected at most 1", len(root.Buffers))
	case len(root.Buffers) == 1:
		if n := root.Buffers[0].ByteLength; n > len(bin) || glb.Align(n) != len(bin) {
			fail("buffer byteLength %d does not match BIN chunk of %d bytes", n, len(bin))
		}
	case len(bin) > 0:
		fail("BIN chunk present without a buffer")
	}

	for i, v := range root.BufferViews {
		if v.Buffer < 0 || v.Buffer >= len(root.Buffers) {
			fail("bufferViews[%d] references buffer %d", i, v.Buffer)
			continue
		}
		if v.ByteOffset%glb.Alignment != 0 {
			fail("bufferViews[%d] offset %d is not 4-byte aligned", i, v.ByteOffset)
		}
		if v.ByteLength <= 0 || v.ByteOffset < 0 || v.ByteOffset+v.ByteLength > root.Buffers[v.Buffer].ByteLength {
			fail("bufferViews[%d] range [%d, %d) outside buffer", i, v.ByteOffset, v.ByteOffset+v.ByteLength)
		}
	}

	for i, a := range root.Accessors {
		if err := validateAccessor(root, bin, a); err != nil {
			fail("accessors[%d]: %v", i, err)
		}
	}

	ref := func(what string, i, n int) {
		if i < 0 || i >= n {
			fail("%s references %d of %d", what, i, n)
		}
	}
	for i, m := range root.Meshes {
		for j, p := range m.Primitives {
			for name, a := range p.Attributes {
				ref(fmt.Sprintf("meshes[%d].primitives[%d].%s", i, j, name), a, len(root.Accessors))
			}
			if p.Indices != nil {
				ref(fmt.Sprintf("meshes[%d].primitives[%d].indices", i, j), *p.Indices, len(root.Accessors))
			}
			if p.Material != nil {
				ref(fmt.Sprintf("meshes[%d].primitives[%d].material", i, j), *p.Material, len(root.Materials))
			}
		}
	}
	for i, t := range root.Textures {
		ref(fmt.Sprintf("textures[%d].source", i), t.Source, len(root.Images))
		if t.Sampler != nil {
			ref(fmt.Sprintf("textures[%d].sampler", i), *t.Sampler, len(root.Samplers))
		}
	}
	for i, img := range root.Images {
		if img.BufferView != nil {
			ref(fmt.Sprintf("images[%d].bufferView", i), *img.BufferView, len(root.BufferViews))
		}
	}

	parents := make([]int, len(root.Nodes))
	for i := range parents {
		parents[i] = -1
	}
	for i, n := range root.Nodes {
		if n.Mesh != nil {
			ref(fmt.Sprintf("nodes[%d].mesh", i), *n.Mesh, len(root.Meshes))
		}
		for _, c := range n.Children {
			if c < 0 || c >= len(root.Nodes) {
				fail("nodes[%d] has child %d of %d", i, c, len(root.Nodes))
				continue
			}
			if parents[c] >= 0 {
				fail("node %d has parents %d and %d", c, parents[c], i)
			}
			parents[c] = i
		}
	}
	for i := range root.Nodes {
		for cur, steps := parents[i], 0; cur >= 0; cur, steps = parents[cur], steps+1 {
			if cur == i || steps > len(root.Nodes) {
				fail("node %d is part of a cycle", i)
				break
			}
		}
	}

	for i, s := range root.Scenes {
		for _, n := range s.Nodes {
			ref(fmt.Sprintf("scenes[%d].nodes", i), n, len(root.Nodes))
		}
	}
	if root.Scene != nil {
		ref("scene", *root.Scene, len(root.Scenes))
	}
	for i, a := range root.Animations {
		for j, s := range a.Samplers {
			ref(fmt.Sprintf("animations[%d].samplers[%d].input", i, j), s.Input, len(root.Accessors))
			ref(fmt.Sprintf("animations[%d].samplers[%d].output", i, j), s.Output, len(root.Accessors))
		}
		for j, c := range a.Channels {
			ref(fmt.Sprintf("animations[%d].channels[%d].sampler", i, j), c.Sampler, len(a.Samplers))
			ref(fmt.Sprintf("animations[%d].channels[%d].node", i, j), c.Target.Node, len(root.Nodes))
		}
	}

	return root, errors.Join(errs...)
}

func validateAccessor(root *Root, bin []byte, a Accessor) error {
	if a.BufferView < 0 || a.BufferView >= len(root.BufferViews) {
		return fmt.Errorf("bufferView %d of %d", a.BufferView, len(root.BufferViews))
	}
	n := a.Type.Components()
	size := a.ComponentType.Size()
	if n == 0 || size == 0 {
		return fmt.Errorf("unknown layout %s %s", a.ComponentType, a.Type)
	}
	if a.Count <= 0 {
		return fmt.Errorf("count %d", a.Count)
	}
	view := root.BufferViews[a.BufferView]
	if a.ByteOffset < 0 || a.ByteOffset%size != 0 {
		return fmt.Errorf("byteOffset %d not aligned to %d", a.ByteOffset, size)
	}
	elem := n * size
	stride := elem
	if view.ByteStride > 0 {
		stride = view.ByteStride
	}
	if need := a.ByteOffset + stride*(a.Count-1) + elem; need > view.ByteLength {
		return fmt.Errorf("needs %d bytes, view has %d", need, view.ByteLength)
	}
	if len(a.Min) != len(a.Max) || (len(a.Min) != 0 && len(a.Min) != n) {
		return fmt.Errorf("min/max arity %d/%d, expected %d", len(a.Min), len(a.Max), n)
	}
	if len(a.Min) == 0 || view.ByteStride > 0 {
		return nil
	}

	start := view.ByteOffset + a.ByteOffset
	if start < 0 || start+elem*a.Count > len(bin) {
		return fmt.Errorf("data beyond BIN chunk")
	}
	values, err := DecodeValues(bin[start:], a.ComponentType, a.Type, a.Count)
	if err != nil {
		return err
	}
	lo, hi := boundsOf(values, n)
	for c := 0; c < n; c++ {
		if lo[c] != a.Min[c] || hi[c] != a.Max[c] {
			return fmt.Errorf("component %d bounds [%g, %g], data has [%g, %g]", c, a.Min[c], a.Max[c], lo[c], hi[c])
		}
	}
	return nil
}

// ReadAccessor returns the components of accessor i as float64 values.
// Interleaved views are not supported.
func ReadAccessor(root *Root, bin []byte, i int) ([]float64, error) {
	if i < 0 || i >= len(root.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d of %d", ErrDanglingReference, i, len(root.Accessors))
	}
	a := root.Accessors[i]
	if a.BufferView < 0 || a.BufferView >= len(root.BufferViews) {
		return nil, fmt.Errorf("%w: bufferView %d", ErrDanglingReference, a.BufferView)
	}
	view := root.BufferViews[a.BufferView]
	if view.ByteStride > 0 && view.ByteStride != a.Type.Components()*a.ComponentType.Size() {
		return nil, fmt.Errorf("%w: interleaved buffer view %d", ErrInvalidDocument, a.BufferView)
	}
	start := view.ByteOffset + a.ByteOffset
	end := view.ByteOffset + view.ByteLength
	if start < 0 || end > len(bin) || start > end {
		return nil, fmt.Errorf("%w: bufferView %d outside BIN chunk", ErrInvalidDocument, a.BufferView)
	}
	return DecodeValues(bin[start:end], a.ComponentType, a.Type, a.Count)
}
