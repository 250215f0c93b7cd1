package gltf

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a translation/rotation/scale triple.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Quat
	Scale       mgl32.Vec3
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// Mat4 returns T * R * S.
func (t Transform) Mat4() mgl32.Mat4 {
	tr := mgl32.Translate3D(t.Translation.Elem())
	rot := t.Rotation.Normalize().Mat4()
	sc := mgl32.Scale3D(t.Scale.Elem())
	return tr.Mul4(rot).Mul4(sc)
}

// Apply writes the transform into n as TRS properties, leaving out components
// equal to their defaults, and clears any matrix.
func (t Transform) Apply(n Node) Node {
	n.Matrix, n.Translation, n.Rotation, n.Scale = nil, nil, nil, nil
	if t.Translation != (mgl32.Vec3{}) {
		v := [3]float32(t.Translation)
		n.Translation = &v
	}
	if q := t.Rotation; q != mgl32.QuatIdent() {
		r := [4]float32{q.V[0], q.V[1], q.V[2], q.W}
		n.Rotation = &r
	}
	if t.Scale != (mgl32.Vec3{1, 1, 1}) {
		s := [3]float32(t.Scale)
		n.Scale = &s
	}
	return n
}

// LocalMatrix returns the node's transform relative to its parent.
func (n Node) LocalMatrix() mgl32.Mat4 {
	if n.Matrix != nil {
		return mgl32.Mat4(*n.Matrix)
	}
	t := Identity()
	if n.Translation != nil {
		t.Translation = mgl32.Vec3(*n.Translation)
	}
	if r := n.Rotation; r != nil {
		t.Rotation = mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
	}
	if n.Scale != nil {
		t.Scale = mgl32.Vec3(*n.Scale)
	}
	return t.Mat4()
}

// AddNode registers a node. Its mesh and children must exist, children must
// be distinct and must not have a parent yet.
func (d *Document) AddNode(n Node) (int, error) {
	if n.Matrix != nil && (n.Translation != nil || n.Rotation != nil || n.Scale != nil) {
		return 0, fmt.Errorf("node %q: %w", n.Name, ErrConflictingTransform)
	}
	if err := checkFinite(n.floatFields()...); err != nil {
		return 0, fmt.Errorf("node %q: %w", n.Name, err)
	}
	if err := d.checkOpt(KindMesh, n.Mesh); err != nil {
		return 0, fmt.Errorf("node %q mesh: %w", n.Name, err)
	}
	for i, c := range n.Children {
		if err := d.checkLink(c); err != nil {
			return 0, fmt.Errorf("node %q: %w", n.Name, err)
		}
		if slices.Contains(n.Children[:i], c) {
			return 0, fmt.Errorf("node %q: %w: child %d listed twice", n.Name, ErrInvalidSequence, c)
		}
	}

	d.nodes = append(d.nodes, n.clone())
	d.parents = append(d.parents, -1)
	idx := len(d.nodes) - 1
	for _, c := range n.Children {
		d.parents[c] = idx
	}
	return idx, nil
}

// checkLink reports whether node c may become the child of some node.
func (d *Document) checkLink(c int) error {
	if err := d.check(KindNode, c); err != nil {
		return err
	}
	if p := d.parents[c]; p >= 0 {
		return fmt.Errorf("%w: node %d is a child of %d", ErrNodeHasParent, c, p)
	}
	if d.sceneRoots[c] {
		return fmt.Errorf("%w: node %d cannot become a child", ErrSceneRoot, c)
	}
	return nil
}

// AddChild makes child a child of parent. Linking an existing pair again is a
// no-op. Links that would form a cycle are rejected with ErrCyclicHierarchy.
func (d *Document) AddChild(parent, child int) error {
	if err := d.check(KindNode, parent); err != nil {
		return err
	}
	if err := d.check(KindNode, child); err != nil {
		return err
	}
	if d.parents[child] == parent {
		return nil
	}
	for cur := parent; cur >= 0; cur = d.parents[cur] {
		if cur == child {
			return fmt.Errorf("%w: node %d is an ancestor of %d", ErrCyclicHierarchy, child, parent)
		}
	}
	if err := d.checkLink(child); err != nil {
		return err
	}

	d.nodes[parent].Children = append(d.nodes[parent].Children, child)
	d.parents[child] = parent
	return nil
}

// Parent returns the parent of node i.
func (d *Document) Parent(i int) (int, bool) {
	if i < 0 || i >= len(d.parents) || d.parents[i] < 0 {
		return 0, false
	}
	return d.parents[i], true
}

// WorldMatrix returns the node's transform in scene space, or the identity
// for an unknown node.
func (d *Document) WorldMatrix(i int) mgl32.Mat4 {
	m := mgl32.Ident4()
	if i < 0 || i >= len(d.nodes) {
		return m
	}
	for cur := i; cur >= 0; cur = d.parents[cur] {
		m = d.nodes[cur].LocalMatrix().Mul4(m)
	}
	return m
}

// AddScene registers a scene. Root nodes must exist and have no parent.
// The first scene registered becomes the default scene.
func (d *Document) AddScene(s Scene) (int, error) {
	for i, n := range s.Nodes {
		if err := d.check(KindNode, n); err != nil {
			return 0, fmt.Errorf("scene %q: %w", s.Name, err)
		}
		if p := d.parents[n]; p >= 0 {
			return 0, fmt.Errorf("scene %q: %w: node %d is a child of %d", s.Name, ErrNodeHasParent, n, p)
		}
		if slices.Contains(s.Nodes[:i], n) {
			return 0, fmt.Errorf("scene %q: %w: node %d listed twice", s.Name, ErrInvalidSequence, n)
		}
	}

	s.Nodes = slices.Clone(s.Nodes)
	d.scenes = append(d.scenes, s)
	for _, n := range s.Nodes {
		d.sceneRoots[n] = true
	}
	idx := len(d.scenes) - 1
	if d.scene == nil {
		d.scene = Index(idx)
	}
	return idx, nil
}

// SetDefaultScene selects the scene written as the document's "scene".
func (d *Document) SetDefaultScene(i int) error {
	if err := d.check(KindScene, i); err != nil {
		return err
	}
	d.scene = Index(i)
	return nil
}

// SceneBounds returns the scene-space bounding box of every mesh reachable
// from the scene's roots, computed from POSITION accessor bounds.
// ok is false when the scene has no bounded geometry.
func (d *Document) SceneBounds(scene int) (lo, hi mgl32.Vec3, ok bool) {
	if d.check(KindScene, scene) != nil {
		return lo, hi, false
	}

	var visit func(n int)
	visit = func(n int) {
		node := d.nodes[n]
		if node.Mesh != nil {
			world := d.WorldMatrix(n)
			for _, p := range d.meshes[*node.Mesh].Primitives {
				pos, has := p.Attributes[AttrPosition]
				if !has || d.nonFinite[pos] {
					continue
				}
				a := d.accessors[pos]
				if len(a.Min) != 3 || len(a.Max) != 3 {
					continue
				}
				for _, c := range corners(a.Min, a.Max) {
					v := world.Mul4x1(c.Vec4(1)).Vec3()
					if !ok {
						lo, hi, ok = v, v, true
						continue
					}
					for k := 0; k < 3; k++ {
						lo[k] = min(lo[k], v[k])
						hi[k] = max(hi[k], v[k])
					}
				}
			}
		}
		for _, c := range node.Children {
			visit(c)
		}
	}
	for _, root := range d.scenes[scene].Nodes {
		visit(root)
	}
	return lo, hi, ok
}

func corners(lo, hi []float64) [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		for k := 0; k < 3; k++ {
			if i&(1<<k) == 0 {
				out[i][k] = float32(lo[k])
			} else {
				out[i][k] = float32(hi[k])
			}
		}
	}
	return out
}
