// Package gltf builds glTF 2.0 assets in memory and exports them as GLB.
//
// A Document is an arena of index registries. Raw data is packed into the
// single binary buffer as soon as it is registered, and every reference is
// checked on insertion, so an exported document never dangles.
package gltf

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/glbforge/pkg/glb"
)

// DefaultGenerator is written to asset.generator unless overridden.
const DefaultGenerator = "glbforge"

// Kind names an entity registry.
type Kind int

const (
	KindBuffer Kind = iota
	KindBufferView
	KindAccessor
	KindMesh
	KindMaterial
	KindTexture
	KindImage
	KindSampler
	KindNode
	KindScene
	KindAnimation
)

var kindNames = [...]string{
	KindBuffer:     "buffers",
	KindBufferView: "bufferViews",
	KindAccessor:   "accessors",
	KindMesh:       "meshes",
	KindMaterial:   "materials",
	KindTexture:    "textures",
	KindImage:      "images",
	KindSampler:    "samplers",
	KindNode:       "nodes",
	KindScene:      "scenes",
	KindAnimation:  "animations",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Document accumulates a glTF asset. The zero value is not usable; call New.
// A Document is not safe for concurrent use.
type Document struct {
	asset     Asset
	log       *zap.Logger
	indexType IndexType

	buf *glb.Buffer

	bufferViews []BufferView
	accessors   []Accessor
	nonFinite   map[int]bool // accessors whose bounds cannot be rendered

	meshes     []Mesh
	materials  []Material
	textures   []Texture
	images     []Image
	samplers   []Sampler
	nodes      []Node
	parents    []int // parents[i] is the parent of node i, or -1
	scenes     []Scene
	sceneRoots map[int]bool
	animations []Animation

	scene          *int
	extensionsUsed []string
}

// Option configures a Document.
type Option func(*Document)

// WithGenerator sets asset.generator.
func WithGenerator(name string) Option {
	return func(d *Document) { d.asset.Generator = name }
}

// WithCopyright sets asset.copyright.
func WithCopyright(s string) Option {
	return func(d *Document) { d.asset.Copyright = s }
}

// WithLogger sets the logger used for registration and export diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// WithIndexType selects the component type used by AddIndices and AddMeshData.
func WithIndexType(t IndexType) Option {
	return func(d *Document) { d.indexType = t }
}

// New returns an empty document.
func New(opts ...Option) *Document {
	d := &Document{
		asset:      Asset{Version: "2.0", Generator: DefaultGenerator},
		log:        zap.NewNop(),
		buf:        glb.NewBuffer(),
		nonFinite:  make(map[int]bool),
		sceneRoots: make(map[int]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Count returns the number of registered entities of kind k.
// The buffer registry holds one entry once any binary data has been packed.
func (d *Document) Count(k Kind) int {
	switch k {
	case KindBuffer:
		if d.buf.Len() > 0 {
			return 1
		}
		return 0
	case KindBufferView:
		return len(d.bufferViews)
	case KindAccessor:
		return len(d.accessors)
	case KindMesh:
		return len(d.meshes)
	case KindMaterial:
		return len(d.materials)
	case KindTexture:
		return len(d.textures)
	case KindImage:
		return len(d.images)
	case KindSampler:
		return len(d.samplers)
	case KindNode:
		return len(d.nodes)
	case KindScene:
		return len(d.scenes)
	case KindAnimation:
		return len(d.animations)
	default:
		return 0
	}
}

// BinaryLen returns the current length of the binary blob.
func (d *Document) BinaryLen() int {
	return d.buf.Len()
}

// Asset returns the asset metadata.
func (d *Document) Asset() Asset {
	return d.asset
}

// ExtensionsUsed returns the extension names referenced by registered entities.
func (d *Document) ExtensionsUsed() []string {
	return slices.Clone(d.extensionsUsed)
}

// DefaultScene returns the default scene index, if any scene was registered.
func (d *Document) DefaultScene() (int, bool) {
	if d.scene == nil {
		return 0, false
	}
	return *d.scene, true
}

// BufferView returns a copy of buffer view i.
func (d *Document) BufferView(i int) (BufferView, error) {
	if err := d.check(KindBufferView, i); err != nil {
		return BufferView{}, err
	}
	return d.bufferViews[i], nil
}

// Accessor returns a copy of accessor i.
func (d *Document) Accessor(i int) (Accessor, error) {
	if err := d.check(KindAccessor, i); err != nil {
		return Accessor{}, err
	}
	a := d.accessors[i]
	a.Min = slices.Clone(a.Min)
	a.Max = slices.Clone(a.Max)
	return a, nil
}

// Mesh returns a copy of mesh i.
func (d *Document) Mesh(i int) (Mesh, error) {
	if err := d.check(KindMesh, i); err != nil {
		return Mesh{}, err
	}
	return d.meshes[i].clone(), nil
}

// Material returns a copy of material i.
func (d *Document) Material(i int) (Material, error) {
	if err := d.check(KindMaterial, i); err != nil {
		return Material{}, err
	}
	return d.materials[i].clone(), nil
}

// Image returns a copy of image i. Embedded data is only reachable through
// its buffer view.
func (d *Document) Image(i int) (Image, error) {
	if err := d.check(KindImage, i); err != nil {
		return Image{}, err
	}
	return d.images[i].clone(), nil
}

// Node returns a copy of node i.
func (d *Document) Node(i int) (Node, error) {
	if err := d.check(KindNode, i); err != nil {
		return Node{}, err
	}
	return d.nodes[i].clone(), nil
}

// Scene returns a copy of scene i.
func (d *Document) Scene(i int) (Scene, error) {
	if err := d.check(KindScene, i); err != nil {
		return Scene{}, err
	}
	s := d.scenes[i]
	s.Nodes = slices.Clone(s.Nodes)
	return s, nil
}

// Animation returns a copy of animation i.
func (d *Document) Animation(i int) (Animation, error) {
	if err := d.check(KindAnimation, i); err != nil {
		return Animation{}, err
	}
	a := d.animations[i]
	a.Channels = slices.Clone(a.Channels)
	a.Samplers = slices.Clone(a.Samplers)
	return a, nil
}

// check returns ErrDanglingReference unless i is a registered index of kind k.
func (d *Document) check(k Kind, i int) error {
	if i < 0 || i >= d.Count(k) {
		return fmt.Errorf("%w: %s[%d] (have %d)", ErrDanglingReference, k, i, d.Count(k))
	}
	return nil
}

func (d *Document) checkOpt(k Kind, i *int) error {
	if i == nil {
		return nil
	}
	return d.check(k, *i)
}

func (d *Document) useExtension(name string) {
	if !slices.Contains(d.extensionsUsed, name) {
		d.extensionsUsed = append(d.extensionsUsed, name)
	}
}
