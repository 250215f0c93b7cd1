package gltf

// Entity types mirror the glTF 2.0 JSON schema. Optional indices are pointers
// so that index 0 and "absent" stay distinguishable; empty values are omitted
// when rendered.

// Index returns a pointer to i, for optional index fields.
func Index(i int) *int {
	return &i
}

// Asset carries the required asset metadata.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
	Copyright string `json:"copyright,omitempty"`
}

// Buffer is the single binary blob carried by the BIN chunk.
type Buffer struct {
	ByteLength int    `json:"byteLength"`
	URI        string `json:"uri,omitempty"`
}

// BufferView is a contiguous byte range inside the buffer.
type BufferView struct {
	Buffer     int    `json:"buffer"`
	ByteOffset int    `json:"byteOffset"`
	ByteLength int    `json:"byteLength"`
	ByteStride int    `json:"byteStride,omitempty"`
	Target     Target `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Accessor is a typed view of a buffer view.
type Accessor struct {
	BufferView    int           `json:"bufferView"`
	ByteOffset    int           `json:"byteOffset,omitempty"`
	ComponentType ComponentType `json:"componentType"`
	Normalized    bool          `json:"normalized,omitempty"`
	Count         int           `json:"count"`
	Type          AccessorType  `json:"type"`
	Max           []float64     `json:"max,omitempty"`
	Min           []float64     `json:"min,omitempty"`
	Name          string        `json:"name,omitempty"`
}

// Primitive is one drawable unit of a mesh.
// Attributes map semantic names (POSITION, NORMAL, TEXCOORD_0, ...) to accessors.
type Primitive struct {
	Attributes map[string]int `json:"attributes"`
	Indices    *int           `json:"indices,omitempty"`
	Material   *int           `json:"material,omitempty"`
	Mode       *Mode          `json:"mode,omitempty"` // nil means Triangles
}

// Mesh is a set of primitives.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
	Weights    []float32   `json:"weights,omitempty"`
}

// TextureInfo references a texture and the texcoord set used to sample it.
type TextureInfo struct {
	Index    int `json:"index"`
	TexCoord int `json:"texCoord,omitempty"`
}

// NormalTextureInfo is a TextureInfo with a normal scale.
type NormalTextureInfo struct {
	Index    int      `json:"index"`
	TexCoord int      `json:"texCoord,omitempty"`
	Scale    *float32 `json:"scale,omitempty"`
}

// OcclusionTextureInfo is a TextureInfo with an occlusion strength.
type OcclusionTextureInfo struct {
	Index    int      `json:"index"`
	TexCoord int      `json:"texCoord,omitempty"`
	Strength *float32 `json:"strength,omitempty"`
}

// PBRMetallicRoughness is the core metallic-roughness material model.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32  `json:"baseColorFactor,omitempty"`
	BaseColorTexture         *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32     `json:"metallicFactor,omitempty"`
	RoughnessFactor          *float32     `json:"roughnessFactor,omitempty"`
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// PBRSpecularGlossiness is the KHR_materials_pbrSpecularGlossiness block.
type PBRSpecularGlossiness struct {
	DiffuseFactor             *[4]float32  `json:"diffuseFactor,omitempty"`
	DiffuseTexture            *TextureInfo `json:"diffuseTexture,omitempty"`
	SpecularFactor            *[3]float32  `json:"specularFactor,omitempty"`
	GlossinessFactor          *float32     `json:"glossinessFactor,omitempty"`
	SpecularGlossinessTexture *TextureInfo `json:"specularGlossinessTexture,omitempty"`
}

// MaterialExtensions holds the material extensions this package writes.
type MaterialExtensions struct {
	SpecularGlossiness *PBRSpecularGlossiness `json:"KHR_materials_pbrSpecularGlossiness,omitempty"`
}

// Material describes the surface appearance of a primitive.
type Material struct {
	Name                 string                `json:"name,omitempty"`
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *NormalTextureInfo    `json:"normalTexture,omitempty"`
	OcclusionTexture     *OcclusionTextureInfo `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"`
	AlphaMode            AlphaMode             `json:"alphaMode,omitempty"`
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Extensions           *MaterialExtensions   `json:"extensions,omitempty"`
}

// Sampler holds texture filtering and wrapping modes. Zero values are omitted.
type Sampler struct {
	Name      string `json:"name,omitempty"`
	MagFilter Filter `json:"magFilter,omitempty"`
	MinFilter Filter `json:"minFilter,omitempty"`
	WrapS     Wrap   `json:"wrapS,omitempty"`
	WrapT     Wrap   `json:"wrapT,omitempty"`
}

// Image is either embedded (Data, packed into a buffer view on registration)
// or external (URI).
type Image struct {
	Name       string `json:"name,omitempty"`
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int   `json:"bufferView,omitempty"`

	Data []byte `json:"-"`
}

// Texture pairs an image with an optional sampler.
type Texture struct {
	Name    string `json:"name,omitempty"`
	Source  int    `json:"source"`
	Sampler *int   `json:"sampler,omitempty"`
}

// Node is an element of the scene hierarchy.
// A node carries either Matrix or any of Translation/Rotation/Scale.
type Node struct {
	Name        string       `json:"name,omitempty"`
	Mesh        *int         `json:"mesh,omitempty"`
	Children    []int        `json:"children,omitempty"`
	Translation *[3]float32  `json:"translation,omitempty"`
	Rotation    *[4]float32  `json:"rotation,omitempty"` // x, y, z, w
	Scale       *[3]float32  `json:"scale,omitempty"`
	Matrix      *[16]float32 `json:"matrix,omitempty"` // column-major
	Weights     []float32    `json:"weights,omitempty"`
}

// Scene lists root nodes.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// AnimationSampler combines keyframe times (Input) with values (Output).
type AnimationSampler struct {
	Input         int           `json:"input"`
	Interpolation Interpolation `json:"interpolation,omitempty"` // empty means LINEAR
	Output        int           `json:"output"`
}

// ChannelTarget is the node property driven by a channel.
type ChannelTarget struct {
	Node int  `json:"node"`
	Path Path `json:"path"`
}

// Channel binds an animation sampler to a target.
type Channel struct {
	Sampler int           `json:"sampler"`
	Target  ChannelTarget `json:"target"`
}

// Animation is a set of channels and the samplers they use.
type Animation struct {
	Name     string             `json:"name,omitempty"`
	Channels []Channel          `json:"channels"`
	Samplers []AnimationSampler `json:"samplers"`
}

// Root is the top-level JSON object of a glTF asset.
type Root struct {
	Asset          Asset        `json:"asset"`
	ExtensionsUsed []string     `json:"extensionsUsed,omitempty"`
	Scene          *int         `json:"scene,omitempty"`
	Scenes         []Scene      `json:"scenes,omitempty"`
	Nodes          []Node       `json:"nodes,omitempty"`
	Meshes         []Mesh       `json:"meshes,omitempty"`
	Materials      []Material   `json:"materials,omitempty"`
	Textures       []Texture    `json:"textures,omitempty"`
	Images         []Image      `json:"images,omitempty"`
	Samplers       []Sampler    `json:"samplers,omitempty"`
	Animations     []Animation  `json:"animations,omitempty"`
	Accessors      []Accessor   `json:"accessors,omitempty"`
	BufferViews    []BufferView `json:"bufferViews,omitempty"`
	Buffers        []Buffer     `json:"buffers,omitempty"`
}
