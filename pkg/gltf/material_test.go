package gltf

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glbforge/pkg/texture"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img, err := texture.Checkerboard(4, 4, 2, color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 255})
	require.NoError(t, err)
	data, err := texture.Encode(img, texture.PNG, 0)
	require.NoError(t, err)
	return data
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img, err := texture.UVTest(4, 4)
	require.NoError(t, err)
	data, err := texture.Encode(img, texture.JPEG, 80)
	require.NoError(t, err)
	return data
}

func TestMaterialBuilder(t *testing.T) {
	base := NewMaterial("base").BaseColor([4]float32{1, 0, 0, 1})
	shiny := base.Metallic(1).Roughness(0.2).Build()
	plain := base.Build()

	require.NotNil(t, shiny.PBRMetallicRoughness)
	assert.Equal(t, float32(1), *shiny.PBRMetallicRoughness.MetallicFactor)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, *shiny.PBRMetallicRoughness.BaseColorFactor)
	// Builders are values: deriving shiny left base untouched.
	assert.Nil(t, plain.PBRMetallicRoughness.MetallicFactor)

	m := NewMaterial("masked").AlphaMode(AlphaMask, 0.5).DoubleSided(true).Emissive([3]float32{1, 1, 0}).Build()
	assert.Equal(t, AlphaMask, m.AlphaMode)
	require.NotNil(t, m.AlphaCutoff)
	assert.Equal(t, float32(0.5), *m.AlphaCutoff)
	assert.True(t, m.DoubleSided)

	blend := NewMaterial("blend").AlphaMode(AlphaBlend, 0.5).Build()
	assert.Nil(t, blend.AlphaCutoff)
}

func TestAddMaterial(t *testing.T) {
	d := New()

	i, err := d.AddMaterial(MetallicMaterial("steel", [4]float32{0.5, 0.5, 0.5, 1}, 1, 0.3))
	require.NoError(t, err)
	assert.Equal(t, 0, i)
	assert.Empty(t, d.ExtensionsUsed())

	before := counts(d)
	_, err = d.AddMaterial(NewMaterial("tex").BaseColorTexture(0, 0).Build())
	assert.ErrorIs(t, err, ErrDanglingReference)
	_, err = d.AddMaterial(NewMaterial("normal").NormalTexture(3, 0, 1).Build())
	assert.ErrorIs(t, err, ErrDanglingReference)
	_, err = d.AddMaterial(Material{AlphaMode: "SHINY"})
	assert.ErrorIs(t, err, ErrInvalidTarget)
	assert.Equal(t, before, counts(d))
}

func TestAddMaterialRejectsNonFinite(t *testing.T) {
	nan := float32(math.NaN())
	inf := float32(math.Inf(1))
	white := [4]float32{1, 1, 1, 1}

	tests := []struct {
		name     string
		material Material
	}{
		{"metallicFactor", MetallicMaterial("m", white, nan, 0.5)},
		{"roughnessFactor", MetallicMaterial("m", white, 0, inf)},
		{"baseColorFactor", BasicMaterial("m", [4]float32{1, nan, 1, 1})},
		{"emissiveFactor", NewMaterial("m").Emissive([3]float32{inf, 0, 0}).Build()},
		{"alphaCutoff", NewMaterial("m").AlphaMode(AlphaMask, nan).Build()},
		{"glossinessFactor", SpecularMaterial("m", white, [3]float32{1, 1, 1}, nan)},
		{"specularFactor", SpecularMaterial("m", white, [3]float32{0, -inf, 0}, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			_, err := d.AddMaterial(tt.material)
			assert.ErrorIs(t, err, ErrInvalidSequence)
			assert.Contains(t, err.Error(), tt.name)
			assert.Zero(t, d.Count(KindMaterial))
			assert.Empty(t, d.ExtensionsUsed())
		})
	}
}

func TestSpecularMaterialRegistersExtension(t *testing.T) {
	d := New()
	for i := 0; i < 2; i++ {
		_, err := d.AddMaterial(SpecularMaterial("spec", [4]float32{1, 1, 1, 1}, [3]float32{0.5, 0.5, 0.5}, 0.8))
		require.NoError(t, err)
	}
	assert.Equal(t, []string{ExtSpecularGlossiness}, d.ExtensionsUsed())

	data, err := d.Bytes()
	require.NoError(t, err)
	root, _, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{ExtSpecularGlossiness}, root.ExtensionsUsed)
	require.NotNil(t, root.Materials[0].Extensions)
	sg := root.Materials[0].Extensions.SpecularGlossiness
	require.NotNil(t, sg)
	assert.Equal(t, float32(0.8), *sg.GlossinessFactor)
}

func TestAddImage(t *testing.T) {
	d := New()
	png := pngBytes(t)

	i, err := d.AddImage(Image{Name: "checker", Data: png})
	require.NoError(t, err)
	img, err := d.Image(i)
	require.NoError(t, err)
	assert.Equal(t, MimePNG, img.MimeType)
	require.NotNil(t, img.BufferView)
	assert.Nil(t, img.Data)

	v, err := d.BufferView(*img.BufferView)
	require.NoError(t, err)
	assert.Equal(t, len(png), v.ByteLength)
	assert.Equal(t, TargetNone, v.Target)

	j, err := d.AddImage(Image{Data: jpegBytes(t)})
	require.NoError(t, err)
	img, err = d.Image(j)
	require.NoError(t, err)
	assert.Equal(t, MimeJPEG, img.MimeType)

	k, err := d.AddImage(Image{URI: "textures/wood.png"})
	require.NoError(t, err)
	img, err = d.Image(k)
	require.NoError(t, err)
	assert.Nil(t, img.BufferView)
	assert.Equal(t, "textures/wood.png", img.URI)
}

func TestAddImageErrors(t *testing.T) {
	d := New()
	png := pngBytes(t)
	before := counts(d)

	tests := []struct {
		name string
		img  Image
	}{
		{"neither", Image{}},
		{"both", Image{Data: png, URI: "x.png"}},
		{"unknown data", Image{Data: []byte("definitely not an image")}},
		{"unsupported mime", Image{Data: []byte("GIF89a....."), MimeType: "image/gif"}},
		{"mime mismatch", Image{Data: png, MimeType: MimeJPEG}},
		{"preset view", Image{Data: png, BufferView: Index(0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.AddImage(tt.img)
			assert.ErrorIs(t, err, ErrInvalidImage)
			assert.Equal(t, before, counts(d))
		})
	}
}

func TestAddTexture(t *testing.T) {
	d := New()

	_, err := d.AddTexture(Texture{Source: 0})
	assert.ErrorIs(t, err, ErrDanglingReference)

	img, err := d.AddImage(Image{Data: pngBytes(t)})
	require.NoError(t, err)
	_, err = d.AddTexture(Texture{Source: img, Sampler: Index(0)})
	assert.ErrorIs(t, err, ErrDanglingReference)

	s, err := d.AddSampler(DefaultSampler())
	require.NoError(t, err)
	tex, err := d.AddTexture(Texture{Source: img, Sampler: Index(s)})
	require.NoError(t, err)

	mat, err := d.AddMaterial(NewMaterial("textured").BaseColorTexture(tex, 0).Build())
	require.NoError(t, err)
	m, err := d.Material(mat)
	require.NoError(t, err)
	assert.Equal(t, tex, m.PBRMetallicRoughness.BaseColorTexture.Index)
}

func TestAddTextureFromImage(t *testing.T) {
	d := New()
	tex, err := d.AddTextureFromImage("checker", pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, 0, tex)
	assert.Equal(t, 1, d.Count(KindImage))
	assert.Equal(t, 1, d.Count(KindSampler))
	assert.Equal(t, 1, d.Count(KindTexture))

	before := counts(d)
	_, err = d.AddTextureFromImage("bad", []byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrInvalidImage)
	assert.Equal(t, before, counts(d))
}

func TestAddSampler(t *testing.T) {
	d := New()
	_, err := d.AddSampler(Sampler{MagFilter: LinearMipmapLinear})
	assert.ErrorIs(t, err, ErrInvalidTarget)
	_, err = d.AddSampler(Sampler{WrapS: Wrap(1)})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	i, err := d.AddSampler(Sampler{MagFilter: Nearest, MinFilter: Nearest, WrapS: ClampToEdge, WrapT: MirroredRepeat})
	require.NoError(t, err)
	assert.Equal(t, 0, i)
}
