package gltf

import "fmt"

// AddMaterial registers a material. Texture references must exist. A
// specular-glossiness block records its extension in extensionsUsed.
func (d *Document) AddMaterial(m Material) (int, error) {
	if err := d.checkMaterial(m); err != nil {
		return 0, fmt.Errorf("material %q: %w", m.Name, err)
	}
	if m.Extensions != nil && m.Extensions.SpecularGlossiness != nil {
		d.useExtension(ExtSpecularGlossiness)
	}
	d.materials = append(d.materials, m.clone())
	return len(d.materials) - 1, nil
}

func (d *Document) checkMaterial(m Material) error {
	var refs []*TextureInfo
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		refs = append(refs, pbr.BaseColorTexture, pbr.MetallicRoughnessTexture)
	}
	if ext := m.Extensions; ext != nil && ext.SpecularGlossiness != nil {
		refs = append(refs, ext.SpecularGlossiness.DiffuseTexture, ext.SpecularGlossiness.SpecularGlossinessTexture)
	}
	refs = append(refs, m.EmissiveTexture)
	if m.NormalTexture != nil {
		refs = append(refs, &TextureInfo{Index: m.NormalTexture.Index})
	}
	if m.OcclusionTexture != nil {
		refs = append(refs, &TextureInfo{Index: m.OcclusionTexture.Index})
	}
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if err := d.check(KindTexture, ref.Index); err != nil {
			return err
		}
		if ref.TexCoord < 0 {
			return fmt.Errorf("%w: texCoord %d", ErrInvalidTarget, ref.TexCoord)
		}
	}

	switch m.AlphaMode {
	case "", AlphaOpaque, AlphaMask, AlphaBlend:
	default:
		return fmt.Errorf("%w: alpha mode %q", ErrInvalidTarget, m.AlphaMode)
	}
	if err := checkFinite(m.floatFields()...); err != nil {
		return err
	}
	if m.AlphaCutoff != nil && *m.AlphaCutoff < 0 {
		return fmt.Errorf("%w: negative alpha cutoff", ErrInvalidSequence)
	}
	return nil
}

// MaterialBuilder assembles a Material. Methods return a modified copy, so a
// partially configured builder can be reused as a template.
type MaterialBuilder struct {
	m Material
}

// NewMaterial starts a material with the given name.
func NewMaterial(name string) MaterialBuilder {
	return MaterialBuilder{m: Material{Name: name}}
}

func (b MaterialBuilder) pbr() *PBRMetallicRoughness {
	p := PBRMetallicRoughness{}
	if b.m.PBRMetallicRoughness != nil {
		p = *b.m.PBRMetallicRoughness
	}
	return &p
}

func (b MaterialBuilder) specGloss() *PBRSpecularGlossiness {
	s := PBRSpecularGlossiness{}
	if b.m.Extensions != nil && b.m.Extensions.SpecularGlossiness != nil {
		s = *b.m.Extensions.SpecularGlossiness
	}
	return &s
}

// BaseColor sets the linear RGBA base color factor.
func (b MaterialBuilder) BaseColor(rgba [4]float32) MaterialBuilder {
	p := b.pbr()
	p.BaseColorFactor = &rgba
	b.m.PBRMetallicRoughness = p
	return b
}

// Metallic sets the metallic factor.
func (b MaterialBuilder) Metallic(f float32) MaterialBuilder {
	p := b.pbr()
	p.MetallicFactor = &f
	b.m.PBRMetallicRoughness = p
	return b
}

// Roughness sets the roughness factor.
func (b MaterialBuilder) Roughness(f float32) MaterialBuilder {
	p := b.pbr()
	p.RoughnessFactor = &f
	b.m.PBRMetallicRoughness = p
	return b
}

// BaseColorTexture samples the base color from texture tex.
func (b MaterialBuilder) BaseColorTexture(tex, texCoord int) MaterialBuilder {
	p := b.pbr()
	p.BaseColorTexture = &TextureInfo{Index: tex, TexCoord: texCoord}
	b.m.PBRMetallicRoughness = p
	return b
}

// MetallicRoughnessTexture samples metalness (B) and roughness (G) from tex.
func (b MaterialBuilder) MetallicRoughnessTexture(tex, texCoord int) MaterialBuilder {
	p := b.pbr()
	p.MetallicRoughnessTexture = &TextureInfo{Index: tex, TexCoord: texCoord}
	b.m.PBRMetallicRoughness = p
	return b
}

// NormalTexture sets a tangent-space normal map.
func (b MaterialBuilder) NormalTexture(tex, texCoord int, scale float32) MaterialBuilder {
	b.m.NormalTexture = &NormalTextureInfo{Index: tex, TexCoord: texCoord, Scale: &scale}
	return b
}

// OcclusionTexture sets an ambient occlusion map.
func (b MaterialBuilder) OcclusionTexture(tex, texCoord int, strength float32) MaterialBuilder {
	b.m.OcclusionTexture = &OcclusionTextureInfo{Index: tex, TexCoord: texCoord, Strength: &strength}
	return b
}

// EmissiveTexture sets the emissive map.
func (b MaterialBuilder) EmissiveTexture(tex, texCoord int) MaterialBuilder {
	b.m.EmissiveTexture = &TextureInfo{Index: tex, TexCoord: texCoord}
	return b
}

// Emissive sets the emissive color factor.
func (b MaterialBuilder) Emissive(rgb [3]float32) MaterialBuilder {
	b.m.EmissiveFactor = &rgb
	return b
}

// AlphaMode sets the alpha mode. The cutoff is only written for AlphaMask.
func (b MaterialBuilder) AlphaMode(mode AlphaMode, cutoff float32) MaterialBuilder {
	b.m.AlphaMode = mode
	b.m.AlphaCutoff = nil
	if mode == AlphaMask {
		b.m.AlphaCutoff = &cutoff
	}
	return b
}

// DoubleSided disables back-face culling.
func (b MaterialBuilder) DoubleSided(on bool) MaterialBuilder {
	b.m.DoubleSided = on
	return b
}

// SpecularGlossiness switches the material to the specular-glossiness
// workflow with the given factors.
func (b MaterialBuilder) SpecularGlossiness(diffuse [4]float32, specular [3]float32, glossiness float32) MaterialBuilder {
	s := b.specGloss()
	s.DiffuseFactor = &diffuse
	s.SpecularFactor = &specular
	s.GlossinessFactor = &glossiness
	b.m.Extensions = &MaterialExtensions{SpecularGlossiness: s}
	return b
}

// DiffuseTexture samples the specular-glossiness diffuse color from tex.
func (b MaterialBuilder) DiffuseTexture(tex, texCoord int) MaterialBuilder {
	s := b.specGloss()
	s.DiffuseTexture = &TextureInfo{Index: tex, TexCoord: texCoord}
	b.m.Extensions = &MaterialExtensions{SpecularGlossiness: s}
	return b
}

// Build returns the material.
func (b MaterialBuilder) Build() Material {
	return b.m
}

// BasicMaterial is a non-metallic material with the given base color.
func BasicMaterial(name string, rgba [4]float32) Material {
	return NewMaterial(name).BaseColor(rgba).Metallic(0).Roughness(1).Build()
}

// MetallicMaterial is a metallic-roughness material.
func MetallicMaterial(name string, rgba [4]float32, metallic, roughness float32) Material {
	return NewMaterial(name).BaseColor(rgba).Metallic(metallic).Roughness(roughness).Build()
}

// SpecularMaterial is a specular-glossiness material.
func SpecularMaterial(name string, diffuse [4]float32, specular [3]float32, glossiness float32) Material {
	return NewMaterial(name).SpecularGlossiness(diffuse, specular, glossiness).Build()
}
