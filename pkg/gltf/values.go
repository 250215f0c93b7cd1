package gltf

import (
	"fmt"

	"github.com/chewxy/math32"
)

// floatField is a named group of float properties that JSON must be able to
// represent.
type floatField struct {
	name   string
	values []float32
}

func scalarField(name string, p *float32) floatField {
	if p == nil {
		return floatField{name: name}
	}
	return floatField{name, []float32{*p}}
}

func vec3Field(name string, p *[3]float32) floatField {
	if p == nil {
		return floatField{name: name}
	}
	return floatField{name, p[:]}
}

func vec4Field(name string, p *[4]float32) floatField {
	if p == nil {
		return floatField{name: name}
	}
	return floatField{name, p[:]}
}

// checkFinite rejects NaN and infinities, which have no JSON encoding.
func checkFinite(fields ...floatField) error {
	for _, f := range fields {
		for i, v := range f.values {
			if math32.IsNaN(v) || math32.IsInf(v, 0) {
				return fmt.Errorf("%w: %s[%d] is %v", ErrInvalidSequence, f.name, i, v)
			}
		}
	}
	return nil
}

func (n Node) floatFields() []floatField {
	fields := []floatField{
		vec3Field("translation", n.Translation),
		vec4Field("rotation", n.Rotation),
		vec3Field("scale", n.Scale),
		{"weights", n.Weights},
	}
	if n.Matrix != nil {
		fields = append(fields, floatField{"matrix", n.Matrix[:]})
	}
	return fields
}

func (m Material) floatFields() []floatField {
	fields := []floatField{
		vec3Field("emissiveFactor", m.EmissiveFactor),
		scalarField("alphaCutoff", m.AlphaCutoff),
	}
	if p := m.PBRMetallicRoughness; p != nil {
		fields = append(fields,
			vec4Field("baseColorFactor", p.BaseColorFactor),
			scalarField("metallicFactor", p.MetallicFactor),
			scalarField("roughnessFactor", p.RoughnessFactor),
		)
	}
	if t := m.NormalTexture; t != nil {
		fields = append(fields, scalarField("normalTexture.scale", t.Scale))
	}
	if t := m.OcclusionTexture; t != nil {
		fields = append(fields, scalarField("occlusionTexture.strength", t.Strength))
	}
	if e := m.Extensions; e != nil && e.SpecularGlossiness != nil {
		sg := e.SpecularGlossiness
		fields = append(fields,
			vec4Field("diffuseFactor", sg.DiffuseFactor),
			vec3Field("specularFactor", sg.SpecularFactor),
			scalarField("glossinessFactor", sg.GlossinessFactor),
		)
	}
	return fields
}
