package gltf

import (
	"maps"
	"slices"
)

// Registered entities never share memory with callers. The clone methods
// copy every pointer and slice field; they are applied on insert and on get.

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (p Primitive) clone() Primitive {
	p.Attributes = maps.Clone(p.Attributes)
	p.Indices = clonePtr(p.Indices)
	p.Material = clonePtr(p.Material)
	p.Mode = clonePtr(p.Mode)
	return p
}

func (m Mesh) clone() Mesh {
	prims := make([]Primitive, len(m.Primitives))
	for i, p := range m.Primitives {
		prims[i] = p.clone()
	}
	m.Primitives = prims
	m.Weights = slices.Clone(m.Weights)
	return m
}

func (m Material) clone() Material {
	if p := m.PBRMetallicRoughness; p != nil {
		c := *p
		c.BaseColorFactor = clonePtr(c.BaseColorFactor)
		c.BaseColorTexture = clonePtr(c.BaseColorTexture)
		c.MetallicFactor = clonePtr(c.MetallicFactor)
		c.RoughnessFactor = clonePtr(c.RoughnessFactor)
		c.MetallicRoughnessTexture = clonePtr(c.MetallicRoughnessTexture)
		m.PBRMetallicRoughness = &c
	}
	if t := m.NormalTexture; t != nil {
		c := *t
		c.Scale = clonePtr(c.Scale)
		m.NormalTexture = &c
	}
	if t := m.OcclusionTexture; t != nil {
		c := *t
		c.Strength = clonePtr(c.Strength)
		m.OcclusionTexture = &c
	}
	m.EmissiveTexture = clonePtr(m.EmissiveTexture)
	m.EmissiveFactor = clonePtr(m.EmissiveFactor)
	m.AlphaCutoff = clonePtr(m.AlphaCutoff)
	if e := m.Extensions; e != nil {
		c := *e
		if sg := c.SpecularGlossiness; sg != nil {
			s := *sg
			s.DiffuseFactor = clonePtr(s.DiffuseFactor)
			s.DiffuseTexture = clonePtr(s.DiffuseTexture)
			s.SpecularFactor = clonePtr(s.SpecularFactor)
			s.GlossinessFactor = clonePtr(s.GlossinessFactor)
			s.SpecularGlossinessTexture = clonePtr(s.SpecularGlossinessTexture)
			c.SpecularGlossiness = &s
		}
		m.Extensions = &c
	}
	return m
}

func (img Image) clone() Image {
	img.BufferView = clonePtr(img.BufferView)
	img.Data = nil
	return img
}

func (t Texture) clone() Texture {
	t.Sampler = clonePtr(t.Sampler)
	return t
}

func (n Node) clone() Node {
	n.Mesh = clonePtr(n.Mesh)
	n.Children = slices.Clone(n.Children)
	n.Translation = clonePtr(n.Translation)
	n.Rotation = clonePtr(n.Rotation)
	n.Scale = clonePtr(n.Scale)
	n.Matrix = clonePtr(n.Matrix)
	n.Weights = slices.Clone(n.Weights)
	return n
}
