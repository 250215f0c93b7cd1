package main

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/glbforge/pkg/gltf"
)

// triangleMesh is a single upward-facing triangle in the XY plane.
func triangleMesh() gltf.MeshData {
	return gltf.MeshData{
		Name:      "triangle",
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		TexCoords: [][][2]float32{{{0, 1}, {1, 1}, {0, 0}}},
		Indices:   []uint32{0, 1, 2},
	}
}

// cubeFace describes one face by its outward normal and the two in-plane axes.
type cubeFace struct {
	normal, u, v mgl32.Vec3
}

var cubeFaces = []cubeFace{
	{mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	{mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	{mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	{mgl32.Vec3{0, 0, -1}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
}

// cubeMesh returns an axis-aligned cube centred on the origin with per-face
// normals and a full 0..1 texture square on every face.
func cubeMesh(name string, size float32) gltf.MeshData {
	h := size / 2
	md := gltf.MeshData{Name: name}
	uv := make([][2]float32, 0, 24)
	corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	for _, f := range cubeFaces {
		base := uint32(len(md.Positions))
		for _, c := range corners {
			p := f.normal.Add(f.u.Mul(c[0])).Add(f.v.Mul(c[1])).Mul(h)
			md.Positions = append(md.Positions, p)
			md.Normals = append(md.Normals, f.normal)
			uv = append(uv, [2]float32{(c[0] + 1) / 2, (1 - c[1]) / 2})
		}
		md.Indices = append(md.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	md.TexCoords = [][][2]float32{uv}
	return md
}
