package main

import (
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/glbforge/internal/config"
	"github.com/Faultbox/glbforge/internal/logger"
	"github.com/Faultbox/glbforge/pkg/gltf"
	"github.com/Faultbox/glbforge/pkg/texture"
)

type demo struct {
	name  string
	build func(cfg *config.Config, log *zap.Logger) (*gltf.Document, error)
}

var demos = []demo{
	{"triangle", buildTriangle},
	{"cube", buildCube},
	{"hierarchy", buildHierarchy},
	{"animated", buildAnimated},
}

func cmdDemo(args []string) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	cfg := setup(fs, args)
	defer logger.Sync()

	if err := writeDemos(os.Stdout, cfg); err != nil {
		fatal(err)
	}
}

// writeDemos writes every demo into the configured output directory.
func writeDemos(w io.Writer, cfg *config.Config) error {
	for _, d := range demos {
		path, err := writeDemo(d, cfg, logger.Log)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		logger.Info("wrote demo", zap.String("name", d.name), zap.String("path", path))
		fmt.Fprintf(w, "Wrote: %s\n", path)
	}
	return nil
}

func writeDemo(d demo, cfg *config.Config, log *zap.Logger) (string, error) {
	doc, err := d.build(cfg, log.Named(d.name))
	if err != nil {
		return "", err
	}
	path := filepath.Join(cfg.Export.OutputDir, d.name+".glb")
	if err := doc.WriteFile(path); err != nil {
		return "", err
	}
	return path, nil
}

func newDocument(cfg *config.Config, log *zap.Logger) *gltf.Document {
	return gltf.New(append(cfg.DocumentOptions(), gltf.WithLogger(log))...)
}

// single registers md under one node in a new default scene.
func single(doc *gltf.Document, md gltf.MeshData) (int, error) {
	mesh, err := doc.AddMeshData(md)
	if err != nil {
		return 0, err
	}
	node, err := doc.AddNode(gltf.Node{Name: md.Name, Mesh: gltf.Index(mesh)})
	if err != nil {
		return 0, err
	}
	if _, err := doc.AddScene(gltf.Scene{Name: "scene", Nodes: []int{node}}); err != nil {
		return 0, err
	}
	return node, nil
}

func buildTriangle(cfg *config.Config, log *zap.Logger) (*gltf.Document, error) {
	doc := newDocument(cfg, log)
	mat, err := doc.AddMaterial(gltf.BasicMaterial("red", [4]float32{1, 0, 0, 1}))
	if err != nil {
		return nil, err
	}
	md := triangleMesh()
	md.Material = gltf.Index(mat)
	if _, err := single(doc, md); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkerTexture encodes a configured checkerboard and registers it.
func checkerTexture(doc *gltf.Document, cfg *config.Config) (int, error) {
	img, err := texture.Checkerboard(cfg.Texture.Size, cfg.Texture.Size, cfg.Texture.CellSize,
		color.RGBA{R: 230, G: 230, B: 230, A: 255}, color.RGBA{R: 40, G: 40, B: 40, A: 255})
	if err != nil {
		return 0, err
	}
	data, err := texture.Encode(img, cfg.TextureFormat(), cfg.Texture.JPEGQuality)
	if err != nil {
		return 0, err
	}
	return doc.AddTextureFromImage("checker", data)
}

func buildCube(cfg *config.Config, log *zap.Logger) (*gltf.Document, error) {
	doc := newDocument(cfg, log)
	tex, err := checkerTexture(doc, cfg)
	if err != nil {
		return nil, err
	}
	mat, err := doc.AddMaterial(gltf.NewMaterial("checker").
		BaseColorTexture(tex, 0).
		Metallic(0).
		Roughness(0.9).
		Build())
	if err != nil {
		return nil, err
	}
	md := cubeMesh("cube", 1)
	md.Material = gltf.Index(mat)
	if _, err := single(doc, md); err != nil {
		return nil, err
	}
	return doc, nil
}

func buildHierarchy(cfg *config.Config, log *zap.Logger) (*gltf.Document, error) {
	doc := newDocument(cfg, log)

	img, err := texture.UVTest(cfg.Texture.Size, cfg.Texture.Size)
	if err != nil {
		return nil, err
	}
	data, err := texture.Encode(img, cfg.TextureFormat(), cfg.Texture.JPEGQuality)
	if err != nil {
		return nil, err
	}
	uvTex, err := doc.AddTextureFromImage("uv", data)
	if err != nil {
		return nil, err
	}

	mats := make([]int, 3)
	materials := []gltf.Material{
		gltf.NewMaterial("uv").BaseColorTexture(uvTex, 0).Build(),
		gltf.MetallicMaterial("gold", [4]float32{1, 0.77, 0.34, 1}, 1, 0.3),
		gltf.SpecularMaterial("glass", [4]float32{0.6, 0.8, 1, 0.5}, [3]float32{1, 1, 1}, 0.9),
	}
	for i, m := range materials {
		if mats[i], err = doc.AddMaterial(m); err != nil {
			return nil, err
		}
	}

	// Each level is half the size of its parent, offset along +X and
	// turned a further 45 degrees about Y.
	var nodes []int
	for i, mat := range mats {
		md := cubeMesh(fmt.Sprintf("cube%d", i), 1)
		md.Material = gltf.Index(mat)
		mesh, err := doc.AddMeshData(md)
		if err != nil {
			return nil, err
		}
		t := gltf.Identity()
		if i > 0 {
			t.Translation = mgl32.Vec3{1.5, 0, 0}
			t.Rotation = mgl32.QuatRotate(mgl32.DegToRad(45), mgl32.Vec3{0, 1, 0})
			t.Scale = mgl32.Vec3{0.5, 0.5, 0.5}
		}
		node, err := doc.AddNode(t.Apply(gltf.Node{Name: md.Name, Mesh: gltf.Index(mesh)}))
		if err != nil {
			return nil, err
		}
		if i > 0 {
			if err := doc.AddChild(nodes[i-1], node); err != nil {
				return nil, err
			}
		}
		nodes = append(nodes, node)
	}

	scene, err := doc.AddScene(gltf.Scene{Name: "hierarchy", Nodes: nodes[:1]})
	if err != nil {
		return nil, err
	}
	if lo, hi, ok := doc.SceneBounds(scene); ok {
		log.Debug("scene bounds",
			zap.Float32s("min", lo[:]),
			zap.Float32s("max", hi[:]))
	}
	return doc, nil
}

func buildAnimated(cfg *config.Config, log *zap.Logger) (*gltf.Document, error) {
	doc := newDocument(cfg, log)
	tex, err := checkerTexture(doc, cfg)
	if err != nil {
		return nil, err
	}
	mat, err := doc.AddMaterial(gltf.NewMaterial("checker").BaseColorTexture(tex, 0).Build())
	if err != nil {
		return nil, err
	}
	md := cubeMesh("spinner", 1)
	md.Material = gltf.Index(mat)
	node, err := single(doc, md)
	if err != nil {
		return nil, err
	}

	times := []float32{0, 1, 2, 3, 4}
	up := mgl32.Vec3{0, 1, 0}
	rotations := make([]mgl32.Quat, len(times))
	for i := range times {
		rotations[i] = mgl32.QuatRotate(mgl32.DegToRad(90*float32(i)), up)
	}
	_, err = doc.NewAnimation("spin").
		Rotation(node, times, rotations, gltf.InterpolationLinear).
		Translation(node, []float32{0, 2, 4}, []mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {0, 0, 0}}, gltf.InterpolationLinear).
		Scale(node, []float32{0, 2}, []mgl32.Vec3{{1, 1, 1}, {1.5, 1.5, 1.5}}, gltf.InterpolationStep).
		Add()
	if err != nil {
		return nil, err
	}
	return doc, nil
}
