package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	qgltf "github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/glbforge/internal/logger"
	"github.com/Faultbox/glbforge/pkg/glb"
	"github.com/Faultbox/glbforge/pkg/gltf"
)

func cmdInspect(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	setup(fs, args)
	defer logger.Sync()

	if err := needArgs(fs, 1, "inspect <file.glb>"); err != nil {
		fatal(err)
	}
	if err := inspect(os.Stdout, fs.Arg(0)); err != nil {
		fatal(err)
	}
}

// inspect decodes path with an independent glTF reader and prints a summary.
func inspect(w io.Writer, path string) error {
	doc, err := qgltf.Open(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "File:       %s\n", path)
	fmt.Fprintf(w, "Generator:  %s (glTF %s)\n", doc.Asset.Generator, doc.Asset.Version)
	if doc.Asset.Copyright != "" {
		fmt.Fprintf(w, "Copyright:  %s\n", doc.Asset.Copyright)
	}
	if len(doc.ExtensionsUsed) > 0 {
		fmt.Fprintf(w, "Extensions: %v\n", doc.ExtensionsUsed)
	}
	fmt.Fprintln(w)

	counts := []struct {
		name string
		n    int
	}{
		{"scenes", len(doc.Scenes)},
		{"nodes", len(doc.Nodes)},
		{"meshes", len(doc.Meshes)},
		{"materials", len(doc.Materials)},
		{"textures", len(doc.Textures)},
		{"images", len(doc.Images)},
		{"samplers", len(doc.Samplers)},
		{"animations", len(doc.Animations)},
		{"accessors", len(doc.Accessors)},
		{"bufferViews", len(doc.BufferViews)},
		{"buffers", len(doc.Buffers)},
	}
	for _, c := range counts {
		fmt.Fprintf(w, "  %-12s %d\n", c.name, c.n)
	}
	if len(doc.Buffers) > 0 {
		fmt.Fprintf(w, "  %-12s %d bytes\n", "binary", doc.Buffers[0].ByteLength)
	}

	if len(doc.Accessors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Accessors:")
		for i, a := range doc.Accessors {
			fmt.Fprintf(w, "  [%d] %-7s %-14s count=%-6d", i, a.Type, a.ComponentType, a.Count)
			if len(a.Min) > 0 {
				fmt.Fprintf(w, " min=%v max=%v", a.Min, a.Max)
			}
			fmt.Fprintln(w)
		}
	}

	for i, m := range doc.Meshes {
		for j, p := range m.Primitives {
			idx, ok := p.Attributes[qgltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[idx], nil)
			if err != nil {
				return fmt.Errorf("mesh %d primitive %d: %w", i, j, err)
			}
			lo, hi := bounds(positions)
			fmt.Fprintf(w, "\nMesh %d %q primitive %d: %d vertices, bounds %v .. %v\n", i, m.Name, j, len(positions), lo, hi)
		}
	}
	return nil
}

func bounds(points [][3]float32) (lo, hi mgl32.Vec3) {
	if len(points) == 0 {
		return lo, hi
	}
	lo, hi = points[0], points[0]
	for _, p := range points[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = min(lo[k], p[k])
			hi[k] = max(hi[k], p[k])
		}
	}
	return lo, hi
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	setup(fs, args)
	defer logger.Sync()

	if err := needArgs(fs, 1, "validate <file.glb>..."); err != nil {
		fatal(err)
	}
	if failed := validateFiles(os.Stdout, fs.Args()); failed > 0 {
		fatal(fmt.Errorf("%d of %d files failed", failed, fs.NArg()))
	}
}

// validateFiles reports each path as OK or FAIL and returns the failure count.
func validateFiles(w io.Writer, paths []string) int {
	failed := 0
	for _, path := range paths {
		root, err := validate(path)
		if err != nil {
			failed++
			logger.Warn("validation failed", zap.String("path", path), zap.Error(err))
			fmt.Fprintf(w, "FAIL %s\n", path)
			for _, e := range unjoin(err) {
				fmt.Fprintf(w, "  %v\n", e)
			}
			continue
		}
		logger.Debug("validated", zap.String("path", path), zap.Int("accessors", len(root.Accessors)))
		fmt.Fprintf(w, "OK   %s\n", path)
	}
	return failed
}

// validate checks container framing and then the document structure.
func validate(path string) (*gltf.Root, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := glb.Read(data); err != nil {
		return nil, err
	}
	return gltf.Validate(data)
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
