package gltf

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/glbforge/pkg/glb"
)

// Root returns the JSON object describing the document, as it would be
// exported. It shares nested values with the document and must not be modified.
func (d *Document) Root() *Root {
	return d.render(len(d.buf.Finalize()))
}

func (d *Document) render(bufferLen int) *Root {
	r := &Root{
		Asset:          d.asset,
		ExtensionsUsed: slices.Clone(d.extensionsUsed),
		Scenes:         slices.Clone(d.scenes),
		Nodes:          slices.Clone(d.nodes),
		Meshes:         slices.Clone(d.meshes),
		Materials:      slices.Clone(d.materials),
		Textures:       slices.Clone(d.textures),
		Images:         slices.Clone(d.images),
		Samplers:       slices.Clone(d.samplers),
		Animations:     slices.Clone(d.animations),
		Accessors:      slices.Clone(d.accessors),
		BufferViews:    slices.Clone(d.bufferViews),
	}
	if d.scene != nil {
		r.Scene = Index(*d.scene)
	}
	if bufferLen > 0 {
		r.Buffers = []Buffer{{ByteLength: bufferLen}}
	}

	for _, i := range slices.Sorted(maps.Keys(d.nonFinite)) {
		a := &r.Accessors[i]
		d.log.Warn("omitting non-finite accessor bounds",
			zap.Int("accessor", i),
			zap.Float64s("min", a.Min),
			zap.Float64s("max", a.Max),
		)
		a.Min, a.Max = nil, nil
	}
	return r
}

// Bytes serializes the document to a complete GLB container.
func (d *Document) Bytes() ([]byte, error) {
	bin := d.buf.Finalize()
	root := d.render(len(bin))

	jsonData, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON chunk: %w", err)
	}
	data, err := glb.Encode(jsonData, bin)
	if err != nil {
		return nil, err
	}

	d.log.Debug("serialized GLB",
		zap.Int("jsonBytes", len(jsonData)),
		zap.Int("binBytes", len(bin)),
		zap.Int("totalBytes", len(data)),
	)
	return data, nil
}

// Encode writes the GLB container to w.
func (d *Document) Encode(w io.Writer) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing GLB: %w", err)
	}
	return nil
}

// WriteFile writes the GLB container to path, creating parent directories.
// On failure no partial file is left behind.
func (d *Document) WriteFile(path string) (err error) {
	data, err := d.Bytes()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating GLB file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing GLB file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("writing GLB file: %w", err)
	}

	d.log.Info("wrote GLB", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}
