package gltf

import (
	"fmt"

	"github.com/h2non/filetype"
	"go.uber.org/zap"
)

// DefaultSampler filters linearly with trilinear minification and repeats.
func DefaultSampler() Sampler {
	return Sampler{
		MagFilter: Linear,
		MinFilter: LinearMipmapLinear,
		WrapS:     Repeat,
		WrapT:     Repeat,
	}
}

// AddSampler registers a texture sampler.
func (d *Document) AddSampler(s Sampler) (int, error) {
	switch s.MagFilter {
	case 0, Nearest, Linear:
	default:
		return 0, fmt.Errorf("%w: mag filter %d", ErrInvalidTarget, s.MagFilter)
	}
	switch s.MinFilter {
	case 0, Nearest, Linear, NearestMipmapNearest, LinearMipmapNearest, NearestMipmapLinear, LinearMipmapLinear:
	default:
		return 0, fmt.Errorf("%w: min filter %d", ErrInvalidTarget, s.MinFilter)
	}
	for _, w := range []Wrap{s.WrapS, s.WrapT} {
		switch w {
		case 0, ClampToEdge, MirroredRepeat, Repeat:
		default:
			return 0, fmt.Errorf("%w: wrap mode %d", ErrInvalidTarget, w)
		}
	}
	d.samplers = append(d.samplers, s)
	return len(d.samplers) - 1, nil
}

// AddImage registers an image. Exactly one of Data and URI must be set.
// Embedded data is packed into its own buffer view; an empty MimeType is
// detected from the data.
func (d *Document) AddImage(img Image) (int, error) {
	switch {
	case len(img.Data) > 0 && img.URI != "":
		return 0, fmt.Errorf("%w: image %q has both data and uri", ErrInvalidImage, img.Name)
	case len(img.Data) == 0 && img.URI == "":
		return 0, fmt.Errorf("%w: image %q has neither data nor uri", ErrInvalidImage, img.Name)
	case img.BufferView != nil:
		return 0, fmt.Errorf("%w: image %q: buffer view is assigned on registration", ErrInvalidImage, img.Name)
	}

	if img.URI != "" {
		d.images = append(d.images, img.clone())
		return len(d.images) - 1, nil
	}

	mime, err := imageMIME(img.Data, img.MimeType)
	if err != nil {
		return 0, fmt.Errorf("image %q: %w", img.Name, err)
	}

	view := d.appendView(img.Data, 0, TargetNone, "")
	d.images = append(d.images, Image{
		Name:       img.Name,
		MimeType:   mime,
		BufferView: Index(view),
	})
	idx := len(d.images) - 1
	d.log.Debug("registered image",
		zap.Int("index", idx),
		zap.String("mimeType", mime),
		zap.Int("bytes", len(img.Data)),
	)
	return idx, nil
}

// imageMIME sniffs data and reconciles the result with the declared type.
func imageMIME(data []byte, declared string) (string, error) {
	var sniffed string
	if kind, err := filetype.Match(data); err == nil && kind != filetype.Unknown {
		sniffed = kind.MIME.Value
	}

	mime := declared
	if mime == "" {
		mime = sniffed
	}
	switch {
	case mime == "":
		return "", fmt.Errorf("%w: unrecognised image data", ErrInvalidImage)
	case mime != MimePNG && mime != MimeJPEG:
		return "", fmt.Errorf("%w: unsupported MIME type %q", ErrInvalidImage, mime)
	case sniffed != "" && sniffed != mime:
		return "", fmt.Errorf("%w: declared %s but data is %s", ErrInvalidImage, mime, sniffed)
	}
	return mime, nil
}

// AddTexture registers a texture. The source image and sampler must exist.
func (d *Document) AddTexture(t Texture) (int, error) {
	if err := d.check(KindImage, t.Source); err != nil {
		return 0, fmt.Errorf("texture %q source: %w", t.Name, err)
	}
	if err := d.checkOpt(KindSampler, t.Sampler); err != nil {
		return 0, fmt.Errorf("texture %q sampler: %w", t.Name, err)
	}
	d.textures = append(d.textures, t.clone())
	return len(d.textures) - 1, nil
}

// AddTextureFromImage registers an embedded image, a default sampler and a
// texture using both. It returns the texture index.
func (d *Document) AddTextureFromImage(name string, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: image %q has no data", ErrInvalidImage, name)
	}
	if _, err := imageMIME(data, ""); err != nil {
		return 0, fmt.Errorf("image %q: %w", name, err)
	}

	img, err := d.AddImage(Image{Name: name, Data: data})
	if err != nil {
		return 0, err
	}
	sampler, err := d.AddSampler(DefaultSampler())
	if err != nil {
		return 0, err
	}
	return d.AddTexture(Texture{Name: name, Source: img, Sampler: Index(sampler)})
}
