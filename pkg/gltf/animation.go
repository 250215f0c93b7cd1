package gltf

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// AddAnimation registers an animation after checking its samplers and channels.
func (d *Document) AddAnimation(a Animation) (int, error) {
	if err := d.checkAnimation(a); err != nil {
		return 0, fmt.Errorf("animation %q: %w", a.Name, err)
	}
	d.animations = append(d.animations, Animation{
		Name:     a.Name,
		Channels: append([]Channel(nil), a.Channels...),
		Samplers: append([]AnimationSampler(nil), a.Samplers...),
	})
	return len(d.animations) - 1, nil
}

func (d *Document) checkAnimation(a Animation) error {
	if len(a.Channels) == 0 || len(a.Samplers) == 0 {
		return fmt.Errorf("%w: animation needs at least one channel and sampler", ErrInvalidSequence)
	}
	for i, s := range a.Samplers {
		if err := d.checkAnimationSampler(s); err != nil {
			return fmt.Errorf("sampler %d: %w", i, err)
		}
	}

	type target struct {
		node int
		path Path
	}
	seen := make(map[target]bool, len(a.Channels))
	for i, c := range a.Channels {
		if c.Sampler < 0 || c.Sampler >= len(a.Samplers) {
			return fmt.Errorf("channel %d: %w: sampler %d of %d", i, ErrDanglingReference, c.Sampler, len(a.Samplers))
		}
		if err := d.check(KindNode, c.Target.Node); err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		want, ok := pathType(c.Target.Path)
		if !ok {
			return fmt.Errorf("channel %d: %w: path %q", i, ErrInvalidTarget, c.Target.Path)
		}
		out := d.accessors[a.Samplers[c.Sampler].Output]
		if out.Type != want {
			return fmt.Errorf("channel %d: %w: %s output must be %s, got %s",
				i, ErrInvalidTarget, c.Target.Path, want, out.Type)
		}
		t := target{c.Target.Node, c.Target.Path}
		if seen[t] {
			return fmt.Errorf("channel %d: %w: node %d %s targeted twice", i, ErrInvalidTarget, t.node, t.path)
		}
		seen[t] = true
	}
	return nil
}

func (d *Document) checkAnimationSampler(s AnimationSampler) error {
	if err := d.check(KindAccessor, s.Input); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := d.check(KindAccessor, s.Output); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	in, out := d.accessors[s.Input], d.accessors[s.Output]
	if in.ComponentType != Float || in.Type != Scalar {
		return fmt.Errorf("%w: input must be FLOAT SCALAR, got %s %s", ErrInvalidSequence, in.ComponentType, in.Type)
	}
	if len(in.Min) != 1 || len(in.Max) != 1 {
		return fmt.Errorf("%w: input accessor %d has no bounds", ErrInvalidSequence, s.Input)
	}
	times, err := d.accessorValues(s.Input)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	for i, t := range times {
		if !finite32(t) {
			return fmt.Errorf("%w: keyframe time %d is %v", ErrInvalidSequence, i, t)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("%w: keyframe times not strictly increasing at %d", ErrInvalidSequence, i)
		}
	}

	per := 1
	switch s.Interpolation {
	case "", InterpolationLinear, InterpolationStep:
	case InterpolationCubicSpline:
		per = 3 // in-tangent, value, out-tangent
	default:
		return fmt.Errorf("%w: interpolation %q", ErrInvalidTarget, s.Interpolation)
	}
	// Morph weight outputs carry one value per target per keyframe.
	if out.Type == Scalar && out.Count%(in.Count*per) == 0 && out.Count > 0 {
		return nil
	}
	if out.Count != in.Count*per {
		return fmt.Errorf("%w: %d keyframes, %d output values (%s)", ErrKeyframeMismatch, in.Count, out.Count, s.Interpolation)
	}
	return nil
}

func pathType(p Path) (AccessorType, bool) {
	switch p {
	case PathTranslation, PathScale:
		return Vec3, true
	case PathRotation:
		return Vec4, true
	case PathWeights:
		return Scalar, true
	default:
		return "", false
	}
}

// AnimationBuilder collects keyframe tracks, registering their accessors on
// the document as each track is added. The first error stops the builder.
type AnimationBuilder struct {
	d    *Document
	anim Animation
	err  error
}

// NewAnimation starts an animation with the given name.
func (d *Document) NewAnimation(name string) *AnimationBuilder {
	return &AnimationBuilder{d: d, anim: Animation{Name: name}}
}

// Translation animates the node's translation.
func (b *AnimationBuilder) Translation(node int, times []float32, values []mgl32.Vec3, interp Interpolation) *AnimationBuilder {
	flat := make([]float32, 0, len(values)*3)
	for _, v := range values {
		flat = append(flat, v[:]...)
	}
	return b.track(node, PathTranslation, times, flat, Vec3, len(values), interp)
}

// Rotation animates the node's rotation.
func (b *AnimationBuilder) Rotation(node int, times []float32, values []mgl32.Quat, interp Interpolation) *AnimationBuilder {
	flat := make([]float32, 0, len(values)*4)
	for _, q := range values {
		flat = append(flat, q.V[0], q.V[1], q.V[2], q.W)
	}
	return b.track(node, PathRotation, times, flat, Vec4, len(values), interp)
}

// Scale animates the node's scale.
func (b *AnimationBuilder) Scale(node int, times []float32, values []mgl32.Vec3, interp Interpolation) *AnimationBuilder {
	flat := make([]float32, 0, len(values)*3)
	for _, v := range values {
		flat = append(flat, v[:]...)
	}
	return b.track(node, PathScale, times, flat, Vec3, len(values), interp)
}

// Weights animates morph target weights; values hold targets weights per keyframe.
func (b *AnimationBuilder) Weights(node int, times []float32, values []float32, targets int, interp Interpolation) *AnimationBuilder {
	if b.err == nil && (targets <= 0 || len(values)%targets != 0) {
		b.err = fmt.Errorf("%w: %d weights for %d targets", ErrKeyframeMismatch, len(values), targets)
		return b
	}
	n := 0
	if targets > 0 {
		n = len(values) / targets
	}
	return b.track(node, PathWeights, times, values, Scalar, n, interp)
}

func (b *AnimationBuilder) track(node int, path Path, times, flat []float32, typ AccessorType, n int, interp Interpolation) *AnimationBuilder {
	if b.err != nil {
		return b
	}
	if interp == "" {
		interp = InterpolationLinear
	}
	per := 1
	switch interp {
	case InterpolationLinear, InterpolationStep:
	case InterpolationCubicSpline:
		per = 3
	default:
		b.err = fmt.Errorf("%w: interpolation %q", ErrInvalidTarget, interp)
		return b
	}
	if len(times) == 0 {
		b.err = fmt.Errorf("%w: %s track has no keyframes", ErrInvalidSequence, path)
		return b
	}
	if n != len(times)*per {
		b.err = fmt.Errorf("%w: %d times, %d %s values (%s)", ErrKeyframeMismatch, len(times), n, path, interp)
		return b
	}
	for i := 1; i < len(times); i++ {
		if !(times[i] > times[i-1]) {
			b.err = fmt.Errorf("%w: keyframe times must increase strictly (index %d)", ErrInvalidSequence, i)
			return b
		}
	}
	if err := b.d.check(KindNode, node); err != nil {
		b.err = err
		return b
	}

	in, err := b.d.AddScalars(times)
	if err != nil {
		b.err = err
		return b
	}
	out, err := AddAccessor(b.d, flat, typ, AccessorOptions{})
	if err != nil {
		b.err = err
		return b
	}
	b.anim.Samplers = append(b.anim.Samplers, AnimationSampler{Input: in, Interpolation: interp, Output: out})
	b.anim.Channels = append(b.anim.Channels, Channel{
		Sampler: len(b.anim.Samplers) - 1,
		Target:  ChannelTarget{Node: node, Path: path},
	})
	return b
}

// Err returns the first error encountered while adding tracks.
func (b *AnimationBuilder) Err() error {
	return b.err
}

// Build returns the assembled animation without registering it.
func (b *AnimationBuilder) Build() (Animation, error) {
	if b.err != nil {
		return Animation{}, b.err
	}
	return b.anim, nil
}

// Add registers the assembled animation on the document.
func (b *AnimationBuilder) Add() (int, error) {
	a, err := b.Build()
	if err != nil {
		return 0, err
	}
	return b.d.AddAnimation(a)
}
