package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// Target is an image a pass renders into: an offscreen texture owned by the composer or the
// swapchain image of the current frame.
type Target interface {
	// Label returns the debug label of the target.
	Label() string

	// Width returns the width in pixels.
	Width() int

	// Height returns the height in pixels.
	Height() int

	// View returns the texture view used as a color attachment or as a sampled texture.
	View() *wgpu.TextureView

	// Release frees the GPU texture. Targets not owned by the caller ignore it.
	Release()
}

// TargetFactory creates an offscreen target of the given size.
type TargetFactory func(label string, width, height int) (Target, error)

// renderTarget is a texture created by the backend.
type renderTarget struct {
	label   string
	width   int
	height  int
	texture *wgpu.Texture
	view    *wgpu.TextureView

	// owned is false for the swapchain image, which the backend releases after Present.
	owned bool
}

var _ Target = &renderTarget{}

func (t *renderTarget) Label() string {
	return t.label
}

func (t *renderTarget) Width() int {
	return t.width
}

func (t *renderTarget) Height() int {
	return t.height
}

func (t *renderTarget) View() *wgpu.TextureView {
	return t.view
}

func (t *renderTarget) Release() {
	if !t.owned {
		return
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}
