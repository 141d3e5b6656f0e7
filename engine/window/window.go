package window

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the native window the renderer presents into. It reports framebuffer resizes in
// pixels and pointer movement in window coordinates, and is polled once per frame by the engine
// loop. Pressing Escape or closing the window stops it.
//
// All methods must be called from the thread that created the window.
type Window interface {
	// SetResizeCallback sets the callback invoked when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: receives the new framebuffer size in pixels
	SetResizeCallback(callback func(width, height int))

	// SetPointerMoveCallback sets the callback invoked when the cursor moves over the window.
	//
	// Parameters:
	//   - callback: receives the cursor position in window coordinates, origin at the top left
	SetPointerMoveCallback(callback func(x, y float64))

	// SurfaceDescriptor builds the descriptor used to create a WebGPU surface for this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents dispatches pending window events without blocking. Callbacks run synchronously
	// inside this call.
	//
	// Returns:
	//   - bool: true while the window is still running
	PollEvents() bool

	// IsRunning reports whether the window is open.
	IsRunning() bool

	// Close destroys the window.
	//
	// Returns:
	//   - error: an error if the window was never created
	Close() error

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// LogicalSize returns the window size in window coordinates, the space pointer positions
	// are reported in.
	//
	// Returns:
	//   - int: the width
	//   - int: the height
	LogicalSize() (int, int)

	// ContentScale returns the ratio between framebuffer pixels and window coordinates.
	//
	// Returns:
	//   - float32: the horizontal content scale
	ContentScale() float32
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	// title is the text shown in the window's title bar
	title string

	// size limits in window coordinates, 0 means unlimited
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width and height hold the framebuffer size in pixels
	width  int
	height int

	// internalWindow holds the platform-specific window handle
	internalWindow any

	onResize      func(width, height int)
	onPointerMove func(x, y float64)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the provided options, opening the platform window
// immediately. It panics if the platform window cannot be created.
//
// Parameters:
//   - options: variadic list of WindowBuilderOption functions to configure the window
//
// Returns:
//   - Window: the created window
func NewWindow(options ...WindowBuilderOption) Window {
	w := newEngineWindow(options...)
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func newEngineWindow(options ...WindowBuilderOption) *engineWindow {
	w := &engineWindow{
		title:     "IRONMAN",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetPointerMoveCallback(callback func(x, y float64)) {
	w.onPointerMove = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) PollEvents() bool {
	return platformProcessMessages(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) LogicalSize() (int, int) {
	return platformLogicalSize(w)
}

func (w *engineWindow) ContentScale() float32 {
	return platformContentScale(w)
}

// resized records a framebuffer size change and forwards it to the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.width = width
	w.height = height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

func (w *engineWindow) pointerMoved(x, y float64) {
	if w.onPointerMove != nil {
		w.onPointerMove(x, y)
	}
}
