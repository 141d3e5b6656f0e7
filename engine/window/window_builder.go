package window

// WindowBuilderOption is a functional option used to configure a window during construction via NewWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title of the window.
//
// Parameters:
//   - title: the title to set for the window
//
// Returns:
//   - WindowBuilderOption: a function that applies the title option to a window
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial size of the window in window coordinates. Non-positive values are ignored.
//
// Parameters:
//   - width: the initial width
//   - height: the initial height
//
// Returns:
//   - WindowBuilderOption: a function that applies the size option to a window
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 && height > 0 {
			w.width = width
			w.height = height
		}
	}
}

// WithMinSize sets the smallest size the window can be resized to.
//
// Parameters:
//   - width: the minimum width, 0 for no limit
//   - height: the minimum height, 0 for no limit
//
// Returns:
//   - WindowBuilderOption: a function that applies the minimum size option to a window
func WithMinSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = width
		w.minHeight = height
	}
}

// WithMaxSize sets the largest size the window can be resized to.
//
// Parameters:
//   - width: the maximum width, 0 for no limit
//   - height: the maximum height, 0 for no limit
//
// Returns:
//   - WindowBuilderOption: a function that applies the maximum size option to a window
func WithMaxSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.maxWidth = width
		w.maxHeight = height
	}
}
