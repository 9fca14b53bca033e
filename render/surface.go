package render

// Surface is the raster the loop draws one frame into
// Coordinates are raster units with the origin at the top-left
type Surface interface {
	// Size returns the raster dimensions
	Size() (width, height float64)
	// Fade darkens the whole raster by a partial-opacity black fill
	Fade(alpha float64)
	// FillCircle draws a filled circle
	FillCircle(x, y, radius float64, c RGB)
	// Present flushes the frame to the output device
	Present()
}

// StatusLine is an optional Surface extension for the one-line status bar
type StatusLine interface {
	SetStatus(text string, swatch RGB)
}
