package flagdraw

import "time"

// Status describes the scene a Sketch currently holds.
type Status struct {
	// Source is the script path, prefixed with "embedded:" for NewFromFS.
	Source string
	// Loads counts successful loads, the first one included.
	Loads int
	// LoadedAt is when the current scene was recorded.
	LoadedAt time.Time
	// Shapes is the number of records in the current buffer.
	Shapes int
	// Images is the number of images available to draw_image.
	Images int
	// Digest is the hex BLAKE2b-256 sum of the script source.
	Digest string
	// Width and Height are the canvas size of the current scene.
	Width, Height int
	// Watching is true while a watcher is running.
	Watching bool
	// LastError is the most recent load or render error, nil after a
	// successful load.
	LastError error
}
