// Package flagdraw runs Lua flag scripts and shows or captures the scene
// they draw.
//
// # Basic Usage
//
// A Sketch loads a script, records the shapes it draws and replays them in
// a window:
//
//	s, err := flagdraw.New("tricolore.lua", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := s.Run(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Headless Capture
//
// Render rasterizes the scene in software and never opens a window, which
// makes it usable from tests, notebooks and servers:
//
//	s, _ := flagdraw.New("tricolore.lua", nil)
//	if err := s.SavePNG("tricolore.png"); err != nil {
//		log.Fatal(err)
//	}
//
// # Script Sources
//
//   - Disk file: use [New]; images are read from a directory next to it
//   - Embedded FS: use [NewFromFS] with an [io/fs.FS]
//
// # Hot Reload
//
// With [Options.Watch] the script and its images directory are watched.
// Every change re-runs the script into a fresh buffer; the window swaps to
// it between frames. A script that fails to load leaves the previous scene
// on screen.
//
// # Errors
//
// Errors returned by a Sketch are *[Error] values. Use errors.As to read
// the [Category]; errors.Is still reaches the underlying cause.
package flagdraw
