package flagdraw

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/opd-ai/go-flagdraw/internal/assets"
)

// source locates a script and the images next to it.
type source struct {
	// name identifies the script in logs and Lua error messages.
	name string
	fsys fs.FS
	path string
	// dir is the script's directory on disk; empty for embedded scripts.
	dir string
}

func diskSource(scriptPath string) source {
	dir := filepath.Dir(scriptPath)
	return source{
		name: scriptPath,
		fsys: os.DirFS(dir),
		path: filepath.Base(scriptPath),
		dir:  dir,
	}
}

func fsSource(fsys fs.FS, scriptPath string) source {
	return source{
		name: "embedded:" + scriptPath,
		fsys: fsys,
		path: scriptPath,
	}
}

func (src source) read() ([]byte, error) {
	return fs.ReadFile(src.fsys, src.path)
}

func (src source) onDisk() bool {
	return src.dir != ""
}

// scriptFile returns the script's path on disk.
func (src source) scriptFile() string {
	return filepath.Join(src.dir, src.path)
}

// imagesPath resolves imagesDir against the script's directory on disk.
func (src source) imagesPath(imagesDir string) string {
	if filepath.IsAbs(imagesDir) {
		return imagesDir
	}
	return filepath.Join(src.dir, imagesDir)
}

// loadImages decodes the *.png files of imagesDir into a new store.
// An empty imagesDir yields an empty store.
func (src source) loadImages(imagesDir string) (*assets.ImageStore, error) {
	store := assets.NewImageStore()
	if imagesDir == "" {
		return store, nil
	}
	if src.onDisk() {
		return store, store.Load(src.imagesPath(imagesDir))
	}
	return store, store.LoadFS(src.fsys, path.Join(path.Dir(src.path), imagesDir))
}
