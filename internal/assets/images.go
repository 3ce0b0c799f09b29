// Package assets loads the images and fonts a scene draws with.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
)

// ImageStore holds decoded images keyed by file name. It is safe for
// concurrent use.
type ImageStore struct {
	mu     sync.RWMutex
	images map[string]image.Image
}

// NewImageStore creates an empty store.
func NewImageStore() *ImageStore {
	return &ImageStore{images: make(map[string]image.Image)}
}

// LoadImages decodes every *.png file in dir into a new store. A missing
// directory yields an empty store.
func LoadImages(dir string) (*ImageStore, error) {
	s := NewImageStore()
	if err := s.Load(dir); err != nil {
		return nil, err
	}
	return s, nil
}

// Load decodes every *.png file in dir. Names already in the store are
// decoded again and overwritten. A missing directory is not an error.
func (s *ImageStore) Load(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return s.LoadFS(os.DirFS(dir), ".")
}

// LoadFS decodes every *.png file in dir of fsys.
func (s *ImageStore) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read image directory: %w", err)
	}

	decoded := make(map[string]image.Image, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(path.Ext(e.Name()), ".png") {
			continue
		}
		img, err := decodePNG(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		decoded[e.Name()] = img
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for name, img := range decoded {
		s.images[name] = img
	}
	return nil
}

func decodePNG(fsys fs.FS, name string) (image.Image, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path.Base(name), err)
	}
	return img, nil
}

// Add stores img under name, replacing any previous image.
func (s *ImageStore) Add(name string, img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[name] = img
}

// Image returns the image stored under name.
func (s *ImageStore) Image(name string) (image.Image, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.images[name]
	return img, ok
}

// Names returns the stored names in sorted order.
func (s *ImageStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.images))
	for name := range s.images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of stored images.
func (s *ImageStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.images)
}
