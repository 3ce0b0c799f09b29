package lua

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed scenes/*.lua scenes/images/*.png
var examples embed.FS

// Examples lists the names of the embedded example scenes.
func Examples() []string {
	entries, err := fs.ReadDir(examples, "scenes")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".lua" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".lua"))
	}
	sort.Strings(names)
	return names
}

// Example returns the source of the named example scene.
func Example(name string) ([]byte, error) {
	src, err := fs.ReadFile(examples, path.Join("scenes", name+".lua"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExample, name)
	}
	return src, nil
}

// ExampleFS returns the embedded scenes directory. Scripts sit at the root
// and the images they use under images/.
func ExampleFS() fs.FS {
	sub, err := fs.Sub(examples, "scenes")
	if err != nil {
		panic(err)
	}
	return sub
}
