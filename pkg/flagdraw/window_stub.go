//go:build noebiten

package flagdraw

import "context"

// Run fails with ErrNoWindow in noebiten builds. Use Render, SavePNG or
// Watch instead.
func (s *Sketch) Run(ctx context.Context) error {
	return wrapError(CategoryRender, "run", ErrNoWindow)
}
