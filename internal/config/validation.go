// This file implements validation of configuration values.

package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-flagdraw/internal/assets"
)

// ValidationError represents a configuration validation error.
// It contains the field name and a description of the issue.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a configuration validation.
type ValidationResult struct {
	// Errors contains all validation errors found.
	Errors []ValidationError
	// Warnings contains non-fatal issues (e.g., a huge canvas).
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}

	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("validation failed: %s", strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Merge combines another ValidationResult into this one.
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	vr.Errors = append(vr.Errors, other.Errors...)
	vr.Warnings = append(vr.Warnings, other.Warnings...)
}

// Limits used by the validator.
const (
	// maxDimension is the largest canvas side accepted.
	maxDimension = 16384
	// largeDimension triggers a warning.
	largeDimension = 4096
	// maxScale is the largest window scale accepted.
	maxScale = 16.0
)

// knownFonts lists the font names NewFont understands.
var knownFonts = []string{assets.FontGo, assets.FontGoMono, assets.FontProggy}

// Validator provides comprehensive configuration validation.
type Validator struct {
	// strictMode turns warnings into errors.
	strictMode bool
}

// NewValidator creates a new Validator with default settings.
func NewValidator() *Validator {
	return &Validator{}
}

// WithStrictMode enables strict validation where warnings are errors.
func (v *Validator) WithStrictMode(strict bool) *Validator {
	v.strictMode = strict
	return v
}

// Validate performs comprehensive validation of a Config.
func (v *Validator) Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	v.validateCanvas(&cfg.Canvas, result)
	v.validateWindow(&cfg.Window, result)
	v.validateAssets(&cfg.Assets, result)
	v.validateOutput(&cfg.Output, result)

	if v.strictMode {
		result.Errors = append(result.Errors, result.Warnings...)
		result.Warnings = nil
	}
	return result
}

// validateCanvas validates CanvasConfig settings.
func (v *Validator) validateCanvas(cc *CanvasConfig, result *ValidationResult) {
	if cc.Width <= 0 {
		result.AddError("canvas.width", fmt.Sprintf("must be positive, got %d", cc.Width))
	}
	if cc.Height <= 0 {
		result.AddError("canvas.height", fmt.Sprintf("must be positive, got %d", cc.Height))
	}

	if cc.Width > maxDimension {
		result.AddError("canvas.width", fmt.Sprintf("must be at most %d, got %d", maxDimension, cc.Width))
	} else if cc.Width > largeDimension {
		result.AddWarning("canvas.width", fmt.Sprintf("unusually large value %d", cc.Width))
	}
	if cc.Height > maxDimension {
		result.AddError("canvas.height", fmt.Sprintf("must be at most %d, got %d", maxDimension, cc.Height))
	} else if cc.Height > largeDimension {
		result.AddWarning("canvas.height", fmt.Sprintf("unusually large value %d", cc.Height))
	}

	if cc.Background.A < 255 {
		result.AddWarning("canvas.background", "background is not opaque")
	}
}

// validateWindow validates WindowConfig settings.
func (v *Validator) validateWindow(wc *WindowConfig, result *ValidationResult) {
	if wc.Scale <= 0 {
		result.AddError("window.scale", fmt.Sprintf("must be positive, got %g", wc.Scale))
	}
	if wc.Scale > maxScale {
		result.AddError("window.scale", fmt.Sprintf("must be at most %g, got %g", maxScale, wc.Scale))
	}
	if len(wc.Title) > 256 {
		result.AddWarning("window.title", "title too long")
	}
}

// validateAssets validates AssetsConfig settings.
func (v *Validator) validateAssets(ac *AssetsConfig, result *ValidationResult) {
	known := false
	for _, f := range knownFonts {
		if strings.EqualFold(ac.Font, f) {
			known = true
			break
		}
	}
	if !known {
		result.AddError("assets.font",
			fmt.Sprintf("unknown font %q (expected one of %s)", ac.Font, strings.Join(knownFonts, ", ")))
	}

	if ac.FontSize <= 0 {
		result.AddError("assets.font_size", fmt.Sprintf("must be positive, got %g", ac.FontSize))
	}
	if ac.FontSize > 200 {
		result.AddWarning("assets.font_size", fmt.Sprintf("unusually large font size: %g", ac.FontSize))
	}

	if ac.ImagesDir == "" {
		result.AddWarning("assets.images_dir", "empty; draw_image will find no images")
	}
}

// validateOutput validates OutputConfig settings.
func (v *Validator) validateOutput(oc *OutputConfig, result *ValidationResult) {
	if oc.Backend != BackendVector && oc.Backend != BackendGG {
		result.AddError("output.backend", fmt.Sprintf("unknown backend: %d", oc.Backend))
	}
	if oc.Path != "" && !strings.HasSuffix(strings.ToLower(oc.Path), ".png") {
		result.AddWarning("output.path", fmt.Sprintf("%q does not end in .png; a PNG is written anyway", oc.Path))
	}
}

// ValidateConfig is a convenience function to validate a Config with default settings.
// Returns nil if the config is valid, or an error describing validation failures.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	validator := NewValidator()
	result := validator.Validate(cfg)
	return result.Error()
}

// ValidateConfigStrict validates a Config with strict mode enabled.
// Warnings are treated as errors.
func ValidateConfigStrict(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	validator := NewValidator().WithStrictMode(true)
	result := validator.Validate(cfg)
	return result.Error()
}
