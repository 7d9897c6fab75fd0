package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/soocke/captol-go/domain/storage"
)

// ValidationError is one invalid config value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidLogLevels returns the accepted logging.level values.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config and returns every problem found. Zero or
// negative timings are reset to their defaults rather than reported.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	d := Default()

	if c.Capture.AutoclipInterval <= 0 {
		c.Capture.AutoclipInterval = d.Capture.AutoclipInterval
	}
	if c.Overlay.FlashMs <= 0 {
		c.Overlay.FlashMs = d.Overlay.FlashMs
	}
	// a shorter pause would capture the flash of the previous save
	if c.Overlay.Enabled && c.Capture.AutoclipDuration() <= c.Overlay.FlashDuration()+UIRefresh {
		errs = append(errs, ValidationError{
			Field:   "capture.autoclip_interval",
			Value:   c.Capture.AutoclipInterval,
			Message: fmt.Sprintf("must exceed overlay.flash_ms plus %v while the overlay is enabled", UIRefresh),
		})
	}
	c.Capture.Extension = strings.TrimPrefix(strings.ToLower(c.Capture.Extension), ".")
	if _, err := storage.CodecFor(c.Capture.Extension); err != nil {
		errs = append(errs, ValidationError{
			Field:   "capture.extension",
			Value:   c.Capture.Extension,
			Message: "must be one of " + strings.Join(storage.Extensions(), ", "),
		})
	}
	if strings.TrimSpace(c.Capture.DefaultFolder) == "" {
		errs = append(errs, ValidationError{
			Field:   "capture.default_folder",
			Value:   c.Capture.DefaultFolder,
			Message: "must not be empty",
		})
	}
	if c.Capture.Region != "" {
		if _, ok := c.Regions[c.Capture.Region]; !ok {
			errs = append(errs, ValidationError{
				Field:   "capture.region",
				Value:   c.Capture.Region,
				Message: "no region with that name",
			})
		}
	}
	for _, name := range c.RegionNames() {
		if err := c.Regions[name].Validate(); err != nil {
			errs = append(errs, ValidationError{
				Field:   "regions." + name,
				Value:   c.Regions[name],
				Message: err.Error(),
			})
		}
	}
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: "must be one of " + strings.Join(ValidLogLevels(), ", "),
		})
	}
	return errs
}
