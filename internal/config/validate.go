package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	if err := c.validateMedia(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.SourceDir == c.Paths.FillerDir {
		return errors.New("paths.source_dir and paths.filler_dir must differ")
	}
	if c.Paths.WorkDir == c.Paths.SourceDir || c.Paths.WorkDir == c.Paths.FillerDir {
		return errors.New("paths.work_dir must not be one of the input folders")
	}
	if strings.ContainsAny(c.Paths.OutputName, `/\`) || c.Paths.OutputName == "." || c.Paths.OutputName == ".." {
		return fmt.Errorf("paths.output_name must be a plain file name, got %q", c.Paths.OutputName)
	}
	if filepath.Ext(c.Paths.OutputName) == "" {
		return fmt.Errorf("paths.output_name needs a container extension, got %q", c.Paths.OutputName)
	}
	return nil
}

func (c *Config) validateTimeline() error {
	switch c.Timeline.Unit {
	case UnitSeconds, UnitMilliseconds:
		return nil
	default:
		return fmt.Errorf("timeline.unit must be %q or %q, got %q", UnitSeconds, UnitMilliseconds, c.Timeline.Unit)
	}
}

func (c *Config) validateMedia() error {
	if c.Media.TrimWorkers > maxTrimWorkers {
		return fmt.Errorf("media.trim_workers must be between 1 and %d", maxTrimWorkers)
	}
	if c.Media.DurationSlackSeconds < 0 {
		return errors.New("media.duration_slack_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}
