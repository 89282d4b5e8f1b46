package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Matcher.validate(); err != nil {
		return fmt.Errorf("matcher: %w", err)
	}

	models, err := ParseModels(c.Classifier.ModelsRaw)
	if err != nil {
		return fmt.Errorf("classifier.models: %w", err)
	}
	c.Classifier.Models = models

	if c.Classifier.APIKey != "" && len(c.Classifier.Models) == 0 {
		return fmt.Errorf("classifier.models must name at least one model when an API key is set")
	}

	if c.Importer.MaxItems <= 0 {
		return fmt.Errorf("importer.max_items must be > 0 (got %d)", c.Importer.MaxItems)
	}

	return nil
}

func (m *MatcherConfig) validate() error {
	if m.HighThreshold <= 0 || m.HighThreshold > 1 {
		return fmt.Errorf("high_threshold must be in (0, 1] (got %v)", m.HighThreshold)
	}
	if m.LowThreshold <= 0 || m.LowThreshold > 1 {
		return fmt.Errorf("low_threshold must be in (0, 1] (got %v)", m.LowThreshold)
	}
	if m.LowThreshold >= m.HighThreshold {
		return fmt.Errorf("low_threshold must be below high_threshold (got %v >= %v)", m.LowThreshold, m.HighThreshold)
	}
	if m.AmbiguityBand < 0 || m.AmbiguityBand > 1 {
		return fmt.Errorf("ambiguity_band must be in [0, 1] (got %v)", m.AmbiguityBand)
	}
	return nil
}

// ParseModels parses a comma-separated model list, dropping empty segments.
// An empty string returns a nil slice.
func ParseModels(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		models = append(models, p)
	}

	if len(models) == 0 {
		return nil, fmt.Errorf("no usable model names in %q", raw)
	}
	return models, nil
}
