package config

import "fmt"

// DomainConfig holds the configurable rules of the catalog
type DomainConfig struct {
	// Engine constraints
	MaxEngineNameLength int

	// Change summaries
	SummaryLimit int

	// Display markers
	EmptyMarker   string
	RemovedMarker string
}

// DefaultDomainConfig returns the default domain configuration
func DefaultDomainConfig() *DomainConfig {
	return &DomainConfig{
		MaxEngineNameLength: 200,
		SummaryLimit:        5,
		EmptyMarker:         "[Empty]",
		RemovedMarker:       "[Removed]",
	}
}

// ProductionDomainConfig returns production-specific configuration
func ProductionDomainConfig() *DomainConfig {
	return DefaultDomainConfig()
}

// DevelopmentDomainConfig returns development-specific configuration
func DevelopmentDomainConfig() *DomainConfig {
	config := DefaultDomainConfig()

	// Longer summaries are easier to debug with
	config.SummaryLimit = 10

	return config
}

// LoadDomainConfig loads domain configuration based on environment
func LoadDomainConfig(environment string) *DomainConfig {
	switch environment {
	case "production":
		return ProductionDomainConfig()
	case "development":
		return DevelopmentDomainConfig()
	default:
		return DefaultDomainConfig()
	}
}

// Validate checks if the configuration is valid
func (c *DomainConfig) Validate() error {
	if c.SummaryLimit < 1 {
		return fmt.Errorf("summary limit must be positive, got %d", c.SummaryLimit)
	}
	if c.MaxEngineNameLength < 1 {
		return fmt.Errorf("max engine name length must be positive, got %d", c.MaxEngineNameLength)
	}
	if c.EmptyMarker == "" || c.RemovedMarker == "" {
		return fmt.Errorf("display markers cannot be empty")
	}
	return nil
}
