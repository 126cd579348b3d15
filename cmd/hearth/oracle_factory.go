package main

import (
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/hearthkit/hearth/internal/config"
	"github.com/hearthkit/hearth/internal/oracle"
)

// buildOracle creates the Claude-backed oracle from configuration.
func buildOracle(cfg *config.Config) (*oracle.ClaudeOracle, *oracle.Client, error) {
	apiKey := ""
	if !cfg.Anthropic.UseAWSBedrock {
		key, err := config.GetAPIKey(cfg)
		if err != nil {
			return nil, nil, err
		}
		apiKey = key
	}

	client, err := oracle.NewClient(oracle.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        apiKey,
		UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create API client: %w", err)
	}

	return oracle.NewClaudeOracle(client, loadCatalog(), cfg.Oracle.Timeout), client, nil
}

// loadCatalog loads device profiles from .hearth-devices.yaml when
// present, falling back to the built-in catalog.
func loadCatalog() *config.Catalog {
	catalog, err := config.LoadCatalog(".hearth-devices.yaml")
	if err != nil {
		return config.DefaultCatalog()
	}
	return catalog
}
