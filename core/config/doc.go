// Package config provides configuration management for the s3kit CLI.
//
// It uses Viper for loading configuration from environment variables and a
// .env file, with defaults registered from struct tags. The library itself
// is configured programmatically; this package only serves the embedding
// CLI.
//
// # Configuration structure
//
//   - Storage: endpoint URI and credentials
//   - Transport: HTTP timeout tuning
//   - Log: level and format
//   - Fake: listen address and base host of the in-memory endpoint
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := s3.NewFromConfig(cfg.Storage, cfg.Transport)
package config
