// Package config provides centralized configuration management for the
// dashboard service.
//
// # Configuration Sources
//
// Configuration is assembled from the following sources in order of precedence:
//
//  1. Environment variables (highest priority)
//  2. YAML configuration file (config.yaml, configs/config.yaml or TREXX_CONFIG_FILE)
//  3. Default values (lowest priority)
//
// # Environment Variables
//
// Variables are namespaced with TREXX_ and follow the section structure:
//
//	TREXX_SERVER_PORT=8080
//	TREXX_ARTIFACTS_DIR=/srv/artifacts
//	TREXX_ARTIFACTS_CACHE_SCOPE=session
//	TREXX_PANELS_ROW_POLICY=reject
//	TREXX_LOGGING_LEVEL=debug
//
// # Paths
//
// Relative locations are resolved by Config.ResolvePaths; the artifacts
// directory falls back to the executable directory when it does not exist
// under the working directory.
package config
