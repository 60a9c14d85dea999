// Package config handles configuration loading for tasky-server.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// The package provides validation and sensible defaults.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	suggest:
//	  api_key: "${GEMINI_API_KEY}"
//
// Syntax: ${VAR_NAME}
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	auth:
//	  session_ttl: "720h"
//
// An empty or omitted session_ttl disables session expiry.
//
// # Configuration Sections
//
// Server settings:
//
//	server:
//	  http_addr: "127.0.0.1:3001"
//
// Database:
//
//	database:
//	  path: "/var/lib/tasky/tasky.db"
//
// Authentication:
//
//	auth:
//	  session_ttl: "720h"
//	  bcrypt_cost: 12
//
// AI suggestions (disabled when api_key is empty):
//
//	suggest:
//	  api_key: "${GEMINI_API_KEY}"
//	  model: "gemini-pro"
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
