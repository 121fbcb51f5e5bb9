// Package config handles configuration loading for blogpessoal.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from BLOG_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/blogpessoal/config.yaml
//  3. ~/.config/blogpessoal/config.yaml
//
// Files with a .toml extension are decoded as TOML; anything else as YAML.
//
// # Environment Variables
//
// Values can reference environment variables:
//
//	auth:
//	  jwt_secret: "${BLOG_SIGNING_KEY}"
//
// After the file is decoded, BLOG_* variables override single fields
// (BLOG_HTTP_ADDR, BLOG_DB_DRIVER, BLOG_DB_PATH, BLOG_DB_DSN, BLOG_JWT_SECRET,
// BLOG_BCRYPT_COST, BLOG_LOG_LEVEL, BLOG_LOG_FORMAT, BLOG_METRICS_ENABLED,
// BLOG_METRICS_PATH, BLOG_CORS_ALLOWED_ORIGINS).
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:8080"
//	  read_timeout: "10s"
//	  write_timeout: "15s"
//	  shutdown_timeout: "5s"
//
//	database:
//	  driver: "sqlite"          # or "postgres"
//	  path: "./blog.db"         # sqlite
//	  dsn: "postgres://..."     # postgres
//
//	auth:
//	  jwt_secret: "..."         # at least 32 bytes
//	  bcrypt_cost: 10
//
//	logging:
//	  level: "info"             # debug, info, warn, error
//	  format: "text"            # text or json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
//	cors:
//	  allowed_origins: ["*"]
package config
