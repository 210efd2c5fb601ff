// Package config loads the cutting job and runtime settings from multiple
// sources (YAML files, environment variables, CLI flags) with precedence:
// CLI flags > YAML config > Environment variables > Defaults. It exposes
// strongly typed settings to the rest of the application.
package config
