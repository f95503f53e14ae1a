// Package config provides configuration loading and validation for the
// relay controller. It handles YAML-based configuration with per-section
// validation and supplies reference-deployment defaults for anything the
// file leaves out.
package config
