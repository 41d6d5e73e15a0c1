// Package file provides the TOML-backed configuration for depreval.
// Evaluation settings live in ~/.depreval/config.toml; provider
// credentials are read from the environment (optionally via a .env
// file) and are never written to disk.
package file
