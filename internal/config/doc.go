// Package config handles configuration loading, parsing, and validation
// from environment variables, .env files and an optional config.yaml. It
// provides type-safe access to the settings needed by the server, the
// token codec, the rate limiter and the mailer.
package config
