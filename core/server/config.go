package server

import "strings"

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"3030"`
	// ApiKey is the secret key required to access the API. Empty disables the check.
	ApiKey string `mapstructure:"api_key" default:""`
	// AllowedOrigins is a comma separated list of origins allowed by CORS.
	AllowedOrigins string `mapstructure:"allowed_origins" default:"https://cursos.receitasmilionarias.com.br,http://localhost:3000"`
	// BodyLimitMB caps the size of a single request body (uploads included).
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"1024"`
}

// DefaultBodyLimitMB is used when BodyLimitMB is not positive.
const DefaultBodyLimitMB = 1024

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = DefaultBodyLimitMB
	}
	return mb * 1024 * 1024
}

// Origins returns the trimmed, non-empty CORS origins.
func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
