package config

// Default returns the configuration used when no config.yaml is present:
// no MCP servers, generative planning disabled, client defaults matching
// the resilience layer's own fixed fallbacks.
func Default() Config {
	return Config{
		MCP: MCPConfig{
			Client: ClientConfig{
				DefaultTimeoutMS: 30000,
				Retry:            RetryConfig{MaxAttempts: 3, BackoffMultiplier: 2.0},
			},
		},
		AI: AIConfig{Enabled: false},
	}
}
