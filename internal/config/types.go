package config

// Config is the top-level configuration structure, corresponding to the
// `mcp` and `ai` namespaces.
type Config struct {
	MCP MCPConfig `yaml:"mcp"`
	AI  AIConfig  `yaml:"ai"`
}

// MCPConfig is the `mcp` namespace: client-wide defaults plus one
// ServerConfig per configured server id.
type MCPConfig struct {
	Client  ClientConfig            `yaml:"client"`
	Servers map[string]ServerConfig `yaml:"servers,omitempty"`
}

// ClientConfig is `mcp.client`: the default per-request timeout and
// retry knobs. The core Connection/Transport layer does not retry at
// the transport level, and no other package reads the retry values:
// Validate checks them and they are otherwise only carried in Config.
type ClientConfig struct {
	DefaultTimeoutMS int         `yaml:"defaultTimeout"`
	Retry            RetryConfig `yaml:"retry"`
}

// RetryConfig is `mcp.client.retry`.
type RetryConfig struct {
	MaxAttempts       int     `yaml:"maxAttempts"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// ServerConfig is one `mcp.servers.<id>` entry, the YAML shape of a
// mcpclient.ServerDescriptor before it is resolved.
type ServerConfig struct {
	Type        string            `yaml:"type"`
	Command     string            `yaml:"command,omitempty"`
	Args        []string          `yaml:"args,omitempty"`
	URL         string            `yaml:"url,omitempty"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	TimeoutMS   int               `yaml:"timeout,omitempty"`
	Enabled     bool              `yaml:"enabled"`
	Environment []string          `yaml:"environment,omitempty"`
}

// AIConfig is the `ai` namespace. The vendor API key is
// deliberately absent here — it is read from an environment variable,
// never committed to a config file. FastModel and ReasoningModel are
// optional; either defaults to Model when left blank, so a single-model
// deployment needs no extra configuration.
type AIConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	FastModel      string `yaml:"fast_model,omitempty"`
	ReasoningModel string `yaml:"reasoning_model,omitempty"`
}
