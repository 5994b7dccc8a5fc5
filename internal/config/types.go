// Package config loads and validates the caseline YAML configuration.
package config

// Config is the root configuration for caseline.
type Config struct {
	LLM     LLMConfig     `yaml:"llm,omitempty"`
	Intake  IntakeConfig  `yaml:"intake,omitempty"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Gateway GatewayConfig `yaml:"gateway,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
}

// LLMConfig selects the completion provider.
type LLMConfig struct {
	Provider string `yaml:"provider,omitempty"` // "openai" (default) or "mock" for dry runs
	APIKey   string `yaml:"apiKey,omitempty"`   // supports ${ENV_VAR} references
	Model    string `yaml:"model,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"` // override for OpenAI-compatible endpoints

	// MaxTokens caps responder replies. Extraction is uncapped.
	MaxTokens int `yaml:"maxTokens,omitempty"`

	// ReplyTemperature is used for conversational replies only; extraction
	// is always pinned to zero.
	ReplyTemperature *float64 `yaml:"replyTemperature,omitempty"`
}

// IntakeConfig tunes the intake conversation.
type IntakeConfig struct {
	// HandoffContact is emitted verbatim when the user asks for a human.
	HandoffContact string `yaml:"handoffContact,omitempty"`
}

// StoreConfig selects where cases are persisted.
type StoreConfig struct {
	Path string `yaml:"path,omitempty"` // sqlite file path; ":memory:" for ephemeral
}

// GatewayConfig controls the HTTP/WebSocket server.
type GatewayConfig struct {
	Port int    `yaml:"port,omitempty"`
	Bind string `yaml:"bind,omitempty"` // listen address, defaults to loopback
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // "silent" | "fatal" | "error" | "warn" | "info" | "debug"
}

// ConfigError describes a configuration problem.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }
