package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in the config file override defaults, including explicit
// zero values. Missing keys are left at their default values.
type Config struct {
	Provider ProviderConfig `toml:"provider"`
	Tools    ToolsConfig    `toml:"tools"`
	Sandbox  SandboxConfig  `toml:"sandbox"`
	Log      LogConfig      `toml:"log"`
}

type ProviderConfig struct {
	// Backend selects the model client: "gemini" or "anthropic"
	Backend string `toml:"backend"` // Default: "gemini"
	Model   string `toml:"model"`   // Default: "gemini-2.0-flash"

	// MaxTokens bounds completion length for backends that require it
	MaxTokens int `toml:"max_tokens"` // Default: 1024
}

type ToolsConfig struct {
	// Command Policy: prefixes admitted for unsandboxed execution.
	// Matching is literal prefix matching on the trimmed command text,
	// not a parse of shell semantics. This blocks unknown commands but
	// does not prevent metacharacter abuse within an allowed prefix
	// ("ls; rm -rf /" still starts with "ls"); the matching reference
	// behavior is kept as-is.
	AllowedCommands []string `toml:"allowed_commands"`

	// Command Execution
	ShellTimeoutSeconds   int   `toml:"shell_timeout_seconds"`    // Default: 600
	GracefulShutdownMs    int   `toml:"graceful_shutdown_ms"`     // Default: 2000
	MaxCommandOutputBytes int64 `toml:"max_command_output_bytes"` // Default: 10MB

	// File Operations
	MaxFileSize int64 `toml:"max_file_size"` // Default: 20MB

	// Directory Listing
	ListRespectGitignore bool `toml:"list_respect_gitignore"` // Default: false

	// Conversation Loop
	MaxToolIterations int `toml:"max_tool_iterations"` // Default: 20
}

type SandboxConfig struct {
	Image   string `toml:"image"`    // Default: "python:3.11-slim"
	WorkDir string `toml:"work_dir"` // Default: "/app"

	// Memory is a human-readable size ("512m", "1g"), parsed with
	// docker/go-units into the byte ceiling applied per run.
	Memory string  `toml:"memory"` // Default: "512m"
	CPUs   float64 `toml:"cpus"`   // Default: 1

	TimeoutSeconds       int `toml:"timeout_seconds"`        // Default: 300
	RemoveTimeoutSeconds int `toml:"remove_timeout_seconds"` // Default: 30
}

type LogConfig struct {
	Level string `toml:"level"` // Default: "info"
	File  string `toml:"file"`  // Default: "" (stderr)
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Backend:   "gemini",
			Model:     "gemini-2.0-flash",
			MaxTokens: 1024,
		},
		Tools: ToolsConfig{
			AllowedCommands:       []string{"ls", "cat", "git add", "git status", "git commit", "git push"},
			ShellTimeoutSeconds:   600,
			GracefulShutdownMs:    2000,
			MaxCommandOutputBytes: 10 * 1024 * 1024,
			MaxFileSize:           20 * 1024 * 1024,
			ListRespectGitignore:  false,
			MaxToolIterations:     20,
		},
		Sandbox: SandboxConfig{
			Image:                "python:3.11-slim",
			WorkDir:              "/app",
			Memory:               "512m",
			CPUs:                 1,
			TimeoutSeconds:       300,
			RemoveTimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
