package config

import (
	"fmt"

	units "github.com/docker/go-units"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	switch c.Provider.Backend {
	case "gemini", "anthropic":
	default:
		errs = append(errs, fmt.Sprintf("provider.backend must be \"gemini\" or \"anthropic\", got %q", c.Provider.Backend))
	}
	if c.Provider.Model == "" {
		errs = append(errs, "provider.model must not be empty")
	}
	if c.Provider.MaxTokens < 1 {
		errs = append(errs, "provider.max_tokens must be >= 1")
	}

	if len(c.Tools.AllowedCommands) == 0 {
		errs = append(errs, "tools.allowed_commands must not be empty")
	}
	for i, prefix := range c.Tools.AllowedCommands {
		if prefix == "" {
			errs = append(errs, fmt.Sprintf("tools.allowed_commands[%d] must not be empty", i))
		}
	}
	if c.Tools.ShellTimeoutSeconds < 1 {
		errs = append(errs, "tools.shell_timeout_seconds must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 1 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 1")
	}
	if c.Tools.MaxCommandOutputBytes < 1 {
		errs = append(errs, "tools.max_command_output_bytes must be >= 1")
	}
	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.MaxToolIterations < 1 {
		errs = append(errs, "tools.max_tool_iterations must be >= 1")
	}

	if c.Sandbox.Image == "" {
		errs = append(errs, "sandbox.image must not be empty")
	}
	if c.Sandbox.WorkDir == "" {
		errs = append(errs, "sandbox.work_dir must not be empty")
	}
	if _, err := units.RAMInBytes(c.Sandbox.Memory); err != nil {
		errs = append(errs, fmt.Sprintf("sandbox.memory is not a valid size: %v", err))
	}
	if c.Sandbox.CPUs <= 0 {
		errs = append(errs, "sandbox.cpus must be > 0")
	}
	if c.Sandbox.TimeoutSeconds < 1 {
		errs = append(errs, "sandbox.timeout_seconds must be >= 1")
	}
	if c.Sandbox.RemoveTimeoutSeconds < 1 {
		errs = append(errs, "sandbox.remove_timeout_seconds must be >= 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
