package tool

import (
	"fmt"
	"strings"
)

// Result is the outcome of one capability invocation. Exactly one Result
// is produced per invocation; it becomes the content of a tool-result
// turn.
type Result struct {
	OK     bool
	Output string

	// ExitCode is set for command-running capabilities.
	ExitCode *int
}

// FormatCommandOutput renders the tool-result protocol for shell and
// sandbox handlers: labeled stdout and stderr sections, with the exit
// code trailer only when nonzero. The literal shape is relied on by
// model prompts; don't change it.
func FormatCommandOutput(stdout, stderr string, exitCode int) string {
	output := fmt.Sprintf("- stdout -\n%s\n- stderr -\n%s", stdout, stderr)
	if exitCode != 0 {
		output += fmt.Sprintf("\n- Command exited with code: %d -", exitCode)
	}
	return strings.TrimSpace(output)
}
