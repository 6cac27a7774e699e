// Package policy decides whether a raw shell command may run unsandboxed.
package policy

import (
	"fmt"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"
)

// CommandPolicy admits commands whose trimmed text starts with one of a
// fixed set of allowed prefixes. Matching is prefix-based on the literal
// command string, not a parse of shell semantics: it blocks unknown
// commands but does not prevent metacharacter abuse within an allowed
// prefix ("ls; rm -rf /" still starts with "ls"). This is a known,
// deliberately preserved limitation of the whitelist.
type CommandPolicy struct {
	allowed []string
	log     *logrus.Entry
}

// New creates a CommandPolicy from the configured prefix list.
func New(allowed []string, log *logrus.Entry) *CommandPolicy {
	return &CommandPolicy{allowed: allowed, log: log}
}

// Allowed returns the admitted prefixes.
func (p *CommandPolicy) Allowed() []string {
	return p.allowed
}

// Check returns nil when the command is permitted for unsandboxed
// execution, or a DeniedError naming the allowed prefixes. The check is
// a mandatory gate: callers must not execute on a non-nil error.
func (p *CommandPolicy) Check(command string) error {
	trimmed := strings.TrimSpace(command)
	if trimmed == "" {
		return &DeniedError{Command: command, Allowed: p.allowed}
	}

	for _, prefix := range p.allowed {
		if strings.HasPrefix(trimmed, prefix) {
			return nil
		}
	}

	if p.log != nil {
		p.log.WithField("command", CommandName(command)).Debug("command denied by policy")
	}
	return &DeniedError{Command: command, Allowed: p.allowed}
}

// CommandName extracts the first word of a command for display and
// logging. It tolerates unbalanced quoting by falling back to a
// whitespace split; the result is never used for admission decisions.
func CommandName(command string) string {
	if words, err := shellwords.Parse(command); err == nil && len(words) > 0 {
		return words[0]
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// DeniedError reports a rejected command together with the admitted
// prefixes, so the denial can be surfaced conversationally.
type DeniedError struct {
	Command string
	Allowed []string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("command %q is not allowed; permitted command prefixes: %s",
		e.Command, strings.Join(e.Allowed, ", "))
}
