package policy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAllowed = []string{"ls", "cat", "git add", "git status", "git commit", "git push"}

func TestCheck(t *testing.T) {
	p := New(testAllowed, nil)

	tests := []struct {
		name    string
		command string
		deny    bool
	}{
		{name: "bare allowed command", command: "ls"},
		{name: "allowed with arguments", command: "ls -la src"},
		{name: "leading whitespace trimmed", command: "   cat main.go"},
		{name: "multi word prefix", command: "git status --short"},
		{name: "denied command", command: "rm -rf /", deny: true},
		{name: "denied git subcommand", command: "git rebase main", deny: true},
		{name: "empty command", command: "", deny: true},
		{name: "whitespace only", command: "   ", deny: true},
		// Known limitation: prefix matching admits metacharacter abuse
		// behind an allowed prefix.
		{name: "chained command behind allowed prefix", command: "ls; rm -rf /"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.Check(tt.command)
			if tt.deny {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDeniedErrorNamesPrefixes(t *testing.T) {
	p := New([]string{"ls", "cat"}, nil)

	err := p.Check("curl http://example.com")
	require.Error(t, err)

	var denied *DeniedError
	require.True(t, errors.As(err, &denied))
	assert.Equal(t, "curl http://example.com", denied.Command)
	assert.Equal(t, []string{"ls", "cat"}, denied.Allowed)
	assert.Contains(t, denied.Error(), "ls, cat")
}

func TestCommandName(t *testing.T) {
	assert.Equal(t, "git", CommandName("git status --short"))
	assert.Equal(t, "ls", CommandName("ls"))
	assert.Equal(t, "", CommandName(""))
	// Unbalanced quoting falls back to a whitespace split.
	assert.Equal(t, "echo", CommandName(`echo "unterminated`))
}
