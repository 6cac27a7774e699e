// Package agent owns the conversation loop: it relays user input to the
// model, dispatches requested tool calls, and feeds results back until
// the model produces a final text answer.
package agent

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"codeagent/internal/agent/model"
	"codeagent/internal/provider"
)

// UserIO is the console surface the loop talks to.
type UserIO interface {
	// ReadLine blocks for the next user line. ok is false on end of input.
	ReadLine() (line string, ok bool)

	// PrintReply shows a model answer.
	PrintReply(text string)

	// PrintNotice shows an out-of-band status line.
	PrintNotice(text string)
}

// quit tokens end the session when entered on their own.
var quitTokens = map[string]bool{
	"exit": true,
	"quit": true,
}

// Agent runs the interactive session. History is append-only; every
// completion call sees the full ordered conversation.
type Agent struct {
	provider      provider.Provider
	dispatcher    *Dispatcher
	io            UserIO
	maxIterations int
	log           *logrus.Entry

	history []model.Message
}

// New creates an agent. maxIterations caps tool rounds within a single
// user turn.
func New(p provider.Provider, d *Dispatcher, io UserIO, maxIterations int, log *logrus.Entry) *Agent {
	if p == nil {
		panic("provider is required")
	}
	if d == nil {
		panic("dispatcher is required")
	}
	if io == nil {
		panic("io is required")
	}
	if maxIterations < 1 {
		maxIterations = 1
	}
	return &Agent{
		provider:      p,
		dispatcher:    d,
		io:            io,
		maxIterations: maxIterations,
		log:           log,
	}
}

// History returns the conversation so far.
func (a *Agent) History() []model.Message {
	out := make([]model.Message, len(a.history))
	copy(out, a.history)
	return out
}

// Run drives the session until the user quits, input ends, ctx is
// cancelled, or the provider fails at the transport level. Tool
// failures never end the session; they are surfaced to the model as
// result text.
func (a *Agent) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, ok := a.io.ReadLine()
		if !ok {
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if quitTokens[strings.ToLower(input)] {
			return nil
		}

		a.history = append(a.history, model.Message{Role: model.RoleUser, Content: input})

		if err := a.turn(ctx); err != nil {
			return err
		}
	}
}

// turn runs model completions for the newest user message until the
// model answers in text or the tool round cap is hit.
func (a *Agent) turn(ctx context.Context) error {
	for i := 0; i < a.maxIterations; i++ {
		resp, err := a.provider.Generate(ctx, &provider.GenerateRequest{History: a.History()})
		if err != nil {
			return err
		}

		if a.log != nil {
			a.log.WithFields(logrus.Fields{
				"type":   string(resp.Content.Type),
				"tokens": resp.Metadata.TotalTokens,
			}).Debug("completion received")
		}

		switch resp.Content.Type {
		case provider.ResponseTypeRefusal:
			notice := "The model declined to answer: " + resp.Content.RefusalReason
			a.history = append(a.history, model.Message{Role: model.RoleModel, Content: notice})
			a.io.PrintNotice(notice)
			return nil

		case provider.ResponseTypeToolCall:
			a.history = append(a.history, model.Message{
				Role:      model.RoleModel,
				Content:   resp.Content.Text,
				ToolCalls: resp.Content.ToolCalls,
			})

			results := a.dispatcher.Dispatch(ctx, resp.Content.ToolCalls)
			a.history = append(a.history, model.Message{
				Role:        model.RoleTool,
				ToolResults: results,
			})

		default:
			a.history = append(a.history, model.Message{Role: model.RoleModel, Content: resp.Content.Text})
			a.io.PrintReply(resp.Content.Text)
			return nil
		}
	}

	notice := "Stopped: too many consecutive tool calls without a final answer. Ask again to continue."
	a.history = append(a.history, model.Message{Role: model.RoleModel, Content: notice})
	a.io.PrintNotice(notice)
	return nil
}
